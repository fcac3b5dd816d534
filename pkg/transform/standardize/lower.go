package standardize

import (
	"strings"

	"github.com/wdm0006/uetl/pkg/etl"
)

type Lower struct{ Column string }

func (t *Lower) Name() string { return "lower" }

func (t *Lower) Apply(r etl.Record) (etl.Record, error) {
	return mapString(r, t.Column, strings.ToLower), nil
}
