package standardize

import (
	"strings"

	"github.com/wdm0006/uetl/pkg/etl"
)

type Trim struct{ Column string }

func (t *Trim) Name() string { return "trim" }

func (t *Trim) Apply(r etl.Record) (etl.Record, error) {
	return mapString(r, t.Column, strings.TrimSpace), nil
}
