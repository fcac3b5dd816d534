package fields

import (
	"slices"

	"github.com/wdm0006/uetl/pkg/etl"
)

// Filter keeps exactly Keys on every record. A key the input lacks is
// emitted with etl.Missing.
type Filter struct {
	Keys []string
}

// NewFilter returns a Filter over its own copy of keys.
func NewFilter(keys ...string) *Filter {
	return &Filter{Keys: slices.Clone(keys)}
}

func (t *Filter) Name() string { return "filter" }

func (t *Filter) Apply(r etl.Record) (etl.Record, error) {
	out := etl.NewRecord()
	for _, k := range t.Keys {
		out.Set(k, r.Value(k))
	}
	return out, nil
}
