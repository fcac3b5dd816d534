package impute

import "github.com/wdm0006/uetl/pkg/etl"

// Constant fills a null or absent column with Value.
type Constant struct {
	Column string
	// converted with etl.Of
	Value any
}

func (t *Constant) Name() string { return "impute_constant" }

func (t *Constant) Apply(r etl.Record) (etl.Record, error) {
	if v, ok := r.Get(t.Column); ok && !v.IsNull() {
		return r, nil
	}
	out := r.Clone()
	out.Set(t.Column, etl.Of(t.Value))
	return out, nil
}
