package outliers

import "github.com/wdm0006/uetl/pkg/etl"

// Cap clamps numeric values of Column into [Min, Max]. A nil bound is open.
type Cap struct {
	Column string
	Min    *float64
	Max    *float64
}

func (t *Cap) Name() string { return "cap_range" }

func (t *Cap) Apply(r etl.Record) (etl.Record, error) {
	v := r.Value(t.Column)
	switch v.Kind() {
	case etl.KindFloat:
		f, _ := v.AsFloat()
		if t.Min != nil && f < *t.Min {
			f = *t.Min
		}
		if t.Max != nil && f > *t.Max {
			f = *t.Max
		}
		return withValue(r, t.Column, v, etl.Float(f)), nil
	case etl.KindInt:
		i, _ := v.AsInt()
		if t.Min != nil && float64(i) < *t.Min {
			i = int64(*t.Min)
		}
		if t.Max != nil && float64(i) > *t.Max {
			i = int64(*t.Max)
		}
		return withValue(r, t.Column, v, etl.Int(i)), nil
	}
	return r, nil
}

func withValue(r etl.Record, column string, old, nv etl.Value) etl.Record {
	if old.Equal(nv) {
		return r
	}
	out := r.Clone()
	out.Set(column, nv)
	return out
}
