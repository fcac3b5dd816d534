package standardize

import "github.com/wdm0006/uetl/pkg/etl"

// MapValues replaces string values found in Map; other values are kept.
type MapValues struct {
	Column string
	Map    map[string]string
}

func (t *MapValues) Name() string { return "map_values" }

func (t *MapValues) Apply(r etl.Record) (etl.Record, error) {
	return mapString(r, t.Column, func(s string) string {
		if nv, ok := t.Map[s]; ok {
			return nv
		}
		return s
	}), nil
}
