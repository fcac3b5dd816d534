package standardize

import "github.com/wdm0006/uetl/pkg/etl"

// mapString rewrites a string field with fn. Records without the column, or
// whose value is not a string, are returned as is.
func mapString(r etl.Record, column string, fn func(string) string) etl.Record {
	s, ok := r.Value(column).AsString()
	if !ok {
		return r
	}
	out := r.Clone()
	out.Set(column, etl.String(fn(s)))
	return out
}
