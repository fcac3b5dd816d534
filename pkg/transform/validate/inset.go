package validate

import (
	"github.com/wdm0006/uetl/pkg/etl"
)

// InSet rejects records whose string Column holds a value outside Values.
// Null and absent values pass.
type InSet struct {
	Column string
	Values map[string]struct{}
}

func NewInSet(col string, vals []string) *InSet {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return &InSet{Column: col, Values: m}
}

func (t *InSet) Name() string { return "validate_in" }

func (t *InSet) Apply(r etl.Record) (etl.Record, error) {
	v := r.Value(t.Column)
	s, ok := v.AsString()
	if !ok {
		return r, nil
	}
	if _, ok := t.Values[s]; !ok {
		return etl.Record{}, &Error{Rule: t.Name(), Column: t.Column, Value: v, Reason: "is outside the allowed set"}
	}
	return r, nil
}
