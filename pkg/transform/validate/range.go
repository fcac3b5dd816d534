package validate

import (
	"fmt"

	"github.com/wdm0006/uetl/pkg/etl"
)

// Range rejects records whose numeric Column lies outside [Min, Max].
type Range struct {
	Column string
	Min    *float64
	Max    *float64
}

func (t *Range) Name() string { return "validate_range" }

func (t *Range) Apply(r etl.Record) (etl.Record, error) {
	v := r.Value(t.Column)
	f, ok := v.AsFloat()
	if !ok {
		return r, nil
	}
	if t.Min != nil && f < *t.Min {
		return etl.Record{}, &Error{Rule: t.Name(), Column: t.Column, Value: v, Reason: fmt.Sprintf("is below %g", *t.Min)}
	}
	if t.Max != nil && f > *t.Max {
		return etl.Record{}, &Error{Rule: t.Name(), Column: t.Column, Value: v, Reason: fmt.Sprintf("is above %g", *t.Max)}
	}
	return r, nil
}
