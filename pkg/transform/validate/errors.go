package validate

import (
	"fmt"

	"github.com/wdm0006/uetl/pkg/etl"
)

// Error reports a record that failed a validation rule.
type Error struct {
	Rule   string
	Column string
	Value  etl.Value
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: column %s value %q %s", e.Rule, e.Column, e.Value.String(), e.Reason)
}
