package standardize

import (
	"fmt"
	"regexp"

	"github.com/wdm0006/uetl/pkg/etl"
)

type RegexReplace struct {
	Column  string
	Replace string
	re      *regexp.Regexp
}

// NewRegexReplace compiles pattern up front so the transform can be shared
// between pipelines without synchronization.
func NewRegexReplace(column, pattern, replace string) (*RegexReplace, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("regex_replace %s: %w", column, err)
	}
	return &RegexReplace{Column: column, Replace: replace, re: re}, nil
}

func (t *RegexReplace) Name() string { return "regex_replace" }

func (t *RegexReplace) Apply(r etl.Record) (etl.Record, error) {
	if t.re == nil {
		return etl.Record{}, fmt.Errorf("regex_replace %s: built without NewRegexReplace", t.Column)
	}
	return mapString(r, t.Column, func(s string) string {
		return t.re.ReplaceAllString(s, t.Replace)
	}), nil
}
