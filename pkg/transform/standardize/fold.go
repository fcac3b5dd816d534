package standardize

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/wdm0006/uetl/pkg/etl"
)

// Fold strips diacritics, e.g. "Škoda" becomes "Skoda".
type Fold struct{ Column string }

func (t *Fold) Name() string { return "fold" }

func (t *Fold) Apply(r etl.Record) (etl.Record, error) {
	return mapString(r, t.Column, func(s string) string {
		// a transform.Chain is stateful, so each call builds its own
		chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		out, _, err := transform.String(chain, s)
		if err != nil {
			return s
		}
		return out
	}), nil
}
