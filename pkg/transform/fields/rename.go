package fields

import (
	"maps"

	"github.com/wdm0006/uetl/pkg/etl"
)

// Rename moves fields listed in Mapping (old name -> new name) to their new
// names; other fields pass through. When two fields end up under one name the
// later field in input order wins and the name keeps its first position.
type Rename struct {
	Mapping map[string]string
}

// NewRename returns a Rename over its own copy of mapping.
func NewRename(mapping map[string]string) *Rename {
	return &Rename{Mapping: maps.Clone(mapping)}
}

func (t *Rename) Name() string { return "rename" }

func (t *Rename) Apply(r etl.Record) (etl.Record, error) {
	out := etl.NewRecord()
	for k, v := range r.All() {
		if nk, ok := t.Mapping[k]; ok {
			k = nk
		}
		out.Set(k, v)
	}
	return out, nil
}
