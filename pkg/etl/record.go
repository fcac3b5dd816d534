package etl

import (
	"bytes"
	"encoding/json"
	"iter"
	"sort"
)

// Field is one named value of a Record.
type Field struct {
	Name  string
	Value Value
}

// F builds a Field, converting v with Of.
func F(name string, v any) Field { return Field{Name: name, Value: Of(v)} }

// Record is an insertion-ordered mapping from field name to Value.
// Field names are unique within a record.
//
// Pipeline stages treat records as immutable: transforms build a new Record
// (or Clone one) instead of calling Set on their input.
type Record struct {
	fields []Field
	index  map[string]int // name -> position in fields
}

// NewRecord builds a record from fields. A repeated name overwrites the
// earlier value and keeps the earlier position.
func NewRecord(fields ...Field) Record {
	r := Record{fields: make([]Field, 0, len(fields)), index: make(map[string]int, len(fields))}
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

// FromMap builds a record from a plain map. Keys are sorted since map
// iteration order is unspecified.
func FromMap(m map[string]any) Record {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	r := Record{fields: make([]Field, 0, len(m)), index: make(map[string]int, len(m))}
	for _, k := range keys {
		r.Set(k, Of(m[k]))
	}
	return r
}

// Set stores v under name. An existing field keeps its position.
func (r *Record) Set(name string, v Value) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[name]; ok {
		r.fields[i].Value = v
		return
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, Field{Name: name, Value: v})
}

func (r Record) Len() int { return len(r.fields) }

func (r Record) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Get returns the value stored under name.
func (r Record) Get(name string) (Value, bool) {
	i, ok := r.index[name]
	if !ok {
		return Missing, false
	}
	return r.fields[i].Value, true
}

// Value returns the value stored under name, or Missing.
func (r Record) Value(name string) Value {
	v, _ := r.Get(name)
	return v
}

// Keys returns the field names in insertion order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Name
	}
	return keys
}

// Fields returns a copy of the record's fields in insertion order.
func (r Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// All iterates the fields in insertion order.
func (r Record) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, f := range r.fields {
			if !yield(f.Name, f.Value) {
				return
			}
		}
	}
}

// Clone returns a record that shares no storage with r.
func (r Record) Clone() Record {
	out := Record{fields: make([]Field, len(r.fields)), index: make(map[string]int, len(r.fields))}
	copy(out.fields, r.fields)
	for k, i := range r.index {
		out.index[k] = i
	}
	return out
}

// Map converts the record to a plain map; null values become nil.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		m[f.Name] = f.Value.Any()
	}
	return m
}

// Equal reports whether both records hold the same names with equal values,
// regardless of field order.
func (r Record) Equal(o Record) bool {
	if len(r.fields) != len(o.fields) {
		return false
	}
	for _, f := range r.fields {
		v, ok := o.Get(f.Name)
		if !ok || !v.Equal(f.Value) {
			return false
		}
	}
	return true
}

// EqualOrdered is Equal with the additional requirement of identical order.
func (r Record) EqualOrdered(o Record) bool {
	if len(r.fields) != len(o.fields) {
		return false
	}
	for i, f := range r.fields {
		g := o.fields[i]
		if f.Name != g.Name || !f.Value.Equal(g.Value) {
			return false
		}
	}
	return true
}

// String renders the record as a JSON object.
func (r Record) String() string {
	b, err := r.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(b)
}

// MarshalJSON writes the record as a JSON object with keys in insertion order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
