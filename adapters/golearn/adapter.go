// Package golearn converts between record slices and
// github.com/sjwhitworth/golearn/base DenseInstances.
package golearn

import (
	"fmt"
	"math"

	"github.com/sjwhitworth/golearn/base"

	"github.com/wdm0006/uetl/pkg/etl"
)

// columns lists field names in first-seen order and whether every non-null
// value under each is numeric.
func columns(records []etl.Record) ([]string, map[string]bool) {
	var names []string
	numeric := map[string]bool{}
	for _, r := range records {
		for name, v := range r.All() {
			if _, ok := numeric[name]; !ok {
				names = append(names, name)
				numeric[name] = true
			}
			switch v.Kind() {
			case etl.KindNull, etl.KindInt, etl.KindFloat:
			default:
				numeric[name] = false
			}
		}
	}
	return names, numeric
}

// ToDenseInstances converts records into golearn DenseInstances. Numeric
// columns become float attributes (null as NaN); any other column is
// categorical. class names the class attribute; when empty the last column
// is used.
func ToDenseInstances(records []etl.Record, class string) (*base.DenseInstances, error) {
	names, numeric := columns(records)
	inst := base.NewDenseInstances()
	if len(names) == 0 {
		return inst, nil
	}

	attrs := make([]base.Attribute, len(names))
	specs := make([]base.AttributeSpec, len(names))
	classIdx := len(names) - 1
	for i, name := range names {
		if numeric[name] {
			attrs[i] = base.NewFloatAttribute(name)
		} else {
			ca := base.NewCategoricalAttribute()
			ca.SetName(name)
			attrs[i] = ca
		}
		specs[i] = inst.AddAttribute(attrs[i])
		if name == class {
			classIdx = i
		}
	}
	if class != "" && names[classIdx] != class {
		return nil, fmt.Errorf("class attribute %q not found", class)
	}
	if err := inst.Extend(len(records)); err != nil {
		return nil, err
	}

	for row, r := range records {
		for c, name := range names {
			v := r.Value(name)
			if numeric[name] {
				f, ok := v.AsFloat()
				if !ok {
					f = math.NaN()
				}
				inst.Set(specs[c], row, base.PackFloatToBytes(f))
				continue
			}
			inst.Set(specs[c], row, attrs[c].GetSysValFromString(v.String()))
		}
	}
	if err := inst.AddClassAttribute(attrs[classIdx]); err != nil {
		return nil, err
	}
	return inst, nil
}

// FromDenseInstances converts golearn DenseInstances into records. Float
// attributes yield float values (NaN as null); others yield strings.
func FromDenseInstances(inst *base.DenseInstances) ([]etl.Record, error) {
	attrs := inst.AllAttributes()
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		spec, err := inst.GetAttribute(a)
		if err != nil {
			return nil, err
		}
		specs[i] = spec
	}
	_, nrows := inst.Size()
	out := make([]etl.Record, 0, nrows)
	for row := 0; row < nrows; row++ {
		r := etl.NewRecord()
		for c, a := range attrs {
			raw := inst.Get(specs[c], row)
			if _, ok := a.(*base.FloatAttribute); ok {
				f := base.UnpackBytesToFloat(raw)
				if math.IsNaN(f) {
					r.Set(a.GetName(), etl.Null())
				} else {
					r.Set(a.GetName(), etl.Float(f))
				}
				continue
			}
			r.Set(a.GetName(), etl.String(a.GetStringFromSysVal(raw)))
		}
		out = append(out, r)
	}
	return out, nil
}

// Loader collects a pipeline's output and stores it in *dst as
// DenseInstances once the sequence is drained.
func Loader(class string, dst **base.DenseInstances) etl.Loader {
	return func(records etl.Seq) error {
		rs, err := etl.Collect(records)
		if err != nil {
			return err
		}
		inst, err := ToDenseInstances(rs, class)
		if err != nil {
			return err
		}
		*dst = inst
		return nil
	}
}
