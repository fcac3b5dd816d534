package golearn

import (
	"math"

	"github.com/sjwhitworth/golearn/base"
)

// FillNaN replaces NaN cells of every float attribute with value, in place.
func FillNaN(inst *base.DenseInstances, value float64) error {
	var specs []base.AttributeSpec
	for _, a := range inst.AllAttributes() {
		if _, ok := a.(*base.FloatAttribute); !ok {
			continue
		}
		spec, err := inst.GetAttribute(a)
		if err != nil {
			return err
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil
	}
	fill := base.PackFloatToBytes(value)
	return inst.MapOverRows(specs, func(vals [][]byte, row int) (bool, error) {
		for i, v := range vals {
			if math.IsNaN(base.UnpackBytesToFloat(v)) {
				inst.Set(specs[i], row, fill)
			}
		}
		return true, nil
	})
}
