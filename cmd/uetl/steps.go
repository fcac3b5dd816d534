package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/wdm0006/uetl/pkg/etl"
	"github.com/wdm0006/uetl/pkg/transform/fields"
	imp "github.com/wdm0006/uetl/pkg/transform/impute"
	outl "github.com/wdm0006/uetl/pkg/transform/outliers"
	std "github.com/wdm0006/uetl/pkg/transform/standardize"
	val "github.com/wdm0006/uetl/pkg/transform/validate"
)

type columnStep struct {
	Column string `json:"column"`
}

type boundsStep struct {
	Column string   `json:"column"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
}

// decodeStep decodes params strictly; numbers stay json.Number so that
// integral constants keep their int kind.
func decodeStep(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	return dec.Decode(v)
}

func buildStep(kind string, raw json.RawMessage) (etl.Transform, error) {
	switch kind {
	case "filter":
		var s struct {
			Keys []string `json:"keys"`
		}
		if err := decodeStep(raw, &s); err != nil {
			return nil, err
		}
		return fields.NewFilter(s.Keys...), nil
	case "rename":
		var s struct {
			Mapping map[string]string `json:"mapping"`
		}
		if err := decodeStep(raw, &s); err != nil {
			return nil, err
		}
		return fields.NewRename(s.Mapping), nil
	case "trim", "lower", "fold":
		var s columnStep
		if err := decodeStep(raw, &s); err != nil {
			return nil, err
		}
		switch kind {
		case "trim":
			return &std.Trim{Column: s.Column}, nil
		case "lower":
			return &std.Lower{Column: s.Column}, nil
		}
		return &std.Fold{Column: s.Column}, nil
	case "map_values":
		var s struct {
			Column string            `json:"column"`
			Map    map[string]string `json:"map"`
		}
		if err := decodeStep(raw, &s); err != nil {
			return nil, err
		}
		return &std.MapValues{Column: s.Column, Map: s.Map}, nil
	case "regex_replace":
		var s struct {
			Column  string `json:"column"`
			Pattern string `json:"pattern"`
			Replace string `json:"replace"`
		}
		if err := decodeStep(raw, &s); err != nil {
			return nil, err
		}
		return std.NewRegexReplace(s.Column, s.Pattern, s.Replace)
	case "impute_constant":
		var s struct {
			Column string `json:"column"`
			Value  any    `json:"value"`
		}
		if err := decodeStep(raw, &s); err != nil {
			return nil, err
		}
		return &imp.Constant{Column: s.Column, Value: s.Value}, nil
	case "cap_range":
		var s boundsStep
		if err := decodeStep(raw, &s); err != nil {
			return nil, err
		}
		return &outl.Cap{Column: s.Column, Min: s.Min, Max: s.Max}, nil
	case "validate_in":
		var s struct {
			Column string   `json:"column"`
			Values []string `json:"values"`
		}
		if err := decodeStep(raw, &s); err != nil {
			return nil, err
		}
		return val.NewInSet(s.Column, s.Values), nil
	case "validate_range":
		var s boundsStep
		if err := decodeStep(raw, &s); err != nil {
			return nil, err
		}
		return &val.Range{Column: s.Column, Min: s.Min, Max: s.Max}, nil
	}
	return nil, fmt.Errorf("unknown step %q", kind)
}

// buildSteps turns the config's step list into transforms. Each step is an
// object with a single key naming the step.
func buildSteps(raws []json.RawMessage) ([]etl.Transform, error) {
	out := make([]etl.Transform, 0, len(raws))
	for i, raw := range raws {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if len(probe) != 1 {
			return nil, fmt.Errorf("step %d: expected exactly one key, got %d", i+1, len(probe))
		}
		for kind, params := range probe {
			t, err := buildStep(kind, params)
			if err != nil {
				return nil, fmt.Errorf("step %d (%s): %w", i+1, kind, err)
			}
			out = append(out, t)
		}
	}
	return out, nil
}
