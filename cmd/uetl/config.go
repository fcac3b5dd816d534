package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"
)

type InputConfig struct {
	Path       string `json:"path" validate:"required"`
	Type       string `json:"type" validate:"omitempty,oneof=csv jsonl parquet"` // default csv
	HasHeader  bool   `json:"has_header"`
	Delimiter  string `json:"delimiter" validate:"omitempty,len=1"`
	Encoding   string `json:"encoding"`
	InferTypes bool   `json:"infer_types"`
	NullEmpty  bool   `json:"null_empty"`
}

type OutputConfig struct {
	Path        string   `json:"path" validate:"required"`
	Type        string   `json:"type" validate:"omitempty,oneof=csv jsonl parquet"` // default csv
	Delimiter   string   `json:"delimiter" validate:"omitempty,len=1"`
	Fields      []string `json:"fields"`
	IgnoreExtra bool     `json:"ignore_extra"`
}

type Config struct {
	Name   string            `json:"name"`
	Input  InputConfig       `json:"input"`
	Output OutputConfig      `json:"output"`
	Steps  []json.RawMessage `json:"steps"`
}

// loadConfig reads a JSON, YAML or TOML file, chosen by extension. YAML and
// TOML documents are normalized through JSON so the json tags above are the
// only field names.
func loadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseConfig(b, strings.ToLower(filepath.Ext(path)))
}

func parseConfig(b []byte, ext string) (*Config, error) {
	switch ext {
	case ".yaml", ".yml", ".toml":
		var doc map[string]any
		var err error
		if ext == ".toml" {
			err = toml.Unmarshal(b, &doc)
		} else {
			err = yaml.Unmarshal(b, &doc)
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s config: %w", strings.TrimPrefix(ext, "."), err)
		}
		if b, err = json.Marshal(doc); err != nil {
			return nil, err
		}
	case ".json", "":
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateConfig(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		// Namespace is "Config.input.path"; drop the root type name.
		field := e.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		msgs = append(msgs, field+": "+describe(e))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + e.Param()
	case "len":
		return "must be exactly " + e.Param() + " character"
	default:
		return "is invalid"
	}
}
