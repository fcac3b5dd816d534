package etl

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingLoader is reported when a pipeline is built without a loader.
	ErrMissingLoader = errors.New("loader function is required")
	// ErrMissingExtractor is reported when a pipeline without an extractor is run.
	ErrMissingExtractor = errors.New("extractor function is required")
)

// ConfigError describes an unusable pipeline configuration.
type ConfigError struct {
	Pipeline string
	Err      error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pipeline %s: %v", e.Pipeline, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
