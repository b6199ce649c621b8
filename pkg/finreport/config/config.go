// Package config holds the pipeline configuration: model selection,
// per-stage sampling temperatures, search parameters, and retry budgets.
//
// The configuration is an explicit value passed to the pipeline
// constructor; there is no process-wide settings object, so tests can
// inject any configuration without touching global state.
package config

import (
	"errors"
	"fmt"
)

// Default temperatures per stage. The collector wants near-deterministic
// query generation; the writer gets the most creative freedom.
const (
	DefaultCollectorTemperature = 0.1
	DefaultAnalystTemperature   = 0.3
	DefaultWriterTemperature    = 0.5
	DefaultEditorTemperature    = 0.2
)

// DefaultRetryCeiling bounds retries per gate: 1 initial attempt plus at
// most this many loop-backs.
const DefaultRetryCeiling = 2

// Config configures a report pipeline.
type Config struct {
	// Model names the LLM model for all stages. Empty means the client's
	// default.
	Model string `yaml:"model" json:"model"`

	// MaxTokens caps each completion. Zero means the client's default.
	MaxTokens int `yaml:"max_tokens" json:"max_tokens"`

	// Per-stage sampling temperatures.
	CollectorTemperature float64 `yaml:"collector_temperature" json:"collector_temperature"`
	AnalystTemperature   float64 `yaml:"analyst_temperature" json:"analyst_temperature"`
	WriterTemperature    float64 `yaml:"writer_temperature" json:"writer_temperature"`
	EditorTemperature    float64 `yaml:"editor_temperature" json:"editor_temperature"`

	// SearchDepth is passed through to the search capability
	// ("basic" or "advanced").
	SearchDepth string `yaml:"search_depth" json:"search_depth"`

	// MaxSearchResults caps results per search query.
	MaxSearchResults int `yaml:"max_search_results" json:"max_search_results"`

	// RetryCeiling is the maximum loop-backs per quality gate before
	// forced terminal routing. Applies independently to the analysis and
	// report gates.
	RetryCeiling int `yaml:"retry_ceiling" json:"retry_ceiling"`

	// MaxIterations bounds the driver loop as a backstop against routing
	// bugs. Zero selects the default.
	MaxIterations int `yaml:"max_iterations" json:"max_iterations"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		CollectorTemperature: DefaultCollectorTemperature,
		AnalystTemperature:   DefaultAnalystTemperature,
		WriterTemperature:    DefaultWriterTemperature,
		EditorTemperature:    DefaultEditorTemperature,
		SearchDepth:          "advanced",
		MaxSearchResults:     5,
		RetryCeiling:         DefaultRetryCeiling,
		MaxIterations:        50,
	}
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	var errs []error

	for name, temp := range map[string]float64{
		"collector_temperature": c.CollectorTemperature,
		"analyst_temperature":   c.AnalystTemperature,
		"writer_temperature":    c.WriterTemperature,
		"editor_temperature":    c.EditorTemperature,
	} {
		if temp < 0 || temp > 2 {
			errs = append(errs, fmt.Errorf("%s out of range [0, 2]: %v", name, temp))
		}
	}

	if c.SearchDepth != "basic" && c.SearchDepth != "advanced" {
		errs = append(errs, fmt.Errorf("search_depth must be \"basic\" or \"advanced\", got %q", c.SearchDepth))
	}

	if c.MaxSearchResults <= 0 {
		errs = append(errs, fmt.Errorf("max_search_results must be positive, got %d", c.MaxSearchResults))
	}

	if c.RetryCeiling < 0 {
		errs = append(errs, fmt.Errorf("retry_ceiling cannot be negative, got %d", c.RetryCeiling))
	}

	if c.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("max_tokens cannot be negative, got %d", c.MaxTokens))
	}

	if c.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("max_iterations cannot be negative, got %d", c.MaxIterations))
	}

	return errors.Join(errs...)
}
