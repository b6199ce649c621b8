package finreport

import (
	"context"
	"log/slog"
	"time"

	"github.com/randalmurphal/finreport/pkg/finreport/llm"
	"github.com/randalmurphal/finreport/pkg/finreport/observability"
	"github.com/randalmurphal/finreport/pkg/finreport/search"
)

// Context provides execution context to stages. It extends
// context.Context with the run's services and metadata.
//
// Context is immutable after creation. The driver derives a context per
// stage with the stage tag set and the logger enriched.
type Context interface {
	context.Context

	// Logger returns the run logger, enriched with run and stage fields.
	// Never nil.
	Logger() *slog.Logger

	// LLM returns the LLM capability. Never nil for a constructed
	// pipeline.
	LLM() llm.Client

	// Searcher returns the search capability. Never nil for a
	// constructed pipeline.
	Searcher() search.Searcher

	// Metrics returns the metrics recorder. Never nil; a no-op recorder
	// is installed when metrics are disabled.
	Metrics() observability.MetricsRecorder

	// RunID returns the unique identifier for this run.
	RunID() string

	// Stage returns the stage currently executing.
	Stage() Stage

	// Now returns the current time. Injectable for tests via WithClock.
	Now() time.Time
}

// execContext is the internal implementation of Context.
type execContext struct {
	context.Context

	logger   *slog.Logger
	llm      llm.Client
	searcher search.Searcher
	metrics  observability.MetricsRecorder
	runID    string
	stage    Stage
	now      func() time.Time
}

// Logger returns the run logger.
func (c *execContext) Logger() *slog.Logger {
	return c.logger
}

// LLM returns the LLM capability.
func (c *execContext) LLM() llm.Client {
	return c.llm
}

// Searcher returns the search capability.
func (c *execContext) Searcher() search.Searcher {
	return c.searcher
}

// Metrics returns the metrics recorder.
func (c *execContext) Metrics() observability.MetricsRecorder {
	return c.metrics
}

// RunID returns the run identifier.
func (c *execContext) RunID() string {
	return c.runID
}

// Stage returns the executing stage.
func (c *execContext) Stage() Stage {
	return c.stage
}

// Now returns the current time from the injected clock.
func (c *execContext) Now() time.Time {
	return c.now()
}

// withStage derives a stage-scoped context with an enriched logger.
func (c *execContext) withStage(stage Stage) *execContext {
	return &execContext{
		Context:  c.Context,
		logger:   observability.EnrichLogger(c.logger, c.runID, stage.String()),
		llm:      c.llm,
		searcher: c.searcher,
		metrics:  c.metrics,
		runID:    c.runID,
		stage:    stage,
		now:      c.now,
	}
}
