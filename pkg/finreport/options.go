package finreport

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/finreport/pkg/finreport/history"
	"github.com/randalmurphal/finreport/pkg/finreport/observability"
)

// Option configures a Pipeline at construction.
type Option func(*Pipeline)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetricsRecorder sets the metrics recorder. Defaults to a no-op.
//
// Pass observability.NewMetricsRecorder() to record OTel metrics through
// the global meter provider.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(p *Pipeline) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithTracing enables OTel spans for the run and each stage, using the
// global tracer provider.
func WithTracing() Option {
	return func(p *Pipeline) {
		p.spans = observability.NewSpanManager()
	}
}

// WithHistory sets a store that receives a record for every terminal run.
// Save failures are logged and never fail the run.
func WithHistory(store history.Store) Option {
	return func(p *Pipeline) {
		p.history = store
	}
}

// WithClock injects the time source used for the report banner and
// history timestamps. Defaults to time.Now. Tests pin it for
// deterministic banners.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// RunOption configures a single Run call.
type RunOption func(*runConfig)

// runConfig holds per-run settings.
type runConfig struct {
	runID string
}

// WithRunID sets the run identifier. Defaults to a fresh UUID.
func WithRunID(id string) RunOption {
	return func(c *runConfig) {
		if id != "" {
			c.runID = id
		}
	}
}
