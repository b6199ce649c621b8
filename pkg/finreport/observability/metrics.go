package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records pipeline metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordStageExecution records a stage execution with its duration
	// and error status.
	RecordStageExecution(ctx context.Context, stage string, duration time.Duration, err error)

	// RecordRun records a pipeline run completion with its terminal stage.
	RecordRun(ctx context.Context, success bool, terminal string, duration time.Duration)

	// RecordRetry records a traversal of a retry edge.
	RecordRetry(ctx context.Context, gate string)

	// RecordLLMCall records an LLM completion with token usage.
	RecordLLMCall(ctx context.Context, stage string, inputTokens, outputTokens int, duration time.Duration)

	// RecordSearch records one search call and how many results it returned.
	RecordSearch(ctx context.Context, results int, failed bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	stageExecutions metric.Int64Counter
	stageLatency    metric.Float64Histogram
	stageErrors     metric.Int64Counter
	runs            metric.Int64Counter
	runLatency      metric.Float64Histogram
	retries         metric.Int64Counter
	llmTokens       metric.Int64Counter
	llmLatency      metric.Float64Histogram
	searchCalls     metric.Int64Counter
	searchResults   metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("finreport")

	stageExecutions, err := meter.Int64Counter("finreport.stage.executions",
		metric.WithDescription("Number of stage executions"),
	)
	if err != nil {
		return nil, err
	}

	stageLatency, err := meter.Float64Histogram("finreport.stage.latency_ms",
		metric.WithDescription("Stage execution latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	stageErrors, err := meter.Int64Counter("finreport.stage.errors",
		metric.WithDescription("Number of stage execution errors"),
	)
	if err != nil {
		return nil, err
	}

	runs, err := meter.Int64Counter("finreport.runs",
		metric.WithDescription("Number of pipeline runs"),
	)
	if err != nil {
		return nil, err
	}

	runLatency, err := meter.Float64Histogram("finreport.run.latency_ms",
		metric.WithDescription("Pipeline run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	retries, err := meter.Int64Counter("finreport.retries",
		metric.WithDescription("Number of retry edge traversals"),
	)
	if err != nil {
		return nil, err
	}

	llmTokens, err := meter.Int64Counter("finreport.llm.tokens",
		metric.WithDescription("LLM tokens consumed"),
	)
	if err != nil {
		return nil, err
	}

	llmLatency, err := meter.Float64Histogram("finreport.llm.latency_ms",
		metric.WithDescription("LLM call latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	searchCalls, err := meter.Int64Counter("finreport.search.calls",
		metric.WithDescription("Number of search calls"),
	)
	if err != nil {
		return nil, err
	}

	searchResults, err := meter.Int64Histogram("finreport.search.results",
		metric.WithDescription("Results returned per search call"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		stageExecutions: stageExecutions,
		stageLatency:    stageLatency,
		stageErrors:     stageErrors,
		runs:            runs,
		runLatency:      runLatency,
		retries:         retries,
		llmTokens:       llmTokens,
		llmLatency:      llmLatency,
		searchCalls:     searchCalls,
		searchResults:   searchResults,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordStageExecution records a stage execution.
func (m *otelMetrics) RecordStageExecution(ctx context.Context, stage string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("stage", stage),
	}

	m.stageExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.stageLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.stageErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordRun records a pipeline run.
func (m *otelMetrics) RecordRun(ctx context.Context, success bool, terminal string, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
		attribute.String("terminal", terminal),
	}
	m.runs.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.runLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordRetry records a retry edge traversal.
func (m *otelMetrics) RecordRetry(ctx context.Context, gate string) {
	m.retries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("gate", gate),
	))
}

// RecordLLMCall records an LLM completion.
func (m *otelMetrics) RecordLLMCall(ctx context.Context, stage string, inputTokens, outputTokens int, duration time.Duration) {
	stageAttr := attribute.String("stage", stage)

	m.llmTokens.Add(ctx, int64(inputTokens), metric.WithAttributes(
		stageAttr, attribute.String("direction", "input"),
	))
	m.llmTokens.Add(ctx, int64(outputTokens), metric.WithAttributes(
		stageAttr, attribute.String("direction", "output"),
	))
	m.llmLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(stageAttr))
}

// RecordSearch records a search call.
func (m *otelMetrics) RecordSearch(ctx context.Context, results int, failed bool) {
	m.searchCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("failed", failed),
	))
	if !failed {
		m.searchResults.Record(ctx, int64(results))
	}
}
