package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Used when metrics are disabled.
type NoopMetrics struct{}

// RecordStageExecution does nothing.
func (NoopMetrics) RecordStageExecution(ctx context.Context, stage string, duration time.Duration, err error) {
}

// RecordRun does nothing.
func (NoopMetrics) RecordRun(ctx context.Context, success bool, terminal string, duration time.Duration) {
}

// RecordRetry does nothing.
func (NoopMetrics) RecordRetry(ctx context.Context, gate string) {}

// RecordLLMCall does nothing.
func (NoopMetrics) RecordLLMCall(ctx context.Context, stage string, inputTokens, outputTokens int, duration time.Duration) {
}

// RecordSearch does nothing.
func (NoopMetrics) RecordSearch(ctx context.Context, results int, failed bool) {}

// NoopSpanManager is a SpanManager that creates non-recording spans.
// Used when tracing is disabled.
type NoopSpanManager struct{}

// noopTracer creates non-recording spans.
var noopTracer = noop.NewTracerProvider().Tracer("finreport")

// StartRunSpan returns a non-recording span.
func (NoopSpanManager) StartRunSpan(ctx context.Context, subject, runID string) (context.Context, trace.Span) {
	return noopTracer.Start(ctx, "finreport.run")
}

// StartStageSpan returns a non-recording span.
func (NoopSpanManager) StartStageSpan(ctx context.Context, stage string) (context.Context, trace.Span) {
	return noopTracer.Start(ctx, "finreport.stage."+stage)
}

// EndSpanWithError ends the span without recording anything.
func (NoopSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	span.End()
}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {}
