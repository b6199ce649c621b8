package finreport

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/finreport/pkg/finreport/config"
	"github.com/randalmurphal/finreport/pkg/finreport/history"
	"github.com/randalmurphal/finreport/pkg/finreport/llm"
	"github.com/randalmurphal/finreport/pkg/finreport/observability"
	"github.com/randalmurphal/finreport/pkg/finreport/search"
)

// Pipeline is the report workflow, wired once at construction and safe
// for concurrent Run calls: all per-run state lives in the State value
// threaded through the stages.
type Pipeline struct {
	cfg      config.Config
	llm      llm.Client
	searcher search.Searcher

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager // nil unless WithTracing
	history history.Store             // nil unless WithHistory
	now     func() time.Time
}

// New wires a Pipeline from its two required capabilities and validated
// configuration. Use Options for logging, metrics, tracing, persistence,
// and clock injection.
func New(cfg config.Config, client llm.Client, searcher search.Searcher, opts ...Option) (*Pipeline, error) {
	if client == nil {
		return nil, ErrNilLLM
	}
	if searcher == nil {
		return nil, ErrNilSearcher
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = config.Default().MaxIterations
	}

	p := &Pipeline{
		cfg:      cfg,
		llm:      client,
		searcher: searcher,
		logger:   slog.Default(),
		metrics:  observability.NoopMetrics{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes one report request to a terminal state.
//
// On success the returned State holds either the finalized report
// (Stage == StageDone) or the insufficient-data disclaimer
// (Stage == StageAbandon); both are normal outcomes, not errors. An
// error return means the run did not reach a terminal state: an LLM
// failure, a panic inside a stage, cancellation, or the iteration
// limit. The State at the point of failure is returned alongside for
// inspection.
func (p *Pipeline) Run(ctx context.Context, subject, focus string, opts ...RunOption) (result State, runErr error) {
	var rc runConfig
	for _, opt := range opts {
		opt(&rc)
	}
	if rc.runID == "" {
		rc.runID = uuid.NewString()
	}

	state := newState(rc.runID, subject, focus)
	if state.Subject == "" {
		return state, ErrEmptySubject
	}

	start := time.Now()
	observability.LogRunStart(p.logger, rc.runID, state.Subject)

	execCtx := &execContext{
		Context:  ctx,
		logger:   p.logger,
		llm:      p.llm,
		searcher: p.searcher,
		metrics:  p.metrics,
		runID:    rc.runID,
		now:      p.now,
	}

	if p.spans != nil {
		spanCtx, runSpan := p.spans.StartRunSpan(ctx, state.Subject, rc.runID)
		execCtx.Context = spanCtx
		defer func() {
			p.spans.EndSpanWithError(runSpan, runErr)
		}()
	}

	var stageCount int
	result, stageCount, runErr = p.drive(execCtx, state)

	duration := time.Since(start)
	durationMs := float64(duration.Milliseconds())
	p.metrics.RecordRun(execCtx, runErr == nil, result.Stage.String(), duration)

	if runErr != nil {
		observability.LogRunError(p.logger, rc.runID, runErr, durationMs, lastStageOf(runErr).String())
		return result, runErr
	}

	observability.LogRunComplete(p.logger, rc.runID, result.Stage.String(), durationMs, stageCount)
	p.saveHistory(result)
	return result, nil
}

// drive is the driver loop: execute the current stage, merge its update,
// route to the next stage, repeat until StageDone.
func (p *Pipeline) drive(ctx *execContext, state State) (State, int, error) {
	current := StageCollect
	iterations := 0
	stageCount := 0

	for current != StageDone {
		iterations++
		if iterations > p.cfg.MaxIterations {
			return state, stageCount, &MaxIterationsError{
				Max:       p.cfg.MaxIterations,
				LastStage: current,
				State:     state,
			}
		}

		// Cancellation is honored between stages only; a stage in flight
		// relies on its capability calls respecting the context.
		select {
		case <-ctx.Done():
			return state, stageCount, &CancellationError{
				Stage: current,
				State: state,
				Cause: ctx.Err(),
			}
		default:
		}

		observability.LogStageStart(p.logger, current.String())

		stageCtx := ctx.withStage(current)
		var stageSpan trace.Span
		if p.spans != nil {
			spanCtx, span := p.spans.StartStageSpan(ctx.Context, current.String())
			stageCtx.Context = spanCtx
			stageSpan = span
		}

		stageStart := time.Now()
		update, err := p.executeStage(stageCtx, current, state)
		stageDuration := time.Since(stageStart)

		p.metrics.RecordStageExecution(stageCtx, current.String(), stageDuration, err)
		if p.spans != nil {
			p.spans.EndSpanWithError(stageSpan, err)
		}

		if err != nil {
			observability.LogStageError(p.logger, current.String(), err)
			return state, stageCount, err
		}

		state = state.apply(current, update)
		observability.LogStageComplete(p.logger, current.String(), float64(stageDuration.Milliseconds()))
		stageCount++

		next, err := p.nextStage(stageCtx, current, state)
		if err != nil {
			return state, stageCount, err
		}
		current = next
	}

	// StageAbandon is its own terminal tag; every other path finalizes.
	if state.Stage != StageAbandon {
		state.Stage = StageDone
	}
	return state, stageCount, nil
}

// executeStage runs one stage with panic recovery. A panic surfaces as a
// *PanicError; a stage error is wrapped in a *StageError.
func (p *Pipeline) executeStage(ctx Context, stage Stage, state State) (update Update, err error) {
	fn := p.stageFunc(stage)
	if fn == nil {
		return Update{}, &StageError{
			Stage: stage,
			Op:    "lookup",
			Err:   errors.New("no function registered for stage"),
		}
	}

	defer func() {
		if r := recover(); r != nil {
			update = Update{}
			err = &PanicError{
				Stage: stage,
				Value: r,
				Stack: string(debug.Stack()),
			}
		}
	}()

	update, err = fn(ctx, state)
	if err != nil {
		return update, &StageError{
			Stage: stage,
			Op:    "execute",
			Err:   err,
		}
	}
	return update, nil
}

// stageFunc maps a stage to its implementation. StageDone and StageInit
// have no function: the former ends the loop, the latter never executes.
func (p *Pipeline) stageFunc(stage Stage) StageFunc {
	switch stage {
	case StageCollect:
		return p.collectData
	case StageAnalyze:
		return p.analyzeData
	case StageWrite:
		return p.writeReport
	case StageEdit:
		return p.editReport
	case StageRetryCollect:
		return p.retryCollection
	case StageRetryWrite:
		return p.retryWriting
	case StageAbandon:
		return p.abandonRun
	default:
		return nil
	}
}

// nextStage is the routing table: fixed edges plus the two quality
// gates. The switch is exhaustive over executable stages; reaching the
// default arm is a programming error.
func (p *Pipeline) nextStage(ctx Context, current Stage, state State) (Stage, error) {
	switch current {
	case StageCollect:
		return StageAnalyze, nil

	case StageAnalyze:
		verdict, issues := CheckAnalysisQuality(state, p.cfg.RetryCeiling)
		observability.LogGateDecision(ctx.Logger(), "analysis", verdict.String(), state.CollectionAttempts, issues)
		switch verdict {
		case CollectMoreData:
			p.metrics.RecordRetry(ctx, "analysis")
			return StageRetryCollect, nil
		case InsufficientData:
			return StageAbandon, nil
		default:
			return StageWrite, nil
		}

	case StageWrite:
		return StageEdit, nil

	case StageEdit:
		verdict, issues := CheckReportQuality(state, p.cfg.RetryCeiling)
		observability.LogGateDecision(ctx.Logger(), "report", verdict.String(), state.WritingAttempts, issues)
		if verdict == ReviseReport {
			p.metrics.RecordRetry(ctx, "report")
			return StageRetryWrite, nil
		}
		return StageDone, nil

	case StageRetryCollect:
		return StageCollect, nil

	case StageRetryWrite:
		return StageWrite, nil

	case StageAbandon:
		return StageDone, nil

	default:
		return StageDone, &StageError{
			Stage: current,
			Op:    "routing",
			Err:   errors.New("no outgoing edge"),
		}
	}
}

// saveHistory records a terminal run. Failures are logged, never fatal.
func (p *Pipeline) saveHistory(s State) {
	if p.history == nil {
		return
	}

	status := history.StatusFinalized
	if s.Stage == StageAbandon {
		status = history.StatusInsufficientData
	}

	rec := history.Record{
		RunID:              s.RunID,
		Subject:            s.Subject,
		Status:             status,
		Report:             s.FinalReport,
		CollectionAttempts: s.CollectionAttempts,
		WritingAttempts:    s.WritingAttempts,
		CreatedAt:          p.now(),
	}
	if err := p.history.Save(rec); err != nil {
		observability.LogHistoryError(p.logger, s.RunID, err)
	}
}

// lastStageOf extracts the stage a run error occurred at, for logging.
func lastStageOf(err error) Stage {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		return panicErr.Stage
	}
	var cancelErr *CancellationError
	if errors.As(err, &cancelErr) {
		return cancelErr.Stage
	}
	var maxErr *MaxIterationsError
	if errors.As(err, &maxErr) {
		return maxErr.LastStage
	}
	return StageInit
}
