package finreport

import "fmt"

// Stage identifies a node of the pipeline. The set is closed: routing is
// an exhaustive switch over these values, so an unknown stage is a
// programming error surfaced at run time by the driver, not silently
// ignored.
type Stage int

const (
	// StageInit is the zero value, before any stage has executed.
	StageInit Stage = iota

	// StageCollect gathers raw data from web search.
	StageCollect

	// StageAnalyze extracts structured metrics from the raw data.
	StageAnalyze

	// StageWrite drafts the long-form report.
	StageWrite

	// StageEdit polishes the draft and prepends the report banner.
	StageEdit

	// StageRetryCollect bumps the collection counter and enriches the
	// search hint before looping back to StageCollect.
	StageRetryCollect

	// StageRetryWrite bumps the writing counter before looping back to
	// StageWrite.
	StageRetryWrite

	// StageAbandon produces the insufficient-data disclaimer report.
	// It is the early-exit terminal path.
	StageAbandon

	// StageDone marks a finalized run. No stage function executes for it.
	StageDone
)

// String returns the stage tag used in logs, messages, and State.Stage.
func (s Stage) String() string {
	switch s {
	case StageInit:
		return "init"
	case StageCollect:
		return "data_collection"
	case StageAnalyze:
		return "analysis"
	case StageWrite:
		return "writing"
	case StageEdit:
		return "editing"
	case StageRetryCollect:
		return "retry_data_collection"
	case StageRetryWrite:
		return "retry_writing"
	case StageAbandon:
		return "early_exit"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Terminal reports whether the stage ends the run once reached.
func (s Stage) Terminal() bool {
	return s == StageAbandon || s == StageDone
}

// StageFunc is the signature of every pipeline stage. Stages receive the
// current state by value and return a partial update; the driver merges
// the update into the running state with field-specific rules (see
// Update). Stages never mutate shared state directly.
type StageFunc func(ctx Context, state State) (Update, error)

// AnalysisVerdict is the three-way outcome of the analysis quality gate.
type AnalysisVerdict int

const (
	// ProceedToWriter routes to the writer: all quality checks passed.
	ProceedToWriter AnalysisVerdict = iota

	// CollectMoreData loops back through the collection retry handler.
	CollectMoreData

	// InsufficientData routes to the abandonment handler: quality issues
	// persist at the retry ceiling.
	InsufficientData
)

// String returns the routing label for logs.
func (v AnalysisVerdict) String() string {
	switch v {
	case ProceedToWriter:
		return "proceed_to_writer"
	case CollectMoreData:
		return "collect_more_data"
	case InsufficientData:
		return "insufficient_data"
	default:
		return fmt.Sprintf("analysis_verdict(%d)", int(v))
	}
}

// ReportVerdict is the two-way outcome of the report quality gate.
type ReportVerdict int

const (
	// FinalizeReport ends the run with the current report.
	FinalizeReport ReportVerdict = iota

	// ReviseReport loops back through the writing retry handler.
	ReviseReport
)

// String returns the routing label for logs.
func (v ReportVerdict) String() string {
	switch v {
	case FinalizeReport:
		return "finalize"
	case ReviseReport:
		return "revise_report"
	default:
		return fmt.Sprintf("report_verdict(%d)", int(v))
	}
}
