package finreport

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline construction.
var (
	// ErrNilLLM indicates New was called without an LLM client.
	ErrNilLLM = errors.New("llm client cannot be nil")

	// ErrNilSearcher indicates New was called without a searcher.
	ErrNilSearcher = errors.New("searcher cannot be nil")

	// ErrEmptySubject indicates Run was called with a blank subject.
	ErrEmptySubject = errors.New("subject cannot be empty")
)

// Sentinel errors for execution.
var (
	// ErrMaxIterations indicates the driver loop exceeded its limit.
	// With the fixed topology and bounded retries this requires a bug or
	// a pathologically low WithMaxIterations setting.
	ErrMaxIterations = errors.New("exceeded maximum iterations")
)

// StageError wraps an error with the stage that produced it.
type StageError struct {
	// Stage is the stage that failed.
	Stage Stage
	// Op is the operation that failed (e.g. "execute").
	Op string
	// Err is the underlying error from the stage.
	Err error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %s: %v", e.Stage, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StageError) Unwrap() error {
	return e.Err
}

// PanicError captures a panic raised inside a stage function.
type PanicError struct {
	// Stage is the stage that panicked.
	Stage Stage
	// Value is the value passed to panic().
	Value any
	// Stack is the stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("stage %s panicked: %v", e.Stage, e.Value)
}

// CancellationError captures the point at which a run was cancelled.
// The state at cancellation is preserved for inspection.
type CancellationError struct {
	// Stage is the stage that was about to execute.
	Stage Stage
	// State is the state at cancellation.
	State State
	// Cause is context.Canceled or context.DeadlineExceeded.
	Cause error
}

// Error implements the error interface.
func (e *CancellationError) Error() string {
	return fmt.Sprintf("cancelled before stage %s: %v", e.Stage, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CancellationError) Unwrap() error {
	return e.Cause
}

// MaxIterationsError provides context when the driver loop limit is hit.
type MaxIterationsError struct {
	// Max is the configured iteration limit.
	Max int
	// LastStage is the stage that would have executed next.
	LastStage Stage
	// State is the state at termination.
	State State
}

// Error implements the error interface.
func (e *MaxIterationsError) Error() string {
	return fmt.Sprintf("exceeded maximum iterations (%d) at stage %s", e.Max, e.LastStage)
}

// Unwrap returns ErrMaxIterations for errors.Is support.
func (e *MaxIterationsError) Unwrap() error {
	return ErrMaxIterations
}

// DecodeError indicates the analyst could not parse the LLM's structured
// output. The analyst recovers from it locally (downgrading to an empty
// analysis); the type exists so tests and callers can distinguish a
// malformed payload from a transport failure.
type DecodeError struct {
	// Raw is the text that failed to decode, after fence stripping.
	Raw string
	// Err is the underlying JSON error.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode analysis: %v", e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
