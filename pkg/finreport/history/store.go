// Package history provides persistence for completed report runs.
//
// The pipeline itself holds no intermediate state across restarts; only
// terminal results (a finalized report or an insufficient-data exit) are
// recorded, so a host application can list and re-serve past reports.
package history

import (
	"errors"
	"time"
)

// Status is the terminal outcome of a run.
type Status string

const (
	// StatusFinalized marks a run that produced a full report, possibly
	// degraded after retry exhaustion.
	StatusFinalized Status = "finalized"

	// StatusInsufficientData marks a run that ended on the early-exit
	// path with a disclaimer report.
	StatusInsufficientData Status = "insufficient_data"
)

// Record is one completed run.
type Record struct {
	RunID              string
	Subject            string
	Status             Status
	Report             string
	CollectionAttempts int
	WritingAttempts    int
	CreatedAt          time.Time
}

// Store persists completed runs.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a record. Overwrites if the run ID already exists.
	Save(rec Record) error

	// Get retrieves a record by run ID.
	// Returns ErrNotFound if it doesn't exist.
	Get(runID string) (Record, error)

	// List returns up to limit records, newest first.
	// A non-positive limit returns all records.
	List(limit int) ([]Record, error)

	// Delete removes a record. Returns nil if it doesn't exist.
	Delete(runID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a record doesn't exist.
	ErrNotFound = errors.New("record not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("history store closed")
)
