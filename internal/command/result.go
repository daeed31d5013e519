package command

import (
	"fmt"
	"time"
)

// Outcome classifies how a command execution or reversal went.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeFailure Outcome = "failure"
	OutcomeSkipped Outcome = "skipped"
)

// MoveFailure describes one sub-move that could not be performed or
// reversed, with enough detail to display and retry.
type MoveFailure struct {
	FileID string
	Path   string
	Reason string
	// Integrity marks an inverse-validation failure: the original
	// action still stands and the user must resolve manually, unlike a
	// fresh move error.
	Integrity bool
}

func (f MoveFailure) Error() string {
	if f.Integrity {
		return fmt.Sprintf("cannot reverse move of %s: %s", f.Path, f.Reason)
	}
	return fmt.Sprintf("cannot move %s: %s", f.Path, f.Reason)
}

// Result reports the outcome of executing, undoing or redoing one
// command. Per-file failures are always itemized, never collapsed into
// a generic error.
type Result struct {
	CommandID string
	Outcome   Outcome
	Reason    string
	Failures  []MoveFailure
}

// ActivityItem records a command's execution outcome for display. Items
// are immutable after creation except for the Undone flag.
type ActivityItem struct {
	ID          string
	CommandID   string
	Outcome     Outcome
	Time        time.Time
	Description string
	Undone      bool
}
