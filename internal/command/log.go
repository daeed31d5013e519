package command

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/file-butler/go/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrCorrupt marks the one fatal log state: a cursor outside the valid
// range. Recovery is a log reset; nothing else is recoverable about it.
var ErrCorrupt = errors.New("command log corrupt: cursor out of range")

// DefaultHistoryLimit caps how many commands the log retains before
// truncating from the head. Truncation is the only way commands are
// destroyed.
const DefaultHistoryLimit = 500

// entry pairs a logged command with which of its sub-moves are
// currently applied on disk.
type entry struct {
	cmd     Command
	applied []bool
}

// Log is the append-only command sequence with a single movable cursor
// marking the most recently applied command. All mutating operations
// serialize behind one mutex; history reads get a consistent snapshot.
type Log struct {
	mu       sync.Mutex
	entries  []entry
	cursor   int
	limit    int
	mover    Mover
	statuses StatusStore
	activity []ActivityItem
	now      func() time.Time
}

// NewLog creates an empty command log backed by the given mover and
// status store. A limit below one falls back to DefaultHistoryLimit.
func NewLog(m Mover, s StatusStore, limit int) *Log {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	return &Log{mover: m, statuses: s, limit: limit, now: time.Now}
}

// Execute applies a brand-new command and appends it to the log. If the
// cursor is not at the tail, the redo tail is truncated first: no redo
// branch survives a new action. Sub-move failures are isolated and
// itemized; a command that applied nothing is not appended.
func (l *Log) Execute(cmd Command) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.check(); err != nil {
		return Result{CommandID: cmd.ID(), Outcome: OutcomeFailure, Reason: err.Error()}
	}

	// Truncate the redo tail.
	if l.cursor < len(l.entries) {
		l.entries = l.entries[:l.cursor]
	}

	moves := cmd.moves()
	applied := make([]bool, len(moves))
	var failures []MoveFailure
	for i, m := range moves {
		if err := l.applyMove(m); err != nil {
			failures = append(failures, MoveFailure{FileID: m.FileID, Path: m.From, Reason: err.Error()})
			continue
		}
		applied[i] = true
		l.statuses.Set(m.FileID, types.StatusCompleted)
	}

	res := Result{CommandID: cmd.ID(), Failures: failures}
	switch {
	case len(failures) == 0:
		res.Outcome = OutcomeSuccess
	case len(failures) == len(moves):
		res.Outcome = OutcomeFailure
		res.Reason = "no file could be moved"
		l.record(cmd, res.Outcome)
		return res
	default:
		res.Outcome = OutcomePartial
	}

	l.entries = append(l.entries, entry{cmd: cmd, applied: applied})
	l.cursor = len(l.entries)
	l.truncateHead()
	l.record(cmd, res.Outcome)
	return res
}

// Undo reverses the command at the cursor and moves the cursor back.
// Every applied sub-move is validated before reversal: the destination
// must still exist and the origin must be free. A command that could
// not be fully reversed keeps the cursor in place and reports exactly
// which sub-moves remain applied.
func (l *Log) Undo() *Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.check(); err != nil {
		return &Result{Outcome: OutcomeFailure, Reason: err.Error()}
	}
	if l.cursor == 0 {
		return nil
	}

	e := &l.entries[l.cursor-1]
	moves := e.cmd.moves()
	var failures []MoveFailure
	reversed := 0

	// Reverse in reverse order so bulk moves unwind cleanly.
	for i := len(moves) - 1; i >= 0; i-- {
		if !e.applied[i] {
			continue
		}
		m := moves[i]
		if reason, ok := l.validateInverse(m); !ok {
			failures = append(failures, MoveFailure{FileID: m.FileID, Path: m.To, Reason: reason, Integrity: true})
			continue
		}
		if err := l.applyMove(m.Inverse()); err != nil {
			failures = append(failures, MoveFailure{FileID: m.FileID, Path: m.To, Reason: err.Error(), Integrity: true})
			continue
		}
		e.applied[i] = false
		l.statuses.Set(m.FileID, m.PriorStatus)
		reversed++
	}

	res := &Result{CommandID: e.cmd.ID(), Failures: failures}
	if len(failures) == 0 {
		res.Outcome = OutcomeSuccess
		l.cursor--
		l.markUndone(e.cmd.ID(), true)
		return res
	}

	// The command stays applied: it was never fully reversed. Files
	// that did reverse are back in their last known-good location.
	if reversed == 0 {
		res.Outcome = OutcomeFailure
	} else {
		res.Outcome = OutcomePartial
	}
	res.Reason = "some moves could not be reversed"
	return res
}

// Redo re-applies the command just after the cursor and moves the
// cursor forward.
func (l *Log) Redo() *Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.check(); err != nil {
		return &Result{Outcome: OutcomeFailure, Reason: err.Error()}
	}
	if l.cursor >= len(l.entries) {
		return nil
	}

	e := &l.entries[l.cursor]
	moves := e.cmd.moves()
	var failures []MoveFailure
	for i, m := range moves {
		if e.applied[i] {
			continue
		}
		if err := l.applyMove(m); err != nil {
			failures = append(failures, MoveFailure{FileID: m.FileID, Path: m.From, Reason: err.Error()})
			continue
		}
		e.applied[i] = true
		l.statuses.Set(m.FileID, types.StatusCompleted)
	}

	res := &Result{CommandID: e.cmd.ID(), Failures: failures}
	if len(failures) == 0 {
		res.Outcome = OutcomeSuccess
		l.cursor++
		l.markUndone(e.cmd.ID(), false)
	} else {
		res.Outcome = OutcomePartial
		res.Reason = "some moves could not be re-applied"
	}
	return res
}

// History returns a consistent snapshot of the activity records, most
// recent last.
func (l *Log) History() []ActivityItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ActivityItem, len(l.activity))
	copy(out, l.activity)
	return out
}

// RestoreActivity replaces the activity records with persisted ones.
func (l *Log) RestoreActivity(items []ActivityItem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.activity = make([]ActivityItem, len(items))
	copy(l.activity, items)
}

// Snapshot exports the logged commands and cursor for persistence.
func (l *Log) Snapshot() ([]Command, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cmds := make([]Command, len(l.entries))
	for i, e := range l.entries {
		cmds[i] = e.cmd
	}
	return cmds, l.cursor
}

// Restore replaces the log's contents with persisted commands. Restored
// commands are assumed fully applied up to the cursor.
func (l *Log) Restore(cmds []Command, cursor int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cursor < 0 || cursor > len(cmds) {
		l.entries = nil
		l.cursor = 0
		return ErrCorrupt
	}
	l.entries = make([]entry, len(cmds))
	for i, c := range cmds {
		applied := make([]bool, len(c.moves()))
		if i < cursor {
			for j := range applied {
				applied[j] = true
			}
		}
		l.entries[i] = entry{cmd: c, applied: applied}
	}
	l.cursor = cursor
	return nil
}

func (l *Log) applyMove(m MoveFile) error {
	if dir := filepath.Dir(m.To); dir != "" && dir != "." {
		if err := l.mover.CreateIntermediateDirectories(dir); err != nil {
			return err
		}
	}
	return l.mover.Move(m.From, m.To)
}

// validateInverse checks that a move can still be reversed without
// re-reading anything beyond existence.
func (l *Log) validateInverse(m MoveFile) (string, bool) {
	if !l.mover.Exists(m.To) {
		return "file no longer at destination", false
	}
	if l.mover.Exists(m.From) {
		return "original location is occupied", false
	}
	return "", true
}

func (l *Log) record(cmd Command, outcome Outcome) {
	l.activity = append(l.activity, ActivityItem{
		ID:          uuid.NewString(),
		CommandID:   cmd.ID(),
		Outcome:     outcome,
		Time:        l.now(),
		Description: cmd.Describe(),
	})
}

func (l *Log) markUndone(commandID string, undone bool) {
	for i := len(l.activity) - 1; i >= 0; i-- {
		if l.activity[i].CommandID == commandID {
			l.activity[i].Undone = undone
			return
		}
	}
}

func (l *Log) truncateHead() {
	if len(l.entries) <= l.limit {
		return
	}
	drop := len(l.entries) - l.limit
	l.entries = append([]entry(nil), l.entries[drop:]...)
	l.cursor -= drop
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// check guards every mutating operation. A cursor outside the valid
// range is unrecoverable: the log resets and the caller is told.
func (l *Log) check() error {
	if l.cursor < 0 || l.cursor > len(l.entries) {
		log.Error().Int("cursor", l.cursor).Int("entries", len(l.entries)).Msg("Command log corrupt, resetting")
		l.entries = nil
		l.cursor = 0
		return ErrCorrupt
	}
	return nil
}
