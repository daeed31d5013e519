package command

import (
	"fmt"

	"github.com/file-butler/go/internal/types"
)

// Command is one reversible, executed file action. Every command can
// produce a valid inverse without re-reading filesystem state beyond
// existence checks. The set of implementations is closed.
type Command interface {
	// ID returns the command's stable identity.
	ID() string
	// Describe returns a human-readable summary of the action.
	Describe() string
	// moves returns the constituent file moves, one for a single move.
	moves() []MoveFile

	sealed()
}

// MoveFile moves one file from its origin to a destination path. The
// file's status at creation time is captured so undo can restore it
// verbatim, independent of later drift.
type MoveFile struct {
	CmdID       string           `json:"id"`
	FileID      string           `json:"file_id"`
	From        string           `json:"from"`
	To          string           `json:"to"`
	PriorStatus types.FileStatus `json:"prior_status"`
}

func (c MoveFile) ID() string { return c.CmdID }

func (c MoveFile) Describe() string {
	return fmt.Sprintf("move %s to %s", c.From, c.To)
}

func (c MoveFile) moves() []MoveFile { return []MoveFile{c} }

func (MoveFile) sealed() {}

// Inverse returns the move that reverses this one. Applying it is only
// valid after the inverse validation in the log passes.
func (c MoveFile) Inverse() MoveFile {
	return MoveFile{CmdID: c.CmdID, FileID: c.FileID, From: c.To, To: c.From, PriorStatus: c.PriorStatus}
}

// BulkMove is an ordered batch of moves treated as one atomic undo
// unit: either every sub-move reverses, or the outcome reports exactly
// which ones could not be.
type BulkMove struct {
	CmdID string     `json:"id"`
	Moves []MoveFile `json:"moves"`
	Note  string     `json:"note,omitempty"`
}

func (c BulkMove) ID() string { return c.CmdID }

func (c BulkMove) Describe() string {
	if c.Note != "" {
		return c.Note
	}
	return fmt.Sprintf("move %d files", len(c.Moves))
}

func (c BulkMove) moves() []MoveFile { return c.Moves }

func (BulkMove) sealed() {}

// Mover is the physical mover the log drives. Implementations perform
// real I/O; the log itself never touches the filesystem directly.
type Mover interface {
	Move(from, to string) error
	CreateIntermediateDirectories(path string) error
	Exists(path string) bool
}

// StatusStore tracks the current workflow status per file identity.
type StatusStore interface {
	Get(fileID string) types.FileStatus
	Set(fileID string, s types.FileStatus)
}
