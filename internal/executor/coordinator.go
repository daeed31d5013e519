package executor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/file-butler/go/internal/command"
	"github.com/file-butler/go/internal/engine"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Coordinator drives approved match results through the permission
// resolver and the command log. It owns no policy: which results count
// as approved is the caller's decision.
type Coordinator struct {
	Log      *command.Log
	Resolver Resolver
	Statuses command.StatusStore
	TrashDir string
}

// ApproveAndExecute turns each approved result into one MoveFile
// command and executes it. Failures are isolated per file; the batch
// continues past them. Cancellation is honored between individual
// moves: already-executed commands stay undoable, unexecuted results
// are dropped without creating partial commands.
func (c *Coordinator) ApproveAndExecute(ctx context.Context, results []engine.MatchResult) []command.Result {
	out := make([]command.Result, 0, len(results))
	for _, res := range results {
		if ctx.Err() != nil {
			log.Info().Int("remaining", len(results)-len(out)).Msg("Execution cancelled, dropping unexecuted results")
			break
		}
		mv, skip := c.plan(res)
		if skip != nil {
			out = append(out, *skip)
			continue
		}
		out = append(out, c.Log.Execute(mv))
	}
	return out
}

// ExecuteAsUnit turns the whole approved set into a single BulkMove so
// it undoes and redoes as one atomic unit. Per-file resolution failures
// are reported individually and excluded from the bulk command.
func (c *Coordinator) ExecuteAsUnit(ctx context.Context, results []engine.MatchResult) []command.Result {
	if ctx.Err() != nil {
		return nil
	}
	var out []command.Result
	var moves []command.MoveFile
	for _, res := range results {
		mv, skip := c.plan(res)
		if skip != nil {
			out = append(out, *skip)
			continue
		}
		moves = append(moves, mv)
	}
	switch len(moves) {
	case 0:
		return out
	case 1:
		return append(out, c.Log.Execute(moves[0]))
	}
	bulk := command.BulkMove{
		CmdID: uuid.NewString(),
		Moves: moves,
		Note:  fmt.Sprintf("organize %d files", len(moves)),
	}
	return append(out, c.Log.Execute(bulk))
}

// plan resolves one result into a concrete move. A nil move with a
// non-nil result means the file was skipped or failed before any
// command was created.
func (c *Coordinator) plan(res engine.MatchResult) (command.MoveFile, *command.Result) {
	if res.Conflict {
		return command.MoveFile{}, &command.Result{
			Outcome: command.OutcomeSkipped,
			Reason:  fmt.Sprintf("%s: conflict between %d rules needs manual resolution", res.File.Name, len(res.Candidates)),
		}
	}
	if res.Destination == nil {
		return command.MoveFile{}, &command.Result{
			Outcome: command.OutcomeSkipped,
			Reason:  fmt.Sprintf("%s: no destination proposed", res.File.Name),
		}
	}

	var root string
	if res.Destination.Trash {
		root = filepath.Join(c.TrashDir, time.Now().Format("2006-01-02"))
	} else {
		var err error
		root, err = c.Resolver.ResolveDestination(res.Destination.Folder)
		if err != nil {
			return command.MoveFile{}, &command.Result{
				Outcome: command.OutcomeFailure,
				Reason:  fmt.Sprintf("%s: %v", res.File.Name, err),
			}
		}
	}

	to := filepath.Join(root, res.Subpath, res.File.Name)
	return command.MoveFile{
		CmdID:       uuid.NewString(),
		FileID:      res.FileID,
		From:        res.File.Path,
		To:          to,
		PriorStatus: c.Statuses.Get(res.FileID),
	}, nil
}
