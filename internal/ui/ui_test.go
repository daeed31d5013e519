package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/file-butler/go/internal/command"
	"github.com/file-butler/go/internal/engine"
	"github.com/file-butler/go/internal/rules"
	"github.com/file-butler/go/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestRenderSuccess(t *testing.T) {
	msg := "Files organized"
	output := RenderSuccess(msg)

	assert.Contains(t, output, msg)
	assert.Contains(t, output, IconSuccess)
}

func TestRenderWarning(t *testing.T) {
	msg := "Some files skipped"
	output := RenderWarning(msg)

	assert.Contains(t, output, msg)
	assert.Contains(t, output, IconWarning)
}

func TestRenderMove(t *testing.T) {
	output := RenderMove("invoice.pdf", "Finance/2024")

	assert.Contains(t, output, "invoice.pdf")
	assert.Contains(t, output, "Finance/2024")
	assert.Contains(t, output, IconArrowRight)
}

func TestRenderConfidenceTiers(t *testing.T) {
	assert.Contains(t, RenderConfidence(0.95), "0.95")
	assert.Contains(t, RenderConfidence(0.75), "0.75")
	assert.Contains(t, RenderConfidence(0.30), "0.30")
}

func TestPrintPlanListsMovesAndTrash(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterTo(&buf, false)

	finance := types.Destination{Folder: "Finance"}
	trash := types.Destination{Trash: true}
	p.PrintPlan([]engine.MatchResult{
		{File: types.FileRecord{Name: "invoice.pdf"}, Destination: &finance, Subpath: "2024", Confidence: 0.95},
		{File: types.FileRecord{Name: "junk.tmp"}, Destination: &trash, Confidence: 0.8},
	})

	out := buf.String()
	assert.Contains(t, out, "invoice.pdf")
	assert.Contains(t, out, "Finance/2024")
	assert.Contains(t, out, "Trash")
}

func TestPrintPlanTruncatesUnlessVerbose(t *testing.T) {
	results := make([]engine.MatchResult, 25)
	dest := types.Destination{Folder: "Documents"}
	for i := range results {
		results[i] = engine.MatchResult{
			File:        types.FileRecord{Name: "file.pdf"},
			Destination: &dest,
			Confidence:  0.9,
		}
	}

	var buf bytes.Buffer
	NewPrinterTo(&buf, false).PrintPlan(results)
	assert.Contains(t, buf.String(), "and 5 more")

	buf.Reset()
	NewPrinterTo(&buf, true).PrintPlan(results)
	assert.NotContains(t, buf.String(), "and 5 more")
}

func TestPrintConflictsShowsCandidates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterTo(&buf, false)

	p.PrintConflicts([]engine.MatchResult{
		{
			File:     types.FileRecord{Name: "both.pdf"},
			Conflict: true,
			Candidates: []rules.Rule{
				{Name: "Invoices", Destination: types.Destination{Folder: "Finance"}},
				{Name: "Reports", Destination: types.Destination{Folder: "Work"}},
			},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "both.pdf")
	assert.Contains(t, out, "Invoices")
	assert.Contains(t, out, "Finance")
	assert.Contains(t, out, "Work")
}

func TestPrintResultsItemizesFailures(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterTo(&buf, false)

	p.PrintResults([]command.Result{
		{Outcome: command.OutcomeSuccess},
		{Outcome: command.OutcomeSkipped, Reason: "a.pdf: conflict between 2 rules needs manual resolution"},
		{Outcome: command.OutcomeFailure, Failures: []command.MoveFailure{
			{FileID: "f1", Path: "/src/b.pdf", Reason: "destination already exists"},
		}},
	})

	out := buf.String()
	assert.Contains(t, out, "conflict between 2 rules")
	assert.Contains(t, out, "/src/b.pdf")
	assert.Contains(t, out, "destination already exists")
}

func TestPrintHistoryMarksUndone(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterTo(&buf, false)

	p.PrintHistory([]command.ActivityItem{
		{CommandID: "c1", Outcome: command.OutcomeSuccess, Time: time.Now(), Description: "move a to b", Undone: true},
		{CommandID: "c2", Outcome: command.OutcomeSuccess, Time: time.Now(), Description: "move c to d"},
	})

	out := buf.String()
	assert.Contains(t, out, "move a to b")
	assert.Contains(t, out, "(undone)")
	assert.Contains(t, out, "move c to d")
}

func TestUndoResultHandlesEmptyLog(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterTo(&buf, false)

	p.UndoResult("undo", nil)
	assert.Contains(t, buf.String(), "Nothing to undo")
}
