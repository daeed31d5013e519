package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/file-butler/go/internal/command"
	"github.com/file-butler/go/internal/engine"
)

// Printer handles all console output with rich styling
type Printer struct {
	out     io.Writer
	verbose bool
	json    bool
}

// NewPrinter creates a new printer
func NewPrinter(verbose, json bool) *Printer {
	return &Printer{
		out:     os.Stdout,
		verbose: verbose,
		json:    json,
	}
}

// NewPrinterTo creates a printer writing to the given writer, for tests.
func NewPrinterTo(out io.Writer, verbose bool) *Printer {
	return &Printer{out: out, verbose: verbose}
}

// Banner prints the application banner
func (p *Printer) Banner() {
	if p.json {
		return
	}

	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary).
		Render(`
   ╔═══════════════════════════════════════╗
   ║      📁 file-butler v1.0              ║
   ║   Organize files by your own rules    ║
   ╚═══════════════════════════════════════╝
`)
	fmt.Fprintln(p.out, banner)
}

// DryRunBanner prints the dry run mode banner
func (p *Printer) DryRunBanner() {
	if p.json {
		return
	}

	banner := lipgloss.NewStyle().
		Bold(true).
		Background(ColorWarning).
		Foreground(ColorDark).
		Padding(0, 2).
		Render("🔍 DRY RUN MODE - No files will be moved")

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, banner)
	fmt.Fprintln(p.out)
}

// Section prints a section header
func (p *Printer) Section(title string) {
	if p.json {
		return
	}

	header := SectionStyle.Render(title)
	fmt.Fprintln(p.out, header)
}

// ScanStart prints scan start message
func (p *Printer) ScanStart(path string) {
	if p.json {
		return
	}

	fmt.Fprintln(p.out, InfoStyle.Render(fmt.Sprintf("%s Scanning: ", IconSearch))+
		FilePathStyle.Render(path))
}

// ScanComplete prints scan completion message
func (p *Printer) ScanComplete(count int) {
	if p.json {
		return
	}

	fmt.Fprintln(p.out, RenderSuccess(fmt.Sprintf("Found %s files to evaluate",
		RenderCount(count))))
}

// PrintPlan prints the proposed moves with their confidence badges.
func (p *Printer) PrintPlan(results []engine.MatchResult) {
	if p.json {
		return
	}

	var moves []engine.MatchResult
	for _, r := range results {
		if !r.Conflict && r.Destination != nil {
			moves = append(moves, r)
		}
	}

	if len(moves) == 0 {
		fmt.Fprintln(p.out, MutedStyle.Render("  (nothing to move)"))
		return
	}

	p.Section(fmt.Sprintf("%s Proposed Moves (%d)", IconFolder, len(moves)))

	for i, r := range moves {
		if i >= 20 && !p.verbose {
			remaining := len(moves) - 20
			fmt.Fprintln(p.out, MutedStyle.Render(fmt.Sprintf("  ... and %d more", remaining)))
			break
		}

		name := r.File.Name
		dest := filepath.Join(r.Destination.Folder, r.Subpath)
		if r.Destination.Trash {
			dest = IconTrash + " Trash"
		}

		// Truncate long names
		maxLen := 40
		if len(name) > maxLen {
			name = name[:maxLen-3] + "..."
		}

		fmt.Fprintf(p.out, "  %s %s %s\n",
			MutedStyle.Render(fmt.Sprintf("%3d.", i+1)),
			RenderConfidence(r.Confidence),
			RenderMove(name, dest))
	}
	fmt.Fprintln(p.out)
}

// PrintConflicts prints results that need manual resolution.
func (p *Printer) PrintConflicts(results []engine.MatchResult) {
	if p.json {
		return
	}

	var conflicts []engine.MatchResult
	for _, r := range results {
		if r.Conflict {
			conflicts = append(conflicts, r)
		}
	}
	if len(conflicts) == 0 {
		return
	}

	p.Section(fmt.Sprintf("%s Conflicts Needing Resolution (%d)", IconConflict, len(conflicts)))

	for _, r := range conflicts {
		fmt.Fprintf(p.out, "  %s %s\n",
			ConflictStyle.Render(IconConflict),
			FilePathStyle.Render(r.File.Name))
		for _, cand := range r.Candidates {
			fmt.Fprintf(p.out, "      %s rule %q %s %s\n",
				MutedStyle.Render(IconDot),
				cand.Name,
				ArrowStyle.Render(IconArrowRight),
				DestinationStyle.Render(cand.Destination.Folder))
		}
	}
	fmt.Fprintln(p.out)
}

// PrintUnmatched prints files no rule or heuristic could place.
func (p *Printer) PrintUnmatched(results []engine.MatchResult) {
	if p.json {
		return
	}

	var unmatched []engine.MatchResult
	for _, r := range results {
		if !r.Conflict && r.Destination == nil {
			unmatched = append(unmatched, r)
		}
	}
	if len(unmatched) == 0 {
		return
	}

	p.Section(fmt.Sprintf("%s Unmatched Files (%d)", IconInfo, len(unmatched)))
	for i, r := range unmatched {
		if i >= 10 && !p.verbose {
			fmt.Fprintln(p.out, MutedStyle.Render(fmt.Sprintf("  ... and %d more", len(unmatched)-10)))
			break
		}
		fmt.Fprintf(p.out, "  %s %s\n",
			MutedStyle.Render(IconDot),
			FilePathStyle.Render(r.File.Name))
	}
	fmt.Fprintln(p.out)
}

// PrintResults prints execution outcomes including per-file failures.
func (p *Printer) PrintResults(results []command.Result) {
	if p.json {
		return
	}

	moved, skipped, failed := 0, 0, 0
	for _, r := range results {
		switch r.Outcome {
		case command.OutcomeSuccess:
			moved++
		case command.OutcomeSkipped:
			skipped++
		default:
			failed++
		}
	}

	p.Section(fmt.Sprintf("%s Execution Summary", IconFolder))
	fmt.Fprintln(p.out, RenderSuccess(fmt.Sprintf("Moved: %s", RenderCount(moved))))
	if skipped > 0 {
		fmt.Fprintln(p.out, RenderInfo(fmt.Sprintf("Skipped: %s", RenderCount(skipped))))
	}
	if failed > 0 {
		fmt.Fprintln(p.out, RenderWarning(fmt.Sprintf("Failed or partial: %s", RenderCount(failed))))
	}

	for _, r := range results {
		if r.Outcome == command.OutcomeSkipped && r.Reason != "" {
			fmt.Fprintf(p.out, "  %s %s\n", MutedStyle.Render(IconDot), MutedStyle.Render(r.Reason))
		}
		for _, f := range r.Failures {
			fmt.Fprintf(p.out, "  %s %s\n", ErrorStyle.Render(IconError), f.Error())
		}
	}
	fmt.Fprintln(p.out)
}

// PrintHistory prints activity records, most recent first.
func (p *Printer) PrintHistory(items []command.ActivityItem) {
	if p.json {
		return
	}

	if len(items) == 0 {
		fmt.Fprintln(p.out, MutedStyle.Render("  (no activity yet)"))
		return
	}

	p.Section(fmt.Sprintf("%s Activity (%d)", IconUndo, len(items)))

	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		desc := it.Description
		if it.Undone {
			desc = UndoneStyle.Render(desc) + MutedStyle.Render(" (undone)")
		}
		marker := SuccessStyle.Render(IconSuccess)
		if it.Outcome != command.OutcomeSuccess {
			marker = WarningStyle.Render(IconWarning)
		}
		fmt.Fprintf(p.out, "  %s %s %s\n",
			marker,
			MutedStyle.Render(it.Time.Format("2006-01-02 15:04")),
			desc)
	}
	fmt.Fprintln(p.out)
}

// UndoResult prints the outcome of an undo or redo.
func (p *Printer) UndoResult(action string, res *command.Result) {
	if p.json {
		return
	}

	if res == nil {
		fmt.Fprintln(p.out, MutedStyle.Render(fmt.Sprintf("Nothing to %s", action)))
		return
	}
	switch res.Outcome {
	case command.OutcomeSuccess:
		fmt.Fprintln(p.out, RenderSuccess(fmt.Sprintf("%s complete", action)))
	default:
		fmt.Fprintln(p.out, RenderWarning(fmt.Sprintf("%s incomplete: %s", action, res.Reason)))
		for _, f := range res.Failures {
			fmt.Fprintf(p.out, "  %s %s\n", ErrorStyle.Render(IconError), f.Error())
		}
	}
}

// Success prints a success message
func (p *Printer) Success(msg string) {
	if p.json {
		return
	}
	fmt.Fprintln(p.out, RenderSuccess(msg))
}

// Warning prints a warning message
func (p *Printer) Warning(msg string) {
	if p.json {
		return
	}
	fmt.Fprintln(p.out, RenderWarning(msg))
}

// Error prints an error message
func (p *Printer) Error(msg string) {
	if p.json {
		return
	}
	fmt.Fprintln(p.out, RenderError(msg))
}

// Info prints an info message
func (p *Printer) Info(msg string) {
	if p.json {
		return
	}
	fmt.Fprintln(p.out, RenderInfo(msg))
}

// Divider prints a divider line
func (p *Printer) Divider() {
	if p.json {
		return
	}
	fmt.Fprintln(p.out, MutedStyle.Render(strings.Repeat("─", 50)))
}

// Done prints the completion message
func (p *Printer) Done() {
	if p.json {
		return
	}

	done := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Render(fmt.Sprintf("\n%s Operation completed successfully!", IconSuccess))

	fmt.Fprintln(p.out, done)
}
