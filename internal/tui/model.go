package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/file-butler/go/internal/command"
	"github.com/file-butler/go/internal/engine"
	"github.com/file-butler/go/internal/executor"
	"github.com/file-butler/go/internal/inventory"
	"github.com/file-butler/go/internal/rules"
	"github.com/file-butler/go/internal/types"
	"github.com/file-butler/go/internal/ui"
)

type Step int

const (
	StepScan Step = iota
	StepEvaluate
	StepReview
	StepExecute
	StepDone
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F92672"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#75715E"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E22E")).
			Bold(true)

	checkMark = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E22E")).
			Render("✓")
)

type errMsg error

type Model struct {
	config      *types.Config
	engine      *engine.Engine
	coordinator *executor.Coordinator
	ruleset     []rules.Rule

	state    Step
	spinner  spinner.Model
	viewport viewport.Model
	err      error
	logs     []string

	// Data
	files    []types.FileRecord
	plan     []engine.MatchResult
	approved []bool
	cursor   int
	results  []command.Result
}

func NewModel(config *types.Config, eng *engine.Engine, coord *executor.Coordinator, ruleset []rules.Rule) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	vp := viewport.New(80, 14)
	vp.Style = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		PaddingRight(2)

	return Model{
		config:      config,
		engine:      eng,
		coordinator: coord,
		ruleset:     ruleset,
		state:       StepScan,
		spinner:     s,
		viewport:    vp,
		logs:        []string{"Starting file-butler..."},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.scanCmd,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.state == StepReview {
			return m.updateReview(msg)
		}
	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	case errMsg:
		m.err = msg
		m.logs = append(m.logs, fmt.Sprintf("Error: %v", msg))
		return m, tea.Quit
	case scanMsg:
		m.files = msg.files
		m.logs = append(m.logs, fmt.Sprintf("Found %d files", len(m.files)))
		m.state = StepEvaluate
		cmds = append(cmds, m.evaluateCmd)
	case evaluateMsg:
		m.plan = msg.plan
		m.approved = make([]bool, len(m.plan))
		for i, r := range m.plan {
			m.approved[i] = r.Destination != nil && !r.Conflict
		}
		m.logs = append(m.logs, fmt.Sprintf("Evaluated %d files against %d rules", len(m.plan), len(m.ruleset)))
		m.state = StepReview
	case executeMsg:
		m.results = msg.results
		moved := 0
		for _, r := range msg.results {
			if r.Outcome == command.OutcomeSuccess {
				moved++
			}
		}
		m.logs = append(m.logs, fmt.Sprintf("Moved %d of %d files", moved, len(msg.results)))
		m.state = StepDone
		cmds = append(cmds, tea.Quit)
	}

	m.viewport.SetContent(strings.Join(m.logs, "\n"))
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.plan)-1 {
			m.cursor++
		}
	case " ":
		if m.cursor < len(m.approved) && m.plan[m.cursor].Destination != nil && !m.plan[m.cursor].Conflict {
			m.approved[m.cursor] = !m.approved[m.cursor]
		}
	case "a":
		all := true
		for i, r := range m.plan {
			if r.Destination != nil && !r.Conflict && !m.approved[i] {
				all = false
			}
		}
		for i, r := range m.plan {
			if r.Destination != nil && !r.Conflict {
				m.approved[i] = !all
			}
		}
	case "enter":
		if m.config.DryRun {
			m.state = StepDone
			return m, tea.Quit
		}
		m.state = StepExecute
		return m, m.executeCmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	s := "\n"
	s += titleStyle.Render("File Butler") + "\n\n"

	steps := []string{"Scanning", "Evaluating", "Reviewing", "Executing"}
	for i, step := range steps {
		if Step(i) < m.state {
			s += fmt.Sprintf(" %s %s\n", checkMark, step)
		} else if Step(i) == m.state {
			s += fmt.Sprintf(" %s %s\n", m.spinner.View(), step)
		} else {
			s += fmt.Sprintf("   %s\n", statusStyle.Render(step))
		}
	}

	s += "\n"
	if m.state == StepReview {
		s += m.reviewView()
		s += "\n" + statusStyle.Render("space toggle · a toggle all · enter confirm · q quit") + "\n"
		return s
	}

	s += m.viewport.View()
	s += "\nPress q to quit.\n"

	return s
}

func (m Model) reviewView() string {
	var b strings.Builder
	for i, r := range m.plan {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}

		box := "[ ]"
		if m.approved[i] {
			box = "[x]"
		}

		line := r.File.Name
		switch {
		case r.Conflict:
			box = "[!]"
			line = ui.ConflictStyle.Render(line + "  conflicting rules")
		case r.Destination == nil:
			box = "[-]"
			line = statusStyle.Render(line + "  no match")
		default:
			dest := r.Destination.Folder
			if r.Subpath != "" {
				dest = filepath.Join(dest, r.Subpath)
			}
			if r.Destination.Trash {
				dest = ui.IconTrash + " Trash"
			}
			line = ui.RenderMove(line, dest) + "  " + ui.RenderConfidence(r.Confidence)
		}

		b.WriteString(fmt.Sprintf("%s%s %s\n", prefix, box, line))
	}
	return b.String()
}

// Commands and Messages

type scanMsg struct {
	files []types.FileRecord
}

func (m Model) scanCmd() tea.Msg {
	p, err := inventory.New(m.config.Root, int(m.config.MaxDepth))
	if err != nil {
		return errMsg(err)
	}
	files, err := p.List()
	if err != nil {
		return errMsg(err)
	}
	return scanMsg{files: files}
}

type evaluateMsg struct {
	plan []engine.MatchResult
}

func (m Model) evaluateCmd() tea.Msg {
	return evaluateMsg{plan: m.engine.Evaluate(m.files, m.ruleset)}
}

type executeMsg struct {
	results []command.Result
}

func (m Model) executeCmd() tea.Msg {
	var picked []engine.MatchResult
	for i, r := range m.plan {
		if m.approved[i] {
			picked = append(picked, r)
		}
	}
	results := m.coordinator.ApproveAndExecute(context.Background(), picked)
	return executeMsg{results: results}
}
