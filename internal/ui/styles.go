package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color Palette - Monokai-inspired theme
var (
	ColorPrimary   = lipgloss.Color("#A6E22E") // Green
	ColorSecondary = lipgloss.Color("#66D9EF") // Cyan
	ColorAccent    = lipgloss.Color("#F92672") // Magenta/Pink
	ColorWarning   = lipgloss.Color("#FD971F") // Orange
	ColorError     = lipgloss.Color("#F92672") // Red/Pink
	ColorMuted     = lipgloss.Color("#75715E") // Gray
	ColorHighlight = lipgloss.Color("#E6DB74") // Yellow
	ColorWhite     = lipgloss.Color("#F8F8F2") // White
	ColorDark      = lipgloss.Color("#272822") // Dark background
)

// Base Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMuted)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHighlight).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorMuted).
			MarginTop(1).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	FilePathStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	DestinationStyle = lipgloss.NewStyle().
				Foreground(ColorSecondary).
				Bold(true)

	ArrowStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	ConflictStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	UndoneStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Strikethrough(true)

	CountStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)

	SummaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorSecondary).
			Padding(1, 2).
			MarginTop(1)

	// Confidence badges, one per tier
	BadgeHigh = lipgloss.NewStyle().
			Background(ColorPrimary).
			Foreground(ColorDark).
			Bold(true).
			Padding(0, 1)

	BadgeReview = lipgloss.NewStyle().
			Background(ColorWarning).
			Foreground(ColorDark).
			Bold(true).
			Padding(0, 1)

	BadgeUnsure = lipgloss.NewStyle().
			Background(ColorMuted).
			Foreground(ColorWhite).
			Bold(true).
			Padding(0, 1)
)

// Icons
const (
	IconSuccess    = "✓"
	IconError      = "✗"
	IconWarning    = "⚠"
	IconInfo       = "ℹ"
	IconFolder     = "📁"
	IconTrash      = "🗑️"
	IconSearch     = "🔍"
	IconConflict   = "⚡"
	IconArrowRight = "→"
	IconDot        = "•"
	IconUndo       = "↩"
)

// Confidence tier thresholds. These live in the presentation layer on
// purpose: the scorer only produces the number.
const (
	HighConfidence   = 0.9
	ReviewConfidence = 0.6
)

// Helper functions
func RenderSuccess(msg string) string {
	return SuccessStyle.Render(IconSuccess+" ") + msg
}

func RenderError(msg string) string {
	return ErrorStyle.Render(IconError+" ") + msg
}

func RenderWarning(msg string) string {
	return WarningStyle.Render(IconWarning+" ") + msg
}

func RenderInfo(msg string) string {
	return InfoStyle.Render(IconInfo+" ") + msg
}

// RenderConfidence renders a score as a tiered badge.
func RenderConfidence(score float64) string {
	label := fmt.Sprintf("%.2f", score)
	switch {
	case score >= HighConfidence:
		return BadgeHigh.Render(label)
	case score >= ReviewConfidence:
		return BadgeReview.Render(label)
	default:
		return BadgeUnsure.Render(label)
	}
}

func RenderMove(name, destination string) string {
	return FilePathStyle.Render(name) + " " +
		ArrowStyle.Render(IconArrowRight) + " " +
		DestinationStyle.Render(destination)
}

func RenderCount(count int) string {
	return CountStyle.Render(fmt.Sprintf("%d", count))
}
