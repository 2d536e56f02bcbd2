package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/birchlabs/folio/pkg/version"
)

const ellipsis = "…"

var (
	statusBarNoteFg = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	statusBarBg     = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}

	logoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ECFD65")).
			Background(lipgloss.Color("#5A56E0")).
			Bold(true).
			Render

	statusBarNoteStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(statusBarBg).
				Render

	statusBarPosStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#949494", Dark: "#5A5A5A"}).
				Background(statusBarBg).
				Render

	statusBarErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F1F1F1")).
				Background(lipgloss.Color("#FF5555")).
				Render
)

// statusBar lays out logo, document note, and position segments across the
// full terminal width.
type statusBar struct {
	note    string
	pos     string
	width   int
	isError bool
}

func (b statusBar) render() string {
	logo := logoStyle(fmt.Sprintf(" folio %s ", version.GetVersion()))
	pos := b.renderPos(" " + b.pos + " ")

	note := strings.TrimSpace(strings.ReplaceAll(b.note, "\n", " "))

	availableWidth := max(0, b.width-
		ansi.PrintableRuneWidth(logo)-
		ansi.PrintableRuneWidth(pos))

	note = truncate.StringWithTail(" "+note+" ", uint(availableWidth), ellipsis) //nolint:gosec // Uses max.

	padding := max(0, b.width-
		ansi.PrintableRuneWidth(logo)-
		ansi.PrintableRuneWidth(note)-
		ansi.PrintableRuneWidth(pos))

	return logo +
		b.renderSegment(note) +
		b.renderSegment(strings.Repeat(" ", padding)) +
		pos
}

func (b statusBar) renderSegment(s string) string {
	if b.isError {
		return statusBarErrorStyle(s)
	}

	return statusBarNoteStyle(s)
}

func (b statusBar) renderPos(s string) string {
	if b.isError {
		return statusBarErrorStyle(s)
	}

	return statusBarPosStyle(s)
}
