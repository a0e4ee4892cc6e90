package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// errorDialog is the modal shown when a data load fails. While it is open
// every key except dismiss and ctrl+c is swallowed.
type errorDialog struct {
	title string
	text  string
}

// renderDialog renders the open dialog centred in a width x height area.
func renderDialog(d *errorDialog, width, height int) string {
	boxWidth := width - 8
	if boxWidth > 70 {
		boxWidth = 70
	}
	if boxWidth < 20 {
		boxWidth = 20
	}
	// StyleDialog adds a 1-cell border and 2 cells of padding per side.
	textWidth := boxWidth - 6

	body := strings.Join([]string{
		StyleError.Render(d.title),
		"",
		lipgloss.NewStyle().Width(textWidth).Render(sanitize(d.text)),
		"",
		StyleHint.Render("[enter/esc: close]"),
	}, "\n")

	box := StyleDialog.Width(boxWidth - 2).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// sanitize strips control characters other than newline and tab so raw
// server messages cannot inject terminal escapes.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
