package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/casamatriz/internal/model"
)

// indicatorDot is the glyph drawn for every service indicator.
const indicatorDot = "●"

// renderStatusBar renders the top bar with one indicator per monitored service.
//
// Layout:
//
//	left:  "● Middleware  ● App 1 (Purchases)  ● App 2 (Hospital)"
//	right: "Last: HH:MM:SS  Poll: Ns" ("Waiting for status..." before the first poll)
func renderStatusBar(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	parts := make([]string, 0, len(model.Services))
	for _, svc := range model.Services {
		parts = append(parts, renderIndicator(svc, app.status.State(svc.Key)))
	}
	left := strings.Join(parts, "  ")

	var right string
	if last := app.status.UpdatedAt(); last.IsZero() {
		right = StyleDim.Render("Waiting for status...")
	} else {
		right = StyleDim.Render(fmt.Sprintf("Last: %s  Poll: %s", last.Format("15:04:05"), formatDuration(app.opts.PollInterval)))
	}

	// StyleHeader has Padding(0, 1) so inner content width = total width - 2.
	innerWidth := width - 2
	spacing := innerWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}
	row := left + strings.Repeat(" ", spacing) + right

	return StyleHeader.Width(width).MaxWidth(width).MaxHeight(1).Render(row)
}

// renderIndicator renders a coloured dot followed by the service label.
func renderIndicator(svc model.Service, state model.ServiceState) string {
	return IndicatorStyle(state).Render(indicatorDot) + " " + svc.Label
}

// formatDuration formats a poll interval as a compact string, e.g. "5s" or "2m".
func formatDuration(d time.Duration) string {
	if d >= time.Minute {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
