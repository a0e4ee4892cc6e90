package tui

import (
	"strings"

	"github.com/dm/casamatriz/internal/model"
)

// RenderStatusTrail draws one cell per recorded poll, oldest on the left:
// a green block for up, a red block for down and a grey dot when the service
// was not reported. The result is exactly width cells wide.
//
// Rules:
//   - Empty states → width spaces
//   - More states than width → last width states
//   - Fewer states than width → left-pad with spaces
func RenderStatusTrail(states []model.ServiceState, width int) string {
	if width <= 0 {
		return ""
	}
	if len(states) > width {
		states = states[len(states)-width:]
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", width-len(states)))
	for _, s := range states {
		switch s {
		case model.StateUp:
			sb.WriteString(StyleIndicatorUp.Render("█"))
		case model.StateDown:
			sb.WriteString(StyleIndicatorDown.Render("█"))
		default:
			sb.WriteString(StyleIndicatorUnknown.Render("·"))
		}
	}
	return sb.String()
}
