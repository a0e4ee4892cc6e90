package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/casamatriz/internal/model"
)

// Palette.
var (
	colorGreen  = lipgloss.Color("#10b981")
	colorYellow = lipgloss.Color("#f59e0b")
	colorRed    = lipgloss.Color("#ef4444")
	colorGray   = lipgloss.Color("#6b7280")
	colorCyan   = lipgloss.Color("#06b6d4")
	colorIndigo = lipgloss.Color("#6366f1")
	colorWhite  = lipgloss.Color("#f8fafc")
	colorDark   = lipgloss.Color("#1e293b")
	colorAlt    = lipgloss.Color("#0f172a")
)

// Indicator styles, one per service state.
var (
	StyleIndicatorUp      = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	StyleIndicatorDown    = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	StyleIndicatorUnknown = lipgloss.NewStyle().Foreground(colorGray)
)

// StyleHeader is the full-width dark status bar.
var StyleHeader = lipgloss.NewStyle().
	Background(colorDark).
	Foreground(colorWhite).
	Padding(0, 1)

// Menu styles.
var (
	StyleMenu = lipgloss.NewStyle().
			Foreground(colorWhite).
			PaddingLeft(1)

	StyleMenuTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			PaddingLeft(1)

	StyleMenuActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			Background(colorIndigo).
			PaddingLeft(1)
)

// StyleViewTitle is the bold heading at the top of the content area.
var StyleViewTitle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)

// StyleDialog is the bordered box for the modal error dialog.
var StyleDialog = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorRed).
	Padding(1, 2)

// Utility styles.
var (
	StyleError   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	StyleDim     = lipgloss.NewStyle().Foreground(colorGray)
	StyleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	StyleHint    = lipgloss.NewStyle().Foreground(colorYellow)
)

// IndicatorStyle returns the style for a service indicator in the given state.
func IndicatorStyle(s model.ServiceState) lipgloss.Style {
	switch s {
	case model.StateUp:
		return StyleIndicatorUp
	case model.StateDown:
		return StyleIndicatorDown
	default:
		return StyleIndicatorUnknown
	}
}
