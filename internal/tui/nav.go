package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// viewKind identifies the view shown in the content area.
type viewKind int

const (
	viewWelcome viewKind = iota
	viewPurchases
	viewHospital
	// viewItems is the drill-down from viewPurchases; it has no menu entry.
	viewItems
)

func (v viewKind) String() string {
	switch v {
	case viewPurchases:
		return "purchases"
	case viewHospital:
		return "hospital"
	case viewItems:
		return "items"
	default:
		return "welcome"
	}
}

// menuEntry is one top-level view in the side menu.
type menuEntry struct {
	kind  viewKind
	key   string
	label string
}

var menuEntries = []menuEntry{
	{kind: viewWelcome, key: "1", label: "Home"},
	{kind: viewPurchases, key: "2", label: "App 1: Purchases"},
	{kind: viewHospital, key: "3", label: "App 2: Hospital"},
}

// Screen geometry shared by rendering and mouse hit-testing. Rows are
// counted from the top of the terminal.
const (
	menuWidth = 24
	// bodyTop is the first row below the status bar.
	bodyTop = 1
	// menuFirstEntry is the offset of the first menu entry within the body
	// (title line, blank line, entries).
	menuFirstEntry = 2
)

// menuIndex returns the menu position of kind; the items drill-down
// highlights its parent.
func menuIndex(kind viewKind) int {
	if kind == viewItems {
		kind = viewPurchases
	}
	for i, e := range menuEntries {
		if e.kind == kind {
			return i
		}
	}
	return 0
}

// cycleView returns the top-level view step entries away from current.
func cycleView(current viewKind, step int) viewKind {
	n := len(menuEntries)
	i := (menuIndex(current) + step%n + n) % n
	return menuEntries[i].kind
}

// menuEntryAt maps a screen row to the menu entry drawn on it.
func menuEntryAt(y int) (viewKind, bool) {
	i := y - bodyTop - menuFirstEntry
	if i < 0 || i >= len(menuEntries) {
		return 0, false
	}
	return menuEntries[i].kind, true
}

// renderMenu renders the side menu at menuWidth x height.
func renderMenu(app *App, height int) string {
	lines := []string{
		StyleMenuTitle.Render("MENU"),
		"",
	}
	active := menuIndex(app.view)
	for i, e := range menuEntries {
		text := e.key + "  " + e.label
		style := StyleMenu
		if i == active {
			style = StyleMenuActive
		}
		lines = append(lines, style.Width(menuWidth-1).Render(text))
	}
	return lipgloss.NewStyle().
		Width(menuWidth).
		Height(height).
		MaxHeight(height).
		Render(strings.Join(lines, "\n"))
}
