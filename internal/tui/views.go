package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/casamatriz/internal/client"
	"github.com/dm/casamatriz/internal/format"
	"github.com/dm/casamatriz/internal/model"
)

// tableFirstRow is the offset of the first data row within the content area:
// title line, status line, blank line, table header, header separator.
const tableFirstRow = 5

// contentView is a table view in the content area. It is rebuilt from scratch
// on every navigation; nothing carries over from the previous view.
type contentView struct {
	kind     viewKind
	listID   client.ID // items view only
	listName string    // items view only
	state    model.LoadState
	seq      uint64 // token of the load this view is waiting on
	table    tableModel
}

func newContentView(kind viewKind) *contentView {
	var cols []columnDef
	switch kind {
	case viewPurchases:
		cols = []columnDef{
			{Title: "ID", Width: 6, Align: lipgloss.Center},
			{Title: "List Name", Width: 40, Align: lipgloss.Left, Flex: true},
		}
	case viewItems:
		cols = []columnDef{
			{Title: "ID", Width: 6, Align: lipgloss.Center},
			{Title: "Products", Width: 40, Align: lipgloss.Left, Flex: true},
		}
	case viewHospital:
		cols = []columnDef{
			{Title: "ID", Width: 5, Align: lipgloss.Center},
			{Title: "Patient", Width: 20, Align: lipgloss.Left, Flex: true},
			{Title: "Reason / Description", Width: 30, Align: lipgloss.Left, Flex: true},
			{Title: "Admission Date", Width: 16, Align: lipgloss.Center},
		}
	}
	return &contentView{
		kind:  kind,
		state: model.LoadEmpty,
		table: newTableModel(cols),
	}
}

func (cv *contentView) title() string {
	switch cv.kind {
	case viewPurchases:
		return "Purchase Lists (App 1)"
	case viewItems:
		return "Contents: " + cv.listName
	case viewHospital:
		return "Hospital Management (App 2)"
	default:
		return ""
	}
}

func (cv *contentView) emptyText() string {
	switch cv.kind {
	case viewPurchases:
		return "(no lists)"
	case viewItems:
		return "(no items)"
	default:
		return "(no appointments)"
	}
}

// renderContent renders the right-hand content area at width x height.
func renderContent(app *App, width, height int) string {
	box := lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height)

	cv := app.content
	if cv == nil {
		return box.Render(renderWelcome(app, width, height))
	}

	lines := []string{
		StyleViewTitle.Render(format.Truncate(cv.title(), width)),
		renderLoadLine(app, cv),
		"",
	}

	switch {
	case cv.state == model.LoadPopulated && cv.table.Len() == 0:
		lines = append(lines, StyleDim.Render("  "+cv.emptyText()))
	case cv.table.Len() > 0:
		lines = append(lines, cv.table.render(width))
	}

	return box.Render(strings.Join(lines, "\n"))
}

// renderLoadLine renders the line under the view title describing the load state.
func renderLoadLine(app *App, cv *contentView) string {
	var hints []string
	switch cv.kind {
	case viewPurchases:
		hints = append(hints, "[enter: open list]")
	case viewItems:
		hints = append(hints, "[esc: back]")
	}

	switch cv.state {
	case model.LoadLoading:
		return app.spinner.View() + " Loading..."
	case model.LoadError:
		return StyleError.Render("Load failed") + StyleDim.Render("  [r: retry]")
	case model.LoadPopulated:
		pc := pageCount(cv.table.Len(), cv.table.pageSize)
		info := fmt.Sprintf("%s rows  Page %d/%d  [r: reload]",
			format.FormatNumber(int64(cv.table.Len())), cv.table.page()+1, pc)
		hints = append([]string{info}, hints...)
		return StyleDim.Render(strings.Join(hints, "  "))
	default:
		return StyleDim.Render(strings.Join(hints, "  "))
	}
}

// renderWelcome renders the landing view: a centred greeting followed by the
// per-service status history once at least one poll has been applied.
func renderWelcome(app *App, width, height int) string {
	lines := []string{
		StyleViewTitle.Render("Welcome to Casa Matriz"),
		StyleDim.Render("Distributed Management System"),
		StyleDim.Render(strings.Repeat("─", 26)),
		"",
		"Select an application from the menu to begin.",
	}

	hist := app.status.History()
	if hist.Len() > 0 {
		lines = append(lines, "", StyleDim.Render("Service history"))
		for _, svc := range model.Services {
			label := lipgloss.NewStyle().Width(20).Render(svc.Label)
			trail := RenderStatusTrail(hist.Values(svc.Key), trailWidth)
			uptime := format.FormatPercent(hist.Uptime(svc.Key))
			lines = append(lines, label+" "+trail+" "+uptime)
		}
	}

	block := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}

// trailWidth is the number of polls shown per service on the welcome view.
const trailWidth = 30
