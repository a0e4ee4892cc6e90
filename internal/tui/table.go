package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/dm/casamatriz/internal/client"
	"github.com/dm/casamatriz/internal/format"
)

// Row is one table row. ID identifies the record behind it for drill-down.
type Row struct {
	ID    client.ID
	Cells []string
}

// columnDef describes a single column in a table.
type columnDef struct {
	Title string
	Width int               // preferred width in cells
	Align lipgloss.Position // lipgloss.Left, lipgloss.Center, lipgloss.Right
	Flex  bool              // absorbs surplus width when the table is wider than preferred
}

// cellPadding is the horizontal padding rendered on each side of a cell.
const cellPadding = 1

// tableModel is a selectable, paginated table. The cursor is an absolute row
// index; the visible page follows it.
type tableModel struct {
	columns  []columnDef
	loaded   []Row // arrival order
	rows     []Row // display order
	cursor   int
	pageSize int // default 10
	sortCol  int // -1 = unsorted
	sortDesc bool
}

// newTableModel initialises a tableModel with sensible defaults.
func newTableModel(cols []columnDef) tableModel {
	return tableModel{
		columns:  cols,
		pageSize: 10,
		sortCol:  -1,
	}
}

// SetRows replaces every row and moves the cursor back to the first one.
// The current sort order is kept.
func (t *tableModel) SetRows(rows []Row) {
	t.loaded = rows
	t.rows = sortRows(rows, t.sortCol, t.sortDesc)
	t.cursor = 0
}

// cycleSort moves the sort to the next column, wrapping back to arrival
// order after the last one. A new sort column starts ascending.
func (t *tableModel) cycleSort() {
	t.sortCol++
	if t.sortCol >= len(t.columns) {
		t.sortCol = -1
	}
	t.sortDesc = false
	t.resort()
}

// reverseSort flips the direction of the active sort column.
func (t *tableModel) reverseSort() {
	if t.sortCol < 0 {
		return
	}
	t.sortDesc = !t.sortDesc
	t.resort()
}

// resort reorders the rows and keeps the cursor on the same record.
func (t *tableModel) resort() {
	sel, ok := t.Selected()
	t.rows = sortRows(t.loaded, t.sortCol, t.sortDesc)
	t.cursor = 0
	if !ok {
		return
	}
	for i, r := range t.rows {
		if r.ID == sel.ID {
			t.cursor = i
			return
		}
	}
}

// Len returns the number of rows.
func (t *tableModel) Len() int {
	return len(t.rows)
}

// SetPageSize sets the number of rows shown per page (minimum 1).
func (t *tableModel) SetPageSize(n int) {
	if n < 1 {
		n = 1
	}
	t.pageSize = n
}

// page returns the 0-indexed page holding the cursor.
func (t *tableModel) page() int {
	if t.pageSize <= 0 {
		return 0
	}
	return t.cursor / t.pageSize
}

// Selected returns the row under the cursor.
func (t *tableModel) Selected() (Row, bool) {
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		return Row{}, false
	}
	return t.rows[t.cursor], true
}

// SelectOnPage moves the cursor to the i-th visible row of the current page.
// Returns the absolute row index, or false when no row is displayed there.
func (t *tableModel) SelectOnPage(i int) (int, bool) {
	if i < 0 || i >= t.pageSize {
		return 0, false
	}
	idx := t.page()*t.pageSize + i
	if idx >= len(t.rows) {
		return 0, false
	}
	t.cursor = idx
	return idx, true
}

// Update handles keyboard input for cursor movement and pagination.
func (t tableModel) Update(msg tea.Msg) (tableModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || len(t.rows) == 0 {
		return t, nil
	}
	last := len(t.rows) - 1
	switch {
	case key.Matches(km, keys.Sort):
		t.cycleSort()
	case key.Matches(km, keys.Reverse):
		t.reverseSort()
	case key.Matches(km, keys.Up):
		if t.cursor > 0 {
			t.cursor--
		}
	case key.Matches(km, keys.Down):
		if t.cursor < last {
			t.cursor++
		}
	case key.Matches(km, keys.PrevPage):
		if t.page() > 0 {
			t.cursor = (t.page() - 1) * t.pageSize
		}
	case key.Matches(km, keys.NextPage):
		next := (t.page() + 1) * t.pageSize
		if next <= last {
			t.cursor = next
		}
	}
	return t, nil
}

// render draws the current page at the given total width. The output is a
// header line, a separator line, then one line per visible row.
func (t *tableModel) render(width int) string {
	widths := columnWidths(width-len(t.columns)*2*cellPadding, t.columns)

	headers := make([]string, len(t.columns))
	for i, c := range t.columns {
		title := c.Title
		if i == t.sortCol {
			arrow := "↑"
			if t.sortDesc {
				arrow = "↓"
			}
			title += arrow
		}
		headers[i] = format.Truncate(title, widths[i])
	}

	allIdx := make([]int, len(t.rows))
	for i := range t.rows {
		allIdx[i] = i
	}
	pageIdx := currentPageIndices(allIdx, t.page(), t.pageSize)
	selected := -1
	for i, idx := range pageIdx {
		if idx == t.cursor {
			selected = i
		}
	}

	cols := t.columns
	tbl := ltable.New().
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().
				Width(widths[col] + 2*cellPadding).
				Padding(0, cellPadding).
				Align(cols[col].Align)
			if row == ltable.HeaderRow {
				return base.Bold(true).Foreground(colorGray)
			}
			if row == selected {
				return base.Bold(true).Foreground(colorWhite).Background(colorIndigo)
			}
			if row%2 == 0 {
				base = base.Background(colorAlt)
			}
			return base.Foreground(colorWhite)
		}).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderColumn(false)

	for _, idx := range pageIdx {
		r := t.rows[idx]
		cells := make([]string, len(t.columns))
		for col := range t.columns {
			if col < len(r.Cells) {
				cells[col] = format.Truncate(r.Cells[col], widths[col])
			}
		}
		tbl = tbl.Row(cells...)
	}

	return tbl.String()
}

// columnWidths fits the preferred column widths into available cells.
// Surplus is shared by Flex columns (leftmost first for the remainder); a
// shortfall shrinks every column proportionally, never below 1. A
// non-positive available returns the preferred widths unchanged.
func columnWidths(available int, defs []columnDef) []int {
	out := make([]int, len(defs))
	total := 0
	for i, d := range defs {
		out[i] = d.Width
		total += d.Width
	}
	if available <= 0 || len(defs) == 0 || total == available {
		return out
	}

	if total < available {
		var flex []int
		for i, d := range defs {
			if d.Flex {
				flex = append(flex, i)
			}
		}
		if len(flex) == 0 {
			return out
		}
		surplus := available - total
		share := surplus / len(flex)
		rem := surplus % len(flex)
		for n, i := range flex {
			out[i] += share
			if n < rem {
				out[i]++
			}
		}
		return out
	}

	used := 0
	for i, d := range defs {
		w := d.Width * available / total
		if w < 1 {
			w = 1
		}
		out[i] = w
		used += w
	}
	// Hand cells lost to rounding back, leftmost first.
	for i := 0; used < available && i < len(out); i++ {
		out[i]++
		used++
	}
	return out
}

// pageCount returns the total number of pages for totalRows rows at pageSize rows per page.
// Always at least 1.
func pageCount(totalRows, pageSize int) int {
	if totalRows == 0 || pageSize <= 0 {
		return 1
	}
	c := totalRows / pageSize
	if totalRows%pageSize != 0 {
		c++
	}
	return c
}

// currentPageIndices returns the slice of row indices visible on the current page.
func currentPageIndices(allIndices []int, page, pageSize int) []int {
	if pageSize <= 0 || len(allIndices) == 0 {
		return allIndices
	}
	start := page * pageSize
	if start >= len(allIndices) {
		start = 0
	}
	end := start + pageSize
	if end > len(allIndices) {
		end = len(allIndices)
	}
	return allIndices[start:end]
}
