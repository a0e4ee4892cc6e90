package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dm/casamatriz/internal/client"
	"github.com/dm/casamatriz/internal/format"
)

// loadCmd fetches the rows of one table view in a goroutine and returns a
// RowsMsg or LoadErrorMsg tagged with seq. A non-positive timeout means the
// request is not bounded.
func loadCmd(c client.MiddlewareClient, kind viewKind, listID client.ID, seq uint64, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		rows, err := fetchRows(ctx, c, kind, listID)
		if err != nil {
			title, text := loadFailure(kind, err)
			return LoadErrorMsg{Seq: seq, Title: title, Text: text, Err: err}
		}
		return RowsMsg{Seq: seq, Rows: rows}
	}
}

func fetchRows(ctx context.Context, c client.MiddlewareClient, kind viewKind, listID client.ID) ([]Row, error) {
	switch kind {
	case viewPurchases:
		lists, err := c.GetLists(ctx)
		if err != nil {
			return nil, err
		}
		return listRows(lists), nil
	case viewItems:
		items, err := c.GetItems(ctx, listID)
		if err != nil {
			return nil, err
		}
		return itemRows(items), nil
	case viewHospital:
		appts, err := c.GetAppointments(ctx)
		if err != nil {
			return nil, err
		}
		return appointmentRows(appts), nil
	default:
		return nil, fmt.Errorf("view %s has no data", kind)
	}
}

// loadFailure builds the dialog title and text for a failed load. An
// {"error": ...} payload from the hospital is shown verbatim whatever the
// HTTP status it came with.
func loadFailure(kind viewKind, err error) (title, text string) {
	switch kind {
	case viewPurchases:
		return "Error", "Could not load the lists: " + err.Error()
	case viewItems:
		return "Error", "Error loading items: " + err.Error()
	case viewHospital:
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			return "Hospital Error", apiErr.Message
		}
		return "Error", "Could not connect to the hospital.\n\nError: " + err.Error()
	default:
		return "Error", err.Error()
	}
}

func listRows(lists []client.ListSummary) []Row {
	rows := make([]Row, 0, len(lists))
	for _, l := range lists {
		rows = append(rows, Row{ID: l.ID, Cells: []string{l.ID.String(), l.Name}})
	}
	return rows
}

func itemRows(items []client.ListItem) []Row {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, Row{ID: it.ID, Cells: []string{it.ID.String(), it.Description}})
	}
	return rows
}

func appointmentRows(appts []client.Appointment) []Row {
	rows := make([]Row, 0, len(appts))
	for _, a := range appts {
		rows = append(rows, Row{
			ID:    a.ID,
			Cells: []string{a.ID.String(), a.Patient, a.Description, format.FormatDate(a.Date)},
		})
	}
	return rows
}
