package tui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dm/casamatriz/internal/client"
)

// fakeClient is an in-memory client.MiddlewareClient. Every call is recorded.
type fakeClient struct {
	mu sync.Mutex

	status    client.SystemStatus
	statusErr error

	lists    []client.ListSummary
	listsErr error

	items    map[client.ID][]client.ListItem
	itemsErr error

	appointments    []client.Appointment
	appointmentsErr error

	listCalls int
	itemCalls []client.ID
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		status: client.SystemStatus{"middleware": "up", "app1": "up", "hospital": "down"},
		lists:  []client.ListSummary{{ID: "1", Name: "A"}},
		items: map[client.ID][]client.ListItem{
			"1": {{ID: "10", Description: "Milk"}, {ID: "11", Description: "Bread"}},
		},
		appointments: []client.Appointment{
			{ID: "7", Patient: "Ana Ruiz", Description: "Control", Date: "2024-03-01 09:30:00"},
		},
	}
}

func (f *fakeClient) GetSystemStatus(ctx context.Context) (client.SystemStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, f.statusErr
}

func (f *fakeClient) GetLists(ctx context.Context) ([]client.ListSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.lists, f.listsErr
}

func (f *fakeClient) GetItems(ctx context.Context, listID client.ID) ([]client.ListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.itemCalls = append(f.itemCalls, listID)
	return f.items[listID], f.itemsErr
}

func (f *fakeClient) GetAppointments(ctx context.Context) ([]client.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appointments, f.appointmentsErr
}

func (f *fakeClient) GetHealth(ctx context.Context) (*client.MiddlewareHealth, error) {
	return &client.MiddlewareHealth{Status: "Middleware OK", Database: "MySQL Cluster"}, nil
}

func (f *fakeClient) BaseURL() string { return "http://fake:4000" }

// drain runs cmd, expanding batches, and returns every message produced
// within a short deadline. Commands that block longer (scheduled ticks) are
// abandoned.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	out := make(chan tea.Msg, 16)
	var wg sync.WaitGroup
	var run func(c tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, sub := range batch {
					run(sub)
				}
				return
			}
			if msg != nil {
				out <- msg
			}
		}()
	}
	run(cmd)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	var msgs []tea.Msg
	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-out:
			msgs = append(msgs, msg)
		case <-done:
			for {
				select {
				case msg := <-out:
					msgs = append(msgs, msg)
				default:
					return msgs
				}
			}
		case <-deadline:
			return msgs
		}
	}
}

// settle feeds every load result produced by cmd back into app, the way the
// Bubble Tea runtime would.
func settle(app *App, cmd tea.Cmd) *App {
	for _, msg := range drain(cmd) {
		switch msg.(type) {
		case RowsMsg, LoadErrorMsg, StatusMsg, StatusErrorMsg:
			m, _ := app.Update(msg)
			app = m.(*App)
		}
	}
	return app
}
