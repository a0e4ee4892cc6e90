package engine

import (
	"context"
	"errors"

	"github.com/dm/casamatriz/internal/client"
)

// MockMiddlewareClient implements client.MiddlewareClient for testing.
type MockMiddlewareClient struct {
	StatusFn       func(ctx context.Context) (client.SystemStatus, error)
	HealthFn       func(ctx context.Context) (*client.MiddlewareHealth, error)
	ListsFn        func(ctx context.Context) ([]client.ListSummary, error)
	ItemsFn        func(ctx context.Context, listID client.ID) ([]client.ListItem, error)
	AppointmentsFn func(ctx context.Context) ([]client.Appointment, error)
}

func (m *MockMiddlewareClient) GetSystemStatus(ctx context.Context) (client.SystemStatus, error) {
	if m.StatusFn != nil {
		return m.StatusFn(ctx)
	}
	return client.SystemStatus{"middleware": "up", "app1": "up", "hospital": "up"}, nil
}

func (m *MockMiddlewareClient) GetHealth(ctx context.Context) (*client.MiddlewareHealth, error) {
	if m.HealthFn != nil {
		return m.HealthFn(ctx)
	}
	return &client.MiddlewareHealth{Status: "Middleware OK", Database: "MySQL Cluster"}, nil
}

func (m *MockMiddlewareClient) GetLists(ctx context.Context) ([]client.ListSummary, error) {
	if m.ListsFn != nil {
		return m.ListsFn(ctx)
	}
	return []client.ListSummary{{ID: "1", Name: "A"}}, nil
}

func (m *MockMiddlewareClient) GetItems(ctx context.Context, listID client.ID) ([]client.ListItem, error) {
	if m.ItemsFn != nil {
		return m.ItemsFn(ctx, listID)
	}
	return []client.ListItem{{ID: "10", Description: "Milk"}}, nil
}

func (m *MockMiddlewareClient) GetAppointments(ctx context.Context) ([]client.Appointment, error) {
	if m.AppointmentsFn != nil {
		return m.AppointmentsFn(ctx)
	}
	return []client.Appointment{{ID: "7", Patient: "Ana", Description: "Control", Date: "2024-03-01"}}, nil
}

func (m *MockMiddlewareClient) BaseURL() string {
	return "http://mock:4000"
}

var errMockFailure = errors.New("mock failure")
