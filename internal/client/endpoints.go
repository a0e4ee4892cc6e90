package client

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-json"
)

const (
	endpointSystemStatus = "/api/system-status"
	endpointLists        = "/api/externo/app1/lists"
	endpointItems        = "/api/externo/app1/items"
	endpointAppointments = "/api/externo/hospital/citas"
	endpointHealth       = "/health"

	queryListID = "list_id"
)

// GetSystemStatus fetches the aggregate service status from /api/system-status.
func (c *DefaultClient) GetSystemStatus(ctx context.Context) (SystemStatus, error) {
	body, err := c.doGet(ctx, endpointSystemStatus, nil)
	if err != nil {
		return nil, fmt.Errorf("GetSystemStatus: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("GetSystemStatus decode: %w: %v", ErrMalformedStatus, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("GetSystemStatus decode: %w", ErrMalformedStatus)
	}

	status := make(SystemStatus, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			status[k] = s
		}
	}
	return status, nil
}

// GetLists fetches all purchase lists.
func (c *DefaultClient) GetLists(ctx context.Context) ([]ListSummary, error) {
	body, err := c.doGet(ctx, endpointLists, nil)
	if err != nil {
		return nil, fmt.Errorf("GetLists: %w", err)
	}
	return decodeRows[ListSummary](body, "GetLists")
}

// GetItems fetches the items of one purchase list. An empty listID asks the
// middleware for every item.
func (c *DefaultClient) GetItems(ctx context.Context, listID ID) ([]ListItem, error) {
	var query map[string]string
	if listID != "" {
		query = map[string]string{queryListID: listID.String()}
	}
	body, err := c.doGet(ctx, endpointItems, query)
	if err != nil {
		return nil, fmt.Errorf("GetItems: %w", err)
	}
	return decodeRows[ListItem](body, "GetItems")
}

// GetAppointments fetches hospital appointments. The middleware answers with
// an {"error": ...} object instead of an array when the hospital database is
// unreachable; that case is returned as an *APIError.
func (c *DefaultClient) GetAppointments(ctx context.Context) ([]Appointment, error) {
	body, err := c.doGet(ctx, endpointAppointments, nil)
	if err != nil {
		return nil, fmt.Errorf("GetAppointments: %w", err)
	}
	return decodeRows[Appointment](body, "GetAppointments")
}

// GetHealth fetches the middleware's own liveness report from /health.
func (c *DefaultClient) GetHealth(ctx context.Context) (*MiddlewareHealth, error) {
	body, err := c.doGet(ctx, endpointHealth, nil)
	if err != nil {
		return nil, fmt.Errorf("GetHealth: %w", err)
	}

	var result MiddlewareHealth
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("GetHealth decode: %w", err)
	}
	return &result, nil
}

// decodeRows decodes a JSON array of T. An object carrying an "error" key is
// returned as an *APIError; any other object is a decode error.
func decodeRows[T any](body []byte, op string) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var apiErr APIError
		if err := json.Unmarshal(trimmed, &apiErr); err == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("%s: %w", op, &apiErr)
		}
		return nil, fmt.Errorf("%s decode: expected array, got object", op)
	}

	var rows []T
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, fmt.Errorf("%s decode: %w", op, err)
	}
	return rows, nil
}
