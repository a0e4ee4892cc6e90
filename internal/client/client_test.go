package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTestClient creates a DefaultClient pointed at the given test server URL.
func newTestClient(t *testing.T, baseURL string) *DefaultClient {
	t.Helper()
	c, err := NewDefaultClient(ClientConfig{
		BaseURL:        baseURL,
		RequestTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewDefaultClient: %v", err)
	}
	return c
}

// jsonServer serves body with the given status for requests to path and
// fails the test on any other path.
func jsonServer(t *testing.T, path string, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			t.Errorf("unexpected path %q, want %q", r.URL.Path, path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %q", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewDefaultClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"empty", "", true},
		{"no scheme", "localhost:4000", true},
		{"ftp scheme", "ftp://localhost:4000", true},
		{"http", "http://localhost:4000", false},
		{"https with path", "https://mw.example.com/base", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDefaultClient(ClientConfig{BaseURL: tc.baseURL})
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewDefaultClient_EmptyBaseURLSentinel(t *testing.T) {
	_, err := NewDefaultClient(ClientConfig{})
	if !errors.Is(err, ErrBaseURLRequired) {
		t.Fatalf("err = %v, want ErrBaseURLRequired", err)
	}
}

func TestGetSystemStatus(t *testing.T) {
	srv := jsonServer(t, "/api/system-status", http.StatusOK,
		`{"middleware":"up","app1":"down","hospital":"up"}`)

	c := newTestClient(t, srv.URL)
	status, err := c.GetSystemStatus(context.Background())
	if err != nil {
		t.Fatalf("GetSystemStatus: %v", err)
	}
	want := map[string]string{"middleware": "up", "app1": "down", "hospital": "up"}
	for k, v := range want {
		if status[k] != v {
			t.Errorf("status[%q] = %q, want %q", k, status[k], v)
		}
	}
}

func TestGetSystemStatus_DropsNonStringValues(t *testing.T) {
	srv := jsonServer(t, "/api/system-status", http.StatusOK,
		`{"middleware":"up","app1":true,"hospital":null}`)

	c := newTestClient(t, srv.URL)
	status, err := c.GetSystemStatus(context.Background())
	if err != nil {
		t.Fatalf("GetSystemStatus: %v", err)
	}
	if _, ok := status["app1"]; ok {
		t.Errorf("app1 should be dropped, got %q", status["app1"])
	}
	if _, ok := status["hospital"]; ok {
		t.Errorf("hospital should be dropped, got %q", status["hospital"])
	}
	if status["middleware"] != "up" {
		t.Errorf("middleware = %q, want up", status["middleware"])
	}
}

func TestGetSystemStatus_Malformed(t *testing.T) {
	for name, body := range map[string]string{
		"array":    `["up"]`,
		"null":     `null`,
		"not json": `<html>oops</html>`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := jsonServer(t, "/api/system-status", http.StatusOK, body)
			c := newTestClient(t, srv.URL)
			_, err := c.GetSystemStatus(context.Background())
			if !errors.Is(err, ErrMalformedStatus) {
				t.Fatalf("err = %v, want ErrMalformedStatus", err)
			}
		})
	}
}

func TestGetSystemStatus_Non2xxIsError(t *testing.T) {
	srv := jsonServer(t, "/api/system-status", http.StatusServiceUnavailable,
		`{"middleware":"up","app1":"up","hospital":"up"}`)

	c := newTestClient(t, srv.URL)
	status, err := c.GetSystemStatus(context.Background())
	if err == nil {
		t.Fatalf("expected error, got status %v", status)
	}
	if status != nil {
		t.Errorf("status = %v, want nil", status)
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error %q should name the status code", err)
	}
}

func TestGetLists(t *testing.T) {
	srv := jsonServer(t, "/api/externo/app1/lists", http.StatusOK,
		`[{"id":1,"name":"A"},{"id":"2","name":"Weekly groceries"}]`)

	c := newTestClient(t, srv.URL)
	lists, err := c.GetLists(context.Background())
	if err != nil {
		t.Fatalf("GetLists: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("len(lists) = %d, want 2", len(lists))
	}
	if lists[0].ID != "1" || lists[0].Name != "A" {
		t.Errorf("lists[0] = %+v, want {1 A}", lists[0])
	}
	if lists[1].ID != "2" || lists[1].Name != "Weekly groceries" {
		t.Errorf("lists[1] = %+v", lists[1])
	}
}

func TestGetLists_EmptyArray(t *testing.T) {
	srv := jsonServer(t, "/api/externo/app1/lists", http.StatusOK, `[]`)

	c := newTestClient(t, srv.URL)
	lists, err := c.GetLists(context.Background())
	if err != nil {
		t.Fatalf("GetLists: %v", err)
	}
	if len(lists) != 0 {
		t.Errorf("len(lists) = %d, want 0", len(lists))
	}
}

func TestGetLists_ServerErrorPayload(t *testing.T) {
	srv := jsonServer(t, "/api/externo/app1/lists", http.StatusInternalServerError,
		`{"error":"Error en App1 Lists"}`)

	c := newTestClient(t, srv.URL)
	_, err := c.GetLists(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
	if apiErr.Message != "Error en App1 Lists" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestGetLists_PlainServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.GetLists(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error %q should mention the status code", err)
	}
}

func TestGetItems_SendsListID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/externo/app1/items" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("list_id"); got != "1" {
			t.Errorf("list_id = %q, want 1", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":10,"description":"Milk"},{"id":11,"description":"Bread"}]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	items, err := c.GetItems(context.Background(), "1")
	if err != nil {
		t.Fatalf("GetItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].ID != "10" || items[0].Description != "Milk" {
		t.Errorf("items[0] = %+v", items[0])
	}
}

func TestGetItems_EmptyListIDOmitsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("RawQuery = %q, want empty", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.GetItems(context.Background(), ""); err != nil {
		t.Fatalf("GetItems: %v", err)
	}
}

func TestGetAppointments(t *testing.T) {
	srv := jsonServer(t, "/api/externo/hospital/citas", http.StatusOK,
		`[{"id":7,"paciente":"Ana Rojas","descripcion":"Control","fecha":"2024-03-01T10:30:00.000Z"}]`)

	c := newTestClient(t, srv.URL)
	appts, err := c.GetAppointments(context.Background())
	if err != nil {
		t.Fatalf("GetAppointments: %v", err)
	}
	if len(appts) != 1 {
		t.Fatalf("len(appts) = %d, want 1", len(appts))
	}
	a := appts[0]
	if a.ID != "7" || a.Patient != "Ana Rojas" || a.Description != "Control" || a.Date != "2024-03-01T10:30:00.000Z" {
		t.Errorf("appointment = %+v", a)
	}
}

func TestGetAppointments_ErrorPayloadWith200(t *testing.T) {
	srv := jsonServer(t, "/api/externo/hospital/citas", http.StatusOK,
		`{"error":"Error conectando al Hospital (Postgres)"}`)

	c := newTestClient(t, srv.URL)
	_, err := c.GetAppointments(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for an in-band error", apiErr.StatusCode)
	}
	if apiErr.Error() != "Error conectando al Hospital (Postgres)" {
		t.Errorf("Error() = %q", apiErr.Error())
	}
}

func TestGetAppointments_ErrorPayloadWith500(t *testing.T) {
	srv := jsonServer(t, "/api/externo/hospital/citas", http.StatusInternalServerError,
		`{"error":"Error conectando al Hospital (Postgres)"}`)

	c := newTestClient(t, srv.URL)
	_, err := c.GetAppointments(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
	if apiErr.Message != "Error conectando al Hospital (Postgres)" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestDoGet_ResponseTooLarge(t *testing.T) {
	prev := maxResponseBytes
	maxResponseBytes = 64
	t.Cleanup(func() { maxResponseBytes = prev })

	srv := jsonServer(t, "/api/externo/app1/lists", http.StatusOK,
		`[`+strings.Repeat(`{"id":1,"name":"A"},`, 20)+`{"id":2,"name":"B"}]`)

	c := newTestClient(t, srv.URL)
	_, err := c.GetLists(context.Background())
	if !errors.Is(err, ErrResponseTooLarge) {
		t.Fatalf("err = %v, want ErrResponseTooLarge", err)
	}
}

func TestDoGet_ResponseAtLimit(t *testing.T) {
	body := `[{"id":1,"name":"A"}]`
	prev := maxResponseBytes
	maxResponseBytes = int64(len(body))
	t.Cleanup(func() { maxResponseBytes = prev })

	srv := jsonServer(t, "/api/externo/app1/lists", http.StatusOK, body)

	c := newTestClient(t, srv.URL)
	lists, err := c.GetLists(context.Background())
	if err != nil {
		t.Fatalf("GetLists: %v", err)
	}
	if len(lists) != 1 {
		t.Errorf("len(lists) = %d, want 1", len(lists))
	}
}

func TestDecodeRows_ObjectWithoutError(t *testing.T) {
	_, err := decodeRows[ListSummary]([]byte(`{"rows":[]}`), "op")
	if err == nil {
		t.Fatal("expected decode error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("object without error key must not decode as *APIError")
	}
}

func TestGetHealth(t *testing.T) {
	srv := jsonServer(t, "/health", http.StatusOK,
		`{"status":"Middleware OK","database":"MySQL Cluster"}`)

	c := newTestClient(t, srv.URL)
	h, err := c.GetHealth(context.Background())
	if err != nil {
		t.Fatalf("GetHealth: %v", err)
	}
	if h.Status != "Middleware OK" || h.Database != "MySQL Cluster" {
		t.Errorf("health = %+v", h)
	}
}

func TestDoGet_ContextCancelled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c := newTestClient(t, srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.GetSystemStatus(ctx)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestSetsAcceptHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		if got := r.Header.Get("User-Agent"); got != defaultUserAgent {
			t.Errorf("User-Agent = %q, want %q", got, defaultUserAgent)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.GetLists(context.Background()); err != nil {
		t.Fatalf("GetLists: %v", err)
	}
}

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    ID
		wantErr bool
	}{
		{`1`, "1", false},
		{`"abc"`, "abc", false},
		{`12.5`, "12.5", false},
		{`null`, "", false},
		{`true`, "", true},
	}
	for _, tc := range tests {
		var id ID
		err := id.UnmarshalJSON([]byte(tc.in))
		if (err != nil) != tc.wantErr {
			t.Errorf("UnmarshalJSON(%s) err = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && id != tc.want {
			t.Errorf("UnmarshalJSON(%s) = %q, want %q", tc.in, id, tc.want)
		}
	}
}
