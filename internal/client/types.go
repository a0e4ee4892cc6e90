package client

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ID is a record identifier as sent by the middleware. The downstream systems
// emit both numeric and string ids; either form is kept verbatim.
type ID string

// UnmarshalJSON accepts a JSON string, a JSON number, or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: expected string or number, got %s", truncate(b, 40))
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// SystemStatus maps a service key to its reported state string ("up"/"down").
// Values that are not JSON strings are dropped while decoding.
type SystemStatus map[string]string

// Service keys reported by /api/system-status.
const (
	ServiceMiddleware = "middleware"
	ServiceApp1       = "app1"
	ServiceHospital   = "hospital"
)

// ErrMalformedStatus is returned when the status payload is not a JSON object.
var ErrMalformedStatus = errors.New("client: malformed system status payload")

// ListSummary is a purchase list from /api/externo/app1/lists.
type ListSummary struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// ListItem is a single product of a purchase list from /api/externo/app1/items.
type ListItem struct {
	ID          ID     `json:"id"`
	Description string `json:"description"`
}

// Appointment is a hospital appointment from /api/externo/hospital/citas.
// The hospital system uses Spanish field names on the wire.
type Appointment struct {
	ID          ID     `json:"id"`
	Patient     string `json:"paciente"`
	Description string `json:"descripcion"`
	Date        string `json:"fecha"`
}

// MiddlewareHealth is the response of the middleware's own /health endpoint.
type MiddlewareHealth struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// APIError is the {"error": "..."} payload the middleware sends when a
// downstream system fails. StatusCode is zero when the payload arrived with a
// 2xx status.
type APIError struct {
	Message    string `json:"error"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}
