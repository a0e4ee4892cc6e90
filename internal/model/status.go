package model

import (
	"time"

	"github.com/dm/casamatriz/internal/client"
)

// ServiceState is the last known state of one monitored service.
type ServiceState int

const (
	// StateUnknown means no status poll has succeeded yet.
	StateUnknown ServiceState = iota
	StateUp
	StateDown
)

func (s ServiceState) String() string {
	switch s {
	case StateUp:
		return "up"
	case StateDown:
		return "down"
	default:
		return "unknown"
	}
}

// Service is a monitored service: the key used by /api/system-status and the
// label shown next to its indicator.
type Service struct {
	Key   string
	Label string
}

// Services lists the indicators in display order.
var Services = []Service{
	{Key: client.ServiceMiddleware, Label: "Middleware"},
	{Key: client.ServiceApp1, Label: "App 1 (Purchases)"},
	{Key: client.ServiceHospital, Label: "App 2 (Hospital)"},
}

// ParseServiceState maps a reported state string to a ServiceState. Anything
// other than "up" is down.
func ParseServiceState(s string) ServiceState {
	if s == "up" {
		return StateUp
	}
	return StateDown
}

// StatusBoard holds the indicator states. It is replaced wholesale by every
// successful poll and left untouched by failed ones.
type StatusBoard struct {
	states    map[string]ServiceState
	updatedAt time.Time
	history   *StatusHistory
}

// NewStatusBoard returns a board with every service in StateUnknown.
func NewStatusBoard() *StatusBoard {
	return &StatusBoard{
		states:  make(map[string]ServiceState, len(Services)),
		history: NewStatusHistory(0),
	}
}

// Apply records a successful poll. Services absent from status are marked down.
func (b *StatusBoard) Apply(status client.SystemStatus, at time.Time) {
	next := make(map[string]ServiceState, len(Services))
	for _, svc := range Services {
		next[svc.Key] = ParseServiceState(status[svc.Key])
	}
	b.states = next
	b.updatedAt = at
	b.history.Push(StatusPoint{Timestamp: at, States: next})
}

// State returns the current state of the service with the given key.
func (b *StatusBoard) State(key string) ServiceState {
	return b.states[key]
}

// UpdatedAt returns the time of the last applied poll, zero if none.
func (b *StatusBoard) UpdatedAt() time.Time {
	return b.updatedAt
}

// History returns the ring buffer of applied polls.
func (b *StatusBoard) History() *StatusHistory {
	return b.history
}
