package tui

import (
	"time"

	"github.com/dm/casamatriz/internal/client"
)

// StatusMsg delivers a successful status poll to the TUI.
type StatusMsg struct {
	Status client.SystemStatus
	At     time.Time
}

// StatusErrorMsg signals a failed status poll. Indicators are left as they are.
type StatusErrorMsg struct{ Err error }

// StatusTickMsg triggers the next scheduled status poll.
type StatusTickMsg time.Time

// RowsMsg delivers the rows of a finished data load. Seq identifies the load
// that produced it.
type RowsMsg struct {
	Seq  uint64
	Rows []Row
}

// LoadErrorMsg signals a failed data load. Title and Text are what the error
// dialog shows.
type LoadErrorMsg struct {
	Seq   uint64
	Title string
	Text  string
	Err   error
}
