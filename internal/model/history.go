package model

import "time"

const defaultHistoryCap = 30

// StatusPoint is one applied status poll stored in the ring buffer.
type StatusPoint struct {
	Timestamp time.Time
	States    map[string]ServiceState
}

// StatusHistory is a fixed-size ring buffer of StatusPoints.
// When the buffer is full, new pushes overwrite the oldest entry.
type StatusHistory struct {
	buf  []StatusPoint
	head int // index of the next write position
	size int // number of valid entries
}

// NewStatusHistory creates a StatusHistory with the given capacity.
// If capacity <= 0, defaultHistoryCap (30) is used.
func NewStatusHistory(capacity int) *StatusHistory {
	if capacity <= 0 {
		capacity = defaultHistoryCap
	}
	return &StatusHistory{
		buf: make([]StatusPoint, capacity),
	}
}

// Push appends a new point, overwriting the oldest if full.
func (h *StatusHistory) Push(p StatusPoint) {
	h.buf[h.head] = p
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// Len returns the number of valid entries.
func (h *StatusHistory) Len() int {
	return h.size
}

// Values returns the recorded states of one service in chronological order
// (oldest first). Points that did not report the service yield StateUnknown.
func (h *StatusHistory) Values(key string) []ServiceState {
	out := make([]ServiceState, h.size)
	// oldest entry sits at (head - size + cap) % cap
	start := (h.head - h.size + len(h.buf)) % len(h.buf)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(start+i)%len(h.buf)].States[key]
	}
	return out
}

// Uptime returns the fraction of recorded points in which the service was up.
// Returns -1 when nothing has been recorded.
func (h *StatusHistory) Uptime(key string) float64 {
	vals := h.Values(key)
	if len(vals) == 0 {
		return -1
	}
	up := 0
	for _, v := range vals {
		if v == StateUp {
			up++
		}
	}
	return float64(up) / float64(len(vals))
}
