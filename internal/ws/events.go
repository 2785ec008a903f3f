package ws

import (
	"sync/atomic"
	"time"
)

// Event types pushed to connected review dashboards.
const (
	EventSectionSaved        = "inspection.section_saved"
	EventInspectionSubmitted = "inspection.submitted"
	EventInspectionDeleted   = "inspection.deleted"
)

// Event is the structured message sent to WebSocket clients.
type Event struct {
	Type         string    `json:"type"`
	ID           uint64    `json:"id"`
	InspectionID string    `json:"inspection_id"`
	Number       string    `json:"number,omitempty"`
	Section      string    `json:"section,omitempty"`
	Time         time.Time `json:"time"`
}

// EventSequence issues monotonic event IDs so clients can detect gaps.
type EventSequence struct {
	counter atomic.Uint64
}

// Next returns the next sequence number.
func (es *EventSequence) Next() uint64 {
	return es.counter.Add(1)
}
