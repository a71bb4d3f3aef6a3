package events

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated  EventType = "complaint_created"
	EventComplaintUpdated  EventType = "complaint_updated"
	EventComplaintCanceled EventType = "complaint_canceled"
)

// Event represents a lifecycle change emitted by the complaint service.
type Event struct {
	ID          string                 `json:"id"`
	Type        EventType              `json:"type"`
	ComplaintID int64                  `json:"complaint_id"`
	CustomerID  int64                  `json:"customer_id"`
	OldStatus   domain.ComplaintStatus `json:"old_status,omitempty"`
	NewStatus   domain.ComplaintStatus `json:"new_status"`
	Timestamp   time.Time              `json:"timestamp"`
}
