package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/staff-tracker/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRosterLoaded          EventType = "roster_loaded"
	EventSelectionChanged      EventType = "selection_changed"
	EventStaffClockedOut       EventType = "staff_clocked_out"
	EventStaffClockedIn        EventType = "staff_clocked_in"
	EventStaffLate             EventType = "staff_late"
	EventNotificationDismissed EventType = "notification_dismissed"
)

// Event represents a state change emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	StaffID   int         `json:"staff_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id.
func New(eventType EventType, staffID int, at time.Time, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		StaffID:   staffID,
		Timestamp: at,
		Payload:   payload,
	}
}

// RosterLoadedPayload payload.
type RosterLoadedPayload struct {
	Generation int `json:"generation"`
	Count      int `json:"count"`
}

// SelectionChangedPayload payload. SelectedID is nil when cleared.
type SelectionChangedPayload struct {
	SelectedID *int `json:"selected_id,omitempty"`
}

// StaffChangedPayload carries the member as it is after the transition.
type StaffChangedPayload struct {
	Member domain.StaffMember `json:"member"`
}

// StaffLatePayload payload.
type StaffLatePayload struct {
	Member       domain.StaffMember      `json:"member"`
	Notification domain.LateNotification `json:"notification"`
}

// NotificationDismissedPayload payload.
type NotificationDismissedPayload struct {
	NotificationID string `json:"notification_id"`
}
