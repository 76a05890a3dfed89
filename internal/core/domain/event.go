package domain

import "time"

// EventType categorizes events (meeting, social, ...).
type EventType struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// SeedEventTypes is the fixed event type set created at migration time.
var SeedEventTypes = []string{"meeting", "social", "service", "professional"}

// Event is an organization event that members can attend. OfficerID is the
// account that chairs it.
type Event struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	EventTypeID uint       `json:"-"`
	EventType   *EventType `json:"event_type,omitempty"`
	OfficerID   string     `json:"officer_id,omitempty"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      time.Time  `json:"ends_at"`
}

// AttendanceRecord links an account to an event it attended.
type AttendanceRecord struct {
	AccountID  string    `json:"account_id"`
	EventID    string    `json:"event_id"`
	RecordedAt time.Time `json:"recorded_at"`
}
