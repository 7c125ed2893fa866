// Package calendar holds the scheduling subsystem's event aggregate and
// its document mapping.
package calendar

import (
	"time"

	"amani/pkg/patch"
)

// Event is a scheduled item, optionally linked to another record (a
// program review, a grant deadline) through RelatedType/RelatedID.
type Event struct {
	ID          string
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      *time.Time
	AllDay      bool
	Location    string
	RelatedType string
	RelatedID   string
	Attendees   []string
	Reminders   []Reminder
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Reminder is a sub-record lead-time alert before the event.
type Reminder struct {
	ID            string
	OffsetMinutes float64
	Channel       string
}

// New is the create payload; Title and StartsAt are required.
type New struct {
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      *time.Time
	AllDay      bool
	Location    string
	RelatedType string
	RelatedID   string
	Attendees   []string
	Reminders   []Reminder
}

// Patch is the partial update.
type Patch struct {
	Title       patch.Field[string]
	Description patch.Field[string]
	StartsAt    patch.Field[time.Time]
	EndsAt      patch.Field[time.Time]
	AllDay      patch.Field[bool]
	Location    patch.Field[string]
	RelatedType patch.Field[string]
	RelatedID   patch.Field[string]
	Attendees   patch.Field[[]string]
	Reminders   patch.Field[[]Reminder]
}
