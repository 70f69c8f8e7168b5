package models

import (
	"time"
)

// Event status constants
const (
	StatusUpcoming  = "UPCOMING"
	StatusLive      = "LIVE"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// Event represents a club event. Timestamps are ms-epoch to match the
// mobile client's wire format.
type Event struct {
	EventID              string  `json:"eventId" db:"event_id"`
	Name                 string  `json:"name" db:"name"`
	Description          string  `json:"description" db:"description"`
	Type                 string  `json:"type" db:"type"`
	DateTime             int64   `json:"dateTime" db:"date_time"`
	Venue                string  `json:"venue" db:"venue"`
	RegistrationDeadline int64   `json:"registrationDeadline" db:"registration_deadline"` // 0 = no deadline
	MaxParticipants      int     `json:"maxParticipants" db:"max_participants"`
	CurrentParticipants  int     `json:"currentParticipants" db:"current_participants"`
	Fee                  float64 `json:"fee" db:"fee"`
	AttendedCount        int     `json:"attendedCount" db:"attended_count"`
	Status               string  `json:"status" db:"status"`
}

// ProgressPercentage reports how full the event is, in whole percent.
func (e *Event) ProgressPercentage() int {
	if e.MaxParticipants == 0 {
		return 0
	}
	return e.CurrentParticipants * 100 / e.MaxParticipants
}

// IsFull reports whether the event has reached capacity.
func (e *Event) IsFull() bool {
	return e.CurrentParticipants >= e.MaxParticipants
}

// IsRegistrationOpen reports whether new registrations are accepted at
// the given instant. Events without a deadline are always open. This
// gates registration only; attendance marking is never gated by it.
func (e *Event) IsRegistrationOpen(now time.Time) bool {
	if e.RegistrationDeadline == 0 {
		return true
	}
	return now.UnixMilli() < e.RegistrationDeadline && !e.IsFull()
}

type CreateEventRequest struct {
	Name                 string  `json:"name" binding:"required"`
	Description          string  `json:"description"`
	Type                 string  `json:"type"`
	DateTime             int64   `json:"dateTime" binding:"required"`
	Venue                string  `json:"venue"`
	RegistrationDeadline int64   `json:"registrationDeadline"`
	MaxParticipants      int     `json:"maxParticipants"`
	Fee                  float64 `json:"fee"`
}
