package models

import (
	"time"

	"github.com/google/uuid"
)

// Registration links a user to an event. The station's validation step
// only depends on Username and Attended; the remaining fields exist for
// the registration list screens.
type Registration struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	EventID          string     `json:"eventId" db:"event_id"`
	Username         string     `json:"username" db:"username"`
	Attended         bool       `json:"attended" db:"attended"`
	PaymentStatus    string     `json:"paymentStatus" db:"payment_status"`
	RegistrationDate time.Time  `json:"registrationDate" db:"registration_date"`
	AttendedAt       *time.Time `json:"attendedAt,omitempty" db:"attended_at"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
}

// AttendanceRequest is the body of both attendance routes. The legacy
// route reads Username from here; the v1 route takes it from the path
// and treats the body as advisory.
type AttendanceRequest struct {
	Username  string `json:"username"`
	EventID   string `json:"eventId"`
	Timestamp int64  `json:"timestamp"`
}
