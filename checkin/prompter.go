package checkin

import "clubci-checkin/qr"

// Decision is an operator's answer to a binary prompt.
type Decision int

const (
	Declined Decision = iota
	Confirmed
)

// NextAction is what the session does after a successful commit.
type NextAction int

const (
	ScanNext NextAction = iota
	CloseSession
)

// Prompter is the operator's decision surface. Implementations own the
// presentation; the coordinator only consumes tagged results, which
// keeps the admin-override policy out of any UI layer.
type Prompter interface {
	// ConfirmAttendance shows the scanned identity and asks whether to
	// mark attendance at all.
	ConfirmAttendance(claim qr.Claim) Decision
	// ConfirmUnregistered asks whether to proceed although the user is
	// not on the event's registration list.
	ConfirmUnregistered(claim qr.Claim) Decision
	// ConfirmValidationFailed asks whether to proceed although the
	// registration list could not be fetched.
	ConfirmValidationFailed(claim qr.Claim, cause error) Decision
	// AttendanceMarked reports success and asks whether to keep
	// scanning or close the session.
	AttendanceMarked(claim qr.Claim) NextAction
	// Notify surfaces a one-line status message.
	Notify(message string)
}
