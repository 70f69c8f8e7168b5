// Package checkin drives one scan from decoded payload to committed
// attendance: decode, operator confirmation, registration validation,
// commit, reset. The coordinator is UI-agnostic; every operator decision
// comes back through the Prompter as a tagged result.
package checkin

import (
	"context"
	"log"
	"strings"
	"sync/atomic"

	"clubci-checkin/gateway"
	"clubci-checkin/qr"
)

// State is where the coordinator currently is in a check-in cycle.
type State int32

const (
	AwaitingScan State = iota
	Decoding
	Confirming
	Validating
	Committing
)

func (s State) String() string {
	switch s {
	case AwaitingScan:
		return "awaiting_scan"
	case Decoding:
		return "decoding"
	case Confirming:
		return "confirming"
	case Validating:
		return "validating"
	case Committing:
		return "committing"
	}
	return "unknown"
}

// Status is the terminal result of one scan cycle.
type Status int

const (
	StatusSuccess Status = iota
	StatusCancelled
	StatusFailed
)

// Outcome describes how a cycle ended and what the session does next.
type Outcome struct {
	Status Status
	Reason string
	Next   NextAction
}

// Scanner is the slice of the scan pipeline the coordinator needs:
// payload delivery and the reset that re-arms it.
type Scanner interface {
	Claims() <-chan string
	Resume()
}

type Coordinator struct {
	gw      gateway.Gateway
	scanner Scanner
	prompt  Prompter
	state   atomic.Int32
}

func New(gw gateway.Gateway, scanner Scanner, prompt Prompter) *Coordinator {
	return &Coordinator{gw: gw, scanner: scanner, prompt: prompt}
}

// State reports the current cycle state; safe to call from other
// goroutines (the station's status endpoint does).
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

func (c *Coordinator) setState(s State) {
	c.state.Store(int32(s))
}

// Run processes scanned payloads one at a time until the operator closes
// the session or ctx is cancelled. Every terminal outcome re-arms the
// scanner, so exactly one claim is ever in flight.
func (c *Coordinator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case text := <-c.scanner.Claims():
			outcome := c.process(ctx, text)
			c.setState(AwaitingScan)
			c.scanner.Resume()
			if outcome.Status == StatusSuccess {
				log.Printf("checkin: cycle done: success")
			} else {
				log.Printf("checkin: cycle done: %s %s", statusName(outcome.Status), outcome.Reason)
			}
			if outcome.Next == CloseSession {
				return nil
			}
		}
	}
}

func (c *Coordinator) process(ctx context.Context, text string) Outcome {
	c.setState(Decoding)
	claim, err := qr.Decode(text)
	if err == nil {
		err = claim.Validate()
	}
	if err != nil {
		// Malformed payloads reset silently so continuous scanning
		// stays fluid; the operator is told, not asked.
		log.Printf("checkin: rejected payload: %v", err)
		c.prompt.Notify("Invalid QR code")
		return Outcome{Status: StatusFailed, Reason: "malformed claim"}
	}

	if ctx.Err() != nil {
		return Outcome{Status: StatusCancelled, Reason: "session closed"}
	}
	c.setState(Confirming)
	if c.prompt.ConfirmAttendance(claim) != Confirmed {
		return Outcome{Status: StatusCancelled, Reason: "operator cancelled"}
	}

	c.setState(Validating)
	registered, err := c.isRegistered(ctx, claim)
	if ctx.Err() != nil {
		return Outcome{Status: StatusCancelled, Reason: "session closed"}
	}
	switch {
	case err != nil:
		// Validation being unavailable never blocks attendance; it
		// degrades to an operator decision.
		log.Printf("checkin: registration lookup failed for %q: %v", claim.Username, err)
		if c.prompt.ConfirmValidationFailed(claim, err) != Confirmed {
			return Outcome{Status: StatusCancelled, Reason: "operator declined after validation failure"}
		}
	case !registered:
		if c.prompt.ConfirmUnregistered(claim) != Confirmed {
			return Outcome{Status: StatusCancelled, Reason: "operator declined unregistered user"}
		}
	}

	if ctx.Err() != nil {
		return Outcome{Status: StatusCancelled, Reason: "session closed"}
	}
	c.setState(Committing)
	if err := c.gw.CommitAttendance(ctx, claim.EventID, claim.Username); err != nil {
		c.prompt.Notify("Failed to mark attendance: " + err.Error())
		return Outcome{Status: StatusFailed, Reason: err.Error()}
	}

	c.prompt.Notify("Attendance marked for " + claim.Username)
	return Outcome{Status: StatusSuccess, Next: c.prompt.AttendanceMarked(claim)}
}

// isRegistered checks the claim's username against the event's
// registration list, case-insensitively.
func (c *Coordinator) isRegistered(ctx context.Context, claim qr.Claim) (bool, error) {
	regs, err := c.gw.Registrations(ctx, claim.EventID)
	if err != nil {
		return false, err
	}
	for _, r := range regs {
		if strings.EqualFold(r.Username, claim.Username) {
			return true, nil
		}
	}
	return false, nil
}

func statusName(s Status) string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}
