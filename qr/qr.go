package qr

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	// ErrInvalidFormat reports a payload that cannot be read at all.
	ErrInvalidFormat = errors.New("qr: invalid payload format")
	// ErrIncompleteClaim reports a readable payload missing the fields
	// that identify a participant and an event.
	ErrIncompleteClaim = errors.New("qr: claim missing username or event id")
)

// Claim is the content of a participant's check-in QR code. The payload
// carries no signature; anyone holding the raw text can present it, so a
// claim identifies but does not authenticate.
type Claim struct {
	Username  string `json:"username"`
	EventName string `json:"eventName"`
	EventID   string `json:"eventId"`
	Timestamp int64  `json:"timestamp"`
}

// Validate checks the fields the check-in flow depends on. EventName is
// advisory display text and may be empty.
func (c Claim) Validate() error {
	if c.Username == "" || c.EventID == "" {
		return ErrIncompleteClaim
	}
	return nil
}

// Encode produces the QR payload for a participant: a JSON object with
// username, eventName, eventId and the encode-time wall clock in ms.
func Encode(username, eventName, eventID string) string {
	payload := Claim{
		Username:  username,
		EventName: eventName,
		EventID:   eventID,
		Timestamp: time.Now().UnixMilli(),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		// Marshalling a flat string/int struct cannot fail; keep the
		// legacy shape as a safety net anyway.
		return username + "|" + eventID
	}
	return string(b)
}

// Decode parses a scanned payload. JSON is tried first; unknown fields
// are ignored and eventName/timestamp may be absent. Anything that is
// not a JSON object falls back to the legacy pipe format
// "username|eventId", where segments past the second are ignored and
// the timestamp defaults to the decode-time clock.
func Decode(text string) (Claim, error) {
	if text == "" {
		return Claim{}, ErrInvalidFormat
	}

	if strings.HasPrefix(strings.TrimSpace(text), "{") {
		var c Claim
		if err := json.Unmarshal([]byte(text), &c); err == nil {
			return c, nil
		}
	}

	parts := strings.Split(text, "|")
	c := Claim{
		Username:  parts[0],
		Timestamp: time.Now().UnixMilli(),
	}
	if len(parts) >= 2 {
		c.EventID = parts[1]
	}
	return c, nil
}
