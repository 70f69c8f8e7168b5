package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"clubci-checkin/checkin"
	"clubci-checkin/qr"
)

// terminalPrompter answers the coordinator's prompts from the station
// operator's terminal.
type terminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newTerminalPrompter(in io.Reader, out io.Writer) *terminalPrompter {
	return &terminalPrompter{in: bufio.NewReader(in), out: out}
}

func (p *terminalPrompter) ask(question string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	line, err := p.in.ReadString('\n')
	if err != nil {
		// Stdin gone (session torn down); treat as decline.
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}

func eventLabel(claim qr.Claim) string {
	if claim.EventName != "" {
		return claim.EventName
	}
	return claim.EventID
}

func (p *terminalPrompter) ConfirmAttendance(claim qr.Claim) checkin.Decision {
	fmt.Fprintf(p.out, "\nUser:  %s\nEvent: %s\n", claim.Username, eventLabel(claim))
	if p.ask("Mark attendance?") {
		return checkin.Confirmed
	}
	return checkin.Declined
}

func (p *terminalPrompter) ConfirmUnregistered(claim qr.Claim) checkin.Decision {
	fmt.Fprintf(p.out, "\nUser %q is not registered for this event.\n", claim.Username)
	if p.ask("Mark attendance anyway?") {
		return checkin.Confirmed
	}
	return checkin.Declined
}

func (p *terminalPrompter) ConfirmValidationFailed(claim qr.Claim, cause error) checkin.Decision {
	fmt.Fprintf(p.out, "\nCouldn't validate registration (%v).\n", cause)
	if p.ask("Proceed to mark attendance anyway?") {
		return checkin.Confirmed
	}
	return checkin.Declined
}

func (p *terminalPrompter) AttendanceMarked(claim qr.Claim) checkin.NextAction {
	fmt.Fprintf(p.out, "\nAttendance marked for %s in %s.\n", claim.Username, eventLabel(claim))
	if p.ask("Scan next?") {
		return checkin.ScanNext
	}
	return checkin.CloseSession
}

func (p *terminalPrompter) Notify(message string) {
	fmt.Fprintln(p.out, message)
}
