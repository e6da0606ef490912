package client

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidEmail is returned by Flow.Check for an address that cannot
// be looked up.
var ErrInvalidEmail = errors.New("invalid email address")

// Status is where a registrant stands with an event.
type Status string

const (
	// StatusUnknown means no lookup has run yet.
	StatusUnknown Status = "unknown"
	// StatusChecking means a lookup is in flight.
	StatusChecking Status = "checking"
	// StatusNew means no registration exists and the form can be shown.
	StatusNew Status = "new"
	// StatusPending means a registration exists and awaits verification.
	StatusPending Status = "pending"
	// StatusVerified means the payment was confirmed.
	StatusVerified Status = "verified"
	// StatusRejected means the payment was turned down.
	StatusRejected Status = "rejected"
)

// Terminal reports whether the status no longer changes on its own.
func (s Status) Terminal() bool {
	return s == StatusVerified || s == StatusRejected
}

// Message returns the user-facing text for the status.
func (s Status) Message() string {
	switch s {
	case StatusChecking:
		return "Checking your registration status..."
	case StatusNew:
		return "Fill in the form below to register."
	case StatusPending:
		return "Your registration is awaiting payment verification."
	case StatusVerified:
		return "Your registration is confirmed. See you at the event!"
	case StatusRejected:
		return "Your payment could not be verified. Please contact the organizers."
	default:
		return ""
	}
}

// Flow tracks one registrant's progress against one event. A Check that
// fails on the network falls back to StatusNew so a flaky connection
// never locks a registrant out of the form.
type Flow struct {
	client  *Client
	eventID uint

	status         Status
	registrationID uint
}

// NewFlow starts a registration flow for an event.
func NewFlow(c *Client, eventID uint) *Flow {
	return &Flow{client: c, eventID: eventID, status: StatusUnknown}
}

// Status returns the current state.
func (f *Flow) Status() Status { return f.status }

// RegistrationID returns the registration found by Check, or zero.
func (f *Flow) RegistrationID() uint { return f.registrationID }

// Check looks up the email with the server and updates the state. A
// malformed email is refused without a request and the state is left
// alone. Verified and rejected are final for the life of the flow, and
// a pending registration never reopens the form on a failed re-check.
func (f *Flow) Check(ctx context.Context, email string) (Status, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailShape(email) {
		return f.status, ErrInvalidEmail
	}
	if f.status.Terminal() {
		return f.status, nil
	}

	prev := f.status
	f.status = StatusChecking
	check, err := f.client.CheckRegistration(ctx, f.eventID, email)
	if err != nil || !check.Exists {
		// Fail open only from a blank slate: a registrant already seen
		// as pending must not get the form back on a flaky re-check.
		// The server's duplicate check backstops the open path.
		if prev == StatusPending {
			f.status = StatusPending
		} else {
			f.status = StatusNew
		}
		return f.status, nil
	}

	f.registrationID = check.RegistrationID
	switch check.Status {
	case "verified":
		f.status = StatusVerified
	case "rejected":
		f.status = StatusRejected
	default:
		f.status = StatusPending
	}
	return f.status, nil
}

// MarkSubmitted records a successful form submission.
func (f *Flow) MarkSubmitted(result *RegistrationResult) {
	f.registrationID = result.RegistrationID
	f.status = StatusPending
}
