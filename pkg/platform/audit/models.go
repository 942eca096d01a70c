// Package audit captures key wizard actions for compliance review. Events are
// emitted from domain logic and kept transport-agnostic so stores and sinks
// can fan out.
package audit

import (
	"context"
	"time"

	id "engage/pkg/domain"
)

// Action names the audited operation.
type Action string

const (
	ActionApplicationStarted   Action = "application_started"
	ActionApplicationResumed   Action = "application_resumed"
	ActionApplicationDiscarded Action = "application_discarded"
	ActionApplicationSubmitted Action = "application_submitted"
	ActionStepSubmitted        Action = "step_submitted"
	ActionStaleStateReset      Action = "stale_state_reset"
	ActionUserSignedUp         Action = "user_signed_up"
	ActionUserVerified         Action = "user_verified"
	ActionDocumentRecorded     Action = "document_recorded"
)

// Event is one audited action. SignupID correlates everything belonging to a
// single application attempt.
type Event struct {
	ID        string
	Timestamp time.Time
	Action    Action
	SignupID  id.SignupID
	UserID    string
	ClientKey string
	Step      string
	Reason    string
	RequestID string
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySignup(ctx context.Context, signupID id.SignupID) ([]Event, error)
}
