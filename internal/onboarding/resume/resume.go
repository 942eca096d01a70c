// Package resume decides, once per client load, whether a previously
// abandoned application may be offered for continuation or must be silently
// discarded.
package resume

import (
	"context"

	"engage/internal/onboarding/models"
)

// State is the resume controller's position. Checking and Prompt render fixed
// screens; Active is the only state in which the sequencer and flow variant
// selector are live.
type State string

const (
	StateChecking State = "checking"
	StatePrompt   State = "prompt"
	StateActive   State = "active"
)

// Identity is the subject of a live backend session.
type Identity struct {
	UserID string
}

// Sessions is the backend session introspection port. Introspect returns an
// error when there is no live session for the presented token.
type Sessions interface {
	Introspect(ctx context.Context, token string) (Identity, error)
}

// Outcome is the result of the one-shot check. Reset means the stored state
// was stale and must be silently replaced before entering Active; it is never
// surfaced as an error.
type Outcome struct {
	State  State
	Reset  bool
	Reason string
}

// Evaluate runs the checking transition. A prompt may only be offered when
// the persisted record is non-empty, carries a signup ID, and the backend
// confirms a live session whose identity matches the stored user ID (when one
// is present). Anything else bypasses the prompt: either plain Active for a
// genuinely fresh client, or a silent reset for stale state.
func Evaluate(ctx context.Context, sessions Sessions, app models.Application, token string) Outcome {
	if app.FormData.IsEmpty() {
		return Outcome{State: StateActive, Reason: "no persisted state"}
	}
	if app.FormData.SignupID().IsZero() {
		return Outcome{State: StateActive, Reset: true, Reason: "persisted state has no signup id"}
	}

	identity, err := sessions.Introspect(ctx, token)
	if err != nil || identity.UserID == "" {
		return Outcome{State: StateActive, Reset: true, Reason: "no live backend session"}
	}
	if storedUser := app.FormData.UserID(); storedUser != "" && storedUser != identity.UserID {
		return Outcome{State: StateActive, Reset: true, Reason: "session identity mismatch"}
	}

	return Outcome{State: StatePrompt, Reason: "resumable application found"}
}
