// Package domain holds the typed identifiers shared across engage. Distinct
// types keep user, session, and signup identifiers from being swapped at call
// sites.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	dErrors "engage/pkg/domain-errors"
)

// UserID identifies an authenticated account holder.
type UserID uuid.UUID

// SessionID identifies a live authentication session.
type SessionID uuid.UUID

// SignupID is the opaque correlation token grouping every backend record
// created during one application attempt. It is minted once when a flow
// variant is chosen and never reused after a reset.
type SignupID string

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id SessionID) String() string { return uuid.UUID(id).String() }
func (id UserID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id SignupID) String() string { return string(id) }
func (id SignupID) IsZero() bool   { return id == "" }

// NewSignupID mints a fresh signup ID. The timestamp prefix keeps backend
// records sortable by attempt; the UUID suffix keeps them unique.
func NewSignupID(now time.Time) SignupID {
	return SignupID(fmt.Sprintf("su-%d-%s", now.UnixMilli(), uuid.NewString()[:8]))
}

// ParseUserID validates an incoming user ID string. IDs must be valid,
// non-nil UUIDs.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw, "user id")
	return UserID(parsed), err
}

// ParseSessionID validates an incoming session ID string.
func ParseSessionID(raw string) (SessionID, error) {
	parsed, err := parseUUID(raw, "session id")
	return SessionID(parsed), err
}

func parseUUID(raw, label string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is not a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" must not be the nil UUID")
	}
	return parsed, nil
}
