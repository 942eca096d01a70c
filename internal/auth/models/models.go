// Package models holds the auth domain entities: accounts created mid-wizard,
// the one-time codes that verify them, and the sessions minted on success.
package models

import (
	"time"

	id "engage/pkg/domain"
)

type UserStatus string

const (
	StatusPending UserStatus = "pending"
	StatusActive  UserStatus = "active"
)

// User is an account holder. Accounts are created in pending status at the
// email step of the wizard and activated by code verification.
type User struct {
	ID        id.UserID
	Email     string
	FirstName string
	LastName  string
	Status    UserStatus
	CreatedAt time.Time
}

// VerificationCode is a one-time code sent to an email address. Consuming a
// code marks it used; expired or used codes never verify.
type VerificationCode struct {
	Email     string
	Code      string
	ExpiresAt time.Time
	Used      bool
}

func (c VerificationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Session is a live authentication session backing an access token.
type Session struct {
	ID        id.SessionID
	UserID    id.UserID
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
