// Package store defines the persistence ports for the auth domain and an
// in-memory implementation. Stores return sentinel errors for factual states;
// the service layer translates them into domain errors.
package store

import (
	"context"

	"engage/internal/auth/models"
	id "engage/pkg/domain"
)

type UserStore interface {
	Save(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, userID id.UserID) (models.User, error)
}

type CodeStore interface {
	// Save stores the code hashed at rest; only the hash is ever persisted.
	Save(ctx context.Context, code models.VerificationCode) error
	// Consume returns the current unused code for the email and marks it
	// used. Returns sentinel.ErrNotFound when none exists and
	// sentinel.ErrExpired when the code has lapsed.
	Consume(ctx context.Context, email, code string) (models.VerificationCode, error)
}

type SessionStore interface {
	Save(ctx context.Context, session models.Session) error
	FindByID(ctx context.Context, sessionID id.SessionID) (models.Session, error)
	Delete(ctx context.Context, sessionID id.SessionID) error
}
