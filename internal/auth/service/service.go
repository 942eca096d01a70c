// Package service implements signup and verification for wizard applicants.
// Accounts are created pending at the email step, verified with a one-time
// code, and backed by a session that the resume check introspects later.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"engage/internal/auth/models"
	"engage/internal/auth/store"
	"engage/internal/auth/tokens"
	"engage/internal/onboarding/resume"
	id "engage/pkg/domain"
	dErrors "engage/pkg/domain-errors"
	"engage/pkg/email"
	audit "engage/pkg/platform/audit"
	"engage/pkg/platform/sentinel"
)

// Auditor is the audit emission port.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	users    store.UserStore
	codes    store.CodeStore
	sessions store.SessionStore
	tokens   *tokens.Service
	auditor  Auditor
	logger   *slog.Logger

	codeTTL    time.Duration
	sessionTTL time.Duration
	now        func() time.Time
}

func NewService(
	users store.UserStore,
	codes store.CodeStore,
	sessions store.SessionStore,
	tokenSvc *tokens.Service,
	auditor Auditor,
	logger *slog.Logger,
	sessionTTL time.Duration,
) *Service {
	return &Service{
		users:      users,
		codes:      codes,
		sessions:   sessions,
		tokens:     tokenSvc,
		auditor:    auditor,
		logger:     logger,
		codeTTL:    10 * time.Minute,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type SignupResult struct {
	UserID id.UserID
	// Code is the one-time verification code. Delivery is out of band; the
	// handler never returns it to the client.
	Code string
}

// Signup creates a pending account for the email, or re-issues a code when a
// pending account already exists. Active accounts cannot sign up again.
func (s *Service) Signup(ctx context.Context, emailAddr string) (SignupResult, error) {
	user, err := s.users.FindByEmail(ctx, emailAddr)
	switch {
	case err == nil:
		if user.Status == models.StatusActive {
			return SignupResult{}, dErrors.New(dErrors.CodeConflict, "email is already registered")
		}
	case errors.Is(err, sentinel.ErrNotFound):
		first, last := email.DeriveNameFromEmail(emailAddr)
		user = models.User{
			ID:        id.UserID(uuid.New()),
			Email:     emailAddr,
			FirstName: first,
			LastName:  last,
			Status:    models.StatusPending,
			CreatedAt: s.now(),
		}
		if err := s.users.Save(ctx, user); err != nil {
			return SignupResult{}, dErrors.Wrap(dErrors.CodeInternal, "saving user", err)
		}
	default:
		return SignupResult{}, dErrors.Wrap(dErrors.CodeInternal, "looking up user", err)
	}

	code, err := generateCode()
	if err != nil {
		return SignupResult{}, dErrors.Wrap(dErrors.CodeInternal, "generating verification code", err)
	}
	if err := s.codes.Save(ctx, models.VerificationCode{
		Email:     emailAddr,
		Code:      code,
		ExpiresAt: s.now().Add(s.codeTTL),
	}); err != nil {
		return SignupResult{}, dErrors.Wrap(dErrors.CodeInternal, "saving verification code", err)
	}

	_ = s.auditor.Emit(ctx, audit.Event{
		Action: audit.ActionUserSignedUp,
		UserID: user.ID.String(),
	})
	s.logger.InfoContext(ctx, "verification code issued", "user_id", user.ID.String())

	return SignupResult{UserID: user.ID, Code: code}, nil
}

type VerifyResult struct {
	UserID      id.UserID
	SessionID   id.SessionID
	AccessToken string
	ExpiresIn   int64
}

// Verify consumes the one-time code, activates the account, and mints a
// session with an access token.
func (s *Service) Verify(ctx context.Context, emailAddr, code string) (VerifyResult, error) {
	if _, err := s.codes.Consume(ctx, emailAddr, code); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrExpired):
			return VerifyResult{}, dErrors.New(dErrors.CodeUnauthorized, "verification code has expired")
		case errors.Is(err, sentinel.ErrNotFound):
			return VerifyResult{}, dErrors.New(dErrors.CodeUnauthorized, "verification code is invalid")
		default:
			return VerifyResult{}, dErrors.Wrap(dErrors.CodeInternal, "consuming verification code", err)
		}
	}

	user, err := s.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return VerifyResult{}, dErrors.Wrap(dErrors.CodeInternal, "looking up user", err)
	}
	if user.Status != models.StatusActive {
		user.Status = models.StatusActive
		if err := s.users.Save(ctx, user); err != nil {
			return VerifyResult{}, dErrors.Wrap(dErrors.CodeInternal, "activating user", err)
		}
	}

	session := models.Session{
		ID:        id.SessionID(uuid.New()),
		UserID:    user.ID,
		CreatedAt: s.now(),
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return VerifyResult{}, dErrors.Wrap(dErrors.CodeInternal, "saving session", err)
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, session.ID, s.sessionTTL)
	if err != nil {
		return VerifyResult{}, dErrors.Wrap(dErrors.CodeInternal, "signing access token", err)
	}

	_ = s.auditor.Emit(ctx, audit.Event{
		Action: audit.ActionUserVerified,
		UserID: user.ID.String(),
	})

	return VerifyResult{
		UserID:      user.ID,
		SessionID:   session.ID,
		AccessToken: token,
		ExpiresIn:   int64(s.sessionTTL.Seconds()),
	}, nil
}

// Introspect validates a token against live session state. It implements the
// resume check's session port: an expired or revoked session is an error even
// when the token signature still verifies.
func (s *Service) Introspect(ctx context.Context, token string) (resume.Identity, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return resume.Identity{}, err
	}
	sessionID, err := id.ParseSessionID(claims.SessionID)
	if err != nil {
		return resume.Identity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid session claim")
	}
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return resume.Identity{}, dErrors.New(dErrors.CodeUnauthorized, "no live session")
	}
	return resume.Identity{UserID: session.UserID.String()}, nil
}

// Logout deletes the session backing the token. Validation failures are
// treated as success: the session is unusable either way.
func (s *Service) Logout(ctx context.Context, token string) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return
	}
	sessionID, err := id.ParseSessionID(claims.SessionID)
	if err != nil {
		return
	}
	_ = s.sessions.Delete(ctx, sessionID)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
