package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"engage/internal/auth/models"
	id "engage/pkg/domain"
	"engage/pkg/platform/sentinel"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// InMemoryUsers implements UserStore for tests and single-node deployments.
type InMemoryUsers struct {
	mu      sync.RWMutex
	users   map[id.UserID]models.User
	byEmail map[string]id.UserID
}

func NewInMemoryUsers() *InMemoryUsers {
	return &InMemoryUsers{
		users:   make(map[id.UserID]models.User),
		byEmail: make(map[string]id.UserID),
	}
}

func (s *InMemoryUsers) Save(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	s.byEmail[normalizeEmail(user.Email)] = user.ID
	return nil
}

func (s *InMemoryUsers) FindByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return models.User{}, sentinel.ErrNotFound
	}
	return s.users[userID], nil
}

func (s *InMemoryUsers) FindByID(ctx context.Context, userID id.UserID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return models.User{}, sentinel.ErrNotFound
	}
	return user, nil
}

// InMemoryCodes implements CodeStore. One live code per email; saving a new
// code replaces any previous one. Codes are bcrypt-hashed at rest; the
// plaintext exists only in the delivery path.
type InMemoryCodes struct {
	mu    sync.Mutex
	codes map[string]models.VerificationCode
	now   func() time.Time
}

func NewInMemoryCodes() *InMemoryCodes {
	return &InMemoryCodes{
		codes: make(map[string]models.VerificationCode),
		now:   time.Now,
	}
}

// WithClock overrides the store's clock. Test hook.
func (s *InMemoryCodes) WithClock(now func() time.Time) *InMemoryCodes {
	s.now = now
	return s
}

func (s *InMemoryCodes) Save(ctx context.Context, code models.VerificationCode) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(code.Code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	code.Code = string(hashed)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[normalizeEmail(code.Email)] = code
	return nil
}

func (s *InMemoryCodes) Consume(ctx context.Context, email, code string) (models.VerificationCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeEmail(email)
	stored, ok := s.codes[key]
	if !ok || stored.Used {
		return models.VerificationCode{}, sentinel.ErrNotFound
	}
	if stored.Expired(s.now()) {
		return models.VerificationCode{}, sentinel.ErrExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.Code), []byte(code)) != nil {
		return models.VerificationCode{}, sentinel.ErrNotFound
	}

	stored.Used = true
	s.codes[key] = stored
	return stored, nil
}

// InMemorySessions implements SessionStore. Expired sessions read as not
// present.
type InMemorySessions struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]models.Session
	now      func() time.Time
}

func NewInMemorySessions() *InMemorySessions {
	return &InMemorySessions{
		sessions: make(map[id.SessionID]models.Session),
		now:      time.Now,
	}
}

// WithClock overrides the store's clock. Test hook.
func (s *InMemorySessions) WithClock(now func() time.Time) *InMemorySessions {
	s.now = now
	return s
}

func (s *InMemorySessions) Save(ctx context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *InMemorySessions) FindByID(ctx context.Context, sessionID id.SessionID) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return models.Session{}, sentinel.ErrNotFound
	}
	if session.Expired(s.now()) {
		return models.Session{}, sentinel.ErrExpired
	}
	return session, nil
}

func (s *InMemorySessions) Delete(ctx context.Context, sessionID id.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
