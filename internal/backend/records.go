// Package backend persists the durable application records created as steps
// complete: profile data, identification details, uploaded file references.
// Records are keyed by (user, signup, type) so re-submitting a step replaces
// its record instead of duplicating it.
package backend

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	id "engage/pkg/domain"
)

// RecordType names the kind of application record.
type RecordType string

const (
	RecordProfile        RecordType = "profile"
	RecordAddress        RecordType = "address"
	RecordEmployment     RecordType = "employment"
	RecordIdentification RecordType = "identification"
	RecordIDFile         RecordType = "id_file"
	RecordApplication    RecordType = "application"
)

// Record is one durable application record.
type Record struct {
	UserID    id.UserID
	SignupID  id.SignupID
	Type      RecordType
	Payload   json.RawMessage
	UpdatedAt time.Time
}

// RecordStore persists application records. Upsert replaces the existing
// record for the same (user, signup, type) key.
type RecordStore interface {
	Upsert(ctx context.Context, record Record) error
	ListBySignup(ctx context.Context, userID id.UserID, signupID id.SignupID) ([]Record, error)
}

type recordKey struct {
	userID   id.UserID
	signupID id.SignupID
	kind     RecordType
}

// InMemoryRecords implements RecordStore for tests and single-node
// deployments.
type InMemoryRecords struct {
	mu      sync.RWMutex
	records map[recordKey]Record
}

func NewInMemoryRecords() *InMemoryRecords {
	return &InMemoryRecords{records: make(map[recordKey]Record)}
}

func (s *InMemoryRecords) Upsert(ctx context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[recordKey{record.UserID, record.SignupID, record.Type}] = record
	return nil
}

func (s *InMemoryRecords) ListBySignup(ctx context.Context, userID id.UserID, signupID id.SignupID) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for key, record := range s.records {
		if key.userID == userID && key.signupID == signupID {
			out = append(out, record)
		}
	}
	return out, nil
}
