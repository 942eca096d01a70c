package statestore

import (
	"context"
	"sync"
)

// InMemoryStore keeps wizard state in process memory. It backs tests and
// single-node development runs; state does not survive a restart.
type InMemoryStore struct {
	mu     sync.RWMutex
	fields map[string]map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{fields: make(map[string]map[string][]byte)}
}

func (s *InMemoryStore) Read(_ context.Context, clientKey, field string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields, ok := s.fields[clientKey]
	if !ok {
		return nil, false, nil
	}
	value, ok := fields[field]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *InMemoryStore) Write(_ context.Context, clientKey, field string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fields, ok := s.fields[clientKey]
	if !ok {
		fields = make(map[string][]byte)
		s.fields[clientKey] = fields
	}
	fields[field] = append([]byte(nil), value...)
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context, clientKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fields, clientKey)
	return nil
}
