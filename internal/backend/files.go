package backend

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	id "engage/pkg/domain"
	"engage/pkg/platform/sentinel"
)

// StoredFile describes an uploaded document as the file store accepted it.
type StoredFile struct {
	ID          string
	UserID      id.UserID
	Name        string
	ContentType string
	Size        int64
	UploadedAt  time.Time
}

// FileStore holds uploaded document bytes. Delete exists so a failed record
// insert can undo its upload.
type FileStore interface {
	Upload(ctx context.Context, userID id.UserID, name, contentType string, data []byte) (StoredFile, error)
	Delete(ctx context.Context, fileID string) error
}

type storedBlob struct {
	meta StoredFile
	data []byte
}

// InMemoryFiles implements FileStore for tests and single-node deployments.
type InMemoryFiles struct {
	mu    sync.RWMutex
	files map[string]storedBlob
	now   func() time.Time
}

func NewInMemoryFiles() *InMemoryFiles {
	return &InMemoryFiles{
		files: make(map[string]storedBlob),
		now:   time.Now,
	}
}

func (s *InMemoryFiles) Upload(ctx context.Context, userID id.UserID, name, contentType string, data []byte) (StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := StoredFile{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		UploadedAt:  s.now(),
	}
	s.files[meta.ID] = storedBlob{meta: meta, data: append([]byte(nil), data...)}
	return meta, nil
}

func (s *InMemoryFiles) Delete(ctx context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[fileID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.files, fileID)
	return nil
}

// Get returns a stored file's metadata. Test helper.
func (s *InMemoryFiles) Get(fileID string) (StoredFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.files[fileID]
	return blob.meta, ok
}

// Count returns the number of stored files. Test helper.
func (s *InMemoryFiles) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
