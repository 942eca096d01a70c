// Package service handles identity document intake: file uploads chained
// with the identification records that reference them. The chain compensates
// on failure so the file store never accumulates orphans that no record
// points at.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"engage/internal/backend"
	id "engage/pkg/domain"
	dErrors "engage/pkg/domain-errors"
	audit "engage/pkg/platform/audit"
)

// Auditor is the audit emission port.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Document is one uploaded file plus its labeling.
type Document struct {
	Name        string
	ContentType string
	Side        string
	Data        []byte
}

// Intake is a complete identity document submission.
type Intake struct {
	UserID         id.UserID
	SignupID       id.SignupID
	Identification json.RawMessage
	Documents      []Document
}

// FileRef is the stored handle for one accepted document.
type FileRef struct {
	FileID string `json:"fileId"`
	Name   string `json:"name"`
	Side   string `json:"side,omitempty"`
	Size   int64  `json:"size"`
}

type Service struct {
	files   backend.FileStore
	records backend.RecordStore
	auditor Auditor
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(files backend.FileStore, records backend.RecordStore, auditor Auditor, logger *slog.Logger) *Service {
	return &Service{
		files:   files,
		records: records,
		auditor: auditor,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Process runs the intake chain: upload every file, then write the
// identification record, then the file-reference record. Any failure deletes
// the files uploaded so far before returning; record upserts are idempotent,
// so a retried submission replaces rather than duplicates.
func (s *Service) Process(ctx context.Context, intake Intake) ([]FileRef, error) {
	if intake.UserID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if intake.SignupID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "signup id is required")
	}
	if len(intake.Documents) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "at least one document is required")
	}

	refs := make([]FileRef, 0, len(intake.Documents))
	uploaded := make([]string, 0, len(intake.Documents))
	for _, doc := range intake.Documents {
		stored, err := s.files.Upload(ctx, intake.UserID, doc.Name, doc.ContentType, doc.Data)
		if err != nil {
			s.compensate(ctx, uploaded)
			return nil, dErrors.Wrap(dErrors.CodeUnavailable, "uploading document", err)
		}
		uploaded = append(uploaded, stored.ID)
		refs = append(refs, FileRef{
			FileID: stored.ID,
			Name:   stored.Name,
			Side:   doc.Side,
			Size:   stored.Size,
		})
	}

	if err := s.records.Upsert(ctx, backend.Record{
		UserID:    intake.UserID,
		SignupID:  intake.SignupID,
		Type:      backend.RecordIdentification,
		Payload:   intake.Identification,
		UpdatedAt: s.now(),
	}); err != nil {
		s.compensate(ctx, uploaded)
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "saving identification record", err)
	}

	filePayload, err := json.Marshal(refs)
	if err != nil {
		s.compensate(ctx, uploaded)
		return nil, dErrors.Wrap(dErrors.CodeInternal, "encoding file references", err)
	}
	if err := s.records.Upsert(ctx, backend.Record{
		UserID:    intake.UserID,
		SignupID:  intake.SignupID,
		Type:      backend.RecordIDFile,
		Payload:   filePayload,
		UpdatedAt: s.now(),
	}); err != nil {
		s.compensate(ctx, uploaded)
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "saving file record", err)
	}

	_ = s.auditor.Emit(ctx, audit.Event{
		Action:   audit.ActionDocumentRecorded,
		SignupID: intake.SignupID,
		UserID:   intake.UserID.String(),
	})

	return refs, nil
}

// compensate deletes files uploaded earlier in a failed chain. Deletion
// failures are logged, not returned: the original error is the one the
// caller needs.
func (s *Service) compensate(ctx context.Context, fileIDs []string) {
	for _, fileID := range fileIDs {
		if err := s.files.Delete(ctx, fileID); err != nil {
			s.logger.WarnContext(ctx, "orphaned upload could not be deleted",
				"file_id", fileID, "error", err)
		}
	}
}
