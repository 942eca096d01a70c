package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engage/internal/backend"
	id "engage/pkg/domain"
	dErrors "engage/pkg/domain-errors"
	audit "engage/pkg/platform/audit"
	auditmem "engage/pkg/platform/audit/store/memory"
	"engage/pkg/platform/audit/publisher"
)

// failingRecords rejects upserts of the configured type.
type failingRecords struct {
	*backend.InMemoryRecords
	failType backend.RecordType
}

func (f *failingRecords) Upsert(ctx context.Context, record backend.Record) error {
	if record.Type == f.failType {
		return errors.New("database unavailable")
	}
	return f.InMemoryRecords.Upsert(ctx, record)
}

func testIntake(userID id.UserID) Intake {
	return Intake{
		UserID:         userID,
		SignupID:       id.NewSignupID(time.Now()),
		Identification: json.RawMessage(`{"idType":"passport","idNumber":"P1234567"}`),
		Documents: []Document{
			{Name: "front.jpg", ContentType: "image/jpeg", Side: "front", Data: []byte("front-bytes")},
			{Name: "back.jpg", ContentType: "image/jpeg", Side: "back", Data: []byte("back-bytes")},
		},
	}
}

func TestProcessStoresFilesAndRecords(t *testing.T) {
	files := backend.NewInMemoryFiles()
	records := backend.NewInMemoryRecords()
	auditStore := auditmem.NewInMemoryStore()
	svc := NewService(files, records, publisher.NewPublisher(auditStore), slog.Default())

	intake := testIntake(id.UserID(uuid.New()))
	refs, err := svc.Process(context.Background(), intake)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "front", refs[0].Side)
	assert.Equal(t, 2, files.Count())

	stored, err := records.ListBySignup(context.Background(), intake.UserID, intake.SignupID)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	kinds := map[backend.RecordType]bool{}
	for _, record := range stored {
		kinds[record.Type] = true
	}
	assert.True(t, kinds[backend.RecordIdentification])
	assert.True(t, kinds[backend.RecordIDFile])

	events, err := auditStore.ListBySignup(context.Background(), intake.SignupID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionDocumentRecorded, events[0].Action)
}

func TestProcessDeletesUploadsWhenIdentificationInsertFails(t *testing.T) {
	files := backend.NewInMemoryFiles()
	records := &failingRecords{backend.NewInMemoryRecords(), backend.RecordIdentification}
	svc := NewService(files, records, publisher.NewPublisher(auditmem.NewInMemoryStore()), slog.Default())

	_, err := svc.Process(context.Background(), testIntake(id.UserID(uuid.New())))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	assert.Equal(t, 0, files.Count(), "uploaded files must be compensated away")
}

func TestProcessDeletesUploadsWhenFileRecordInsertFails(t *testing.T) {
	files := backend.NewInMemoryFiles()
	records := &failingRecords{backend.NewInMemoryRecords(), backend.RecordIDFile}
	svc := NewService(files, records, publisher.NewPublisher(auditmem.NewInMemoryStore()), slog.Default())

	_, err := svc.Process(context.Background(), testIntake(id.UserID(uuid.New())))
	require.Error(t, err)
	assert.Equal(t, 0, files.Count())
}

func TestProcessValidation(t *testing.T) {
	svc := NewService(backend.NewInMemoryFiles(), backend.NewInMemoryRecords(),
		publisher.NewPublisher(auditmem.NewInMemoryStore()), slog.Default())

	_, err := svc.Process(context.Background(), Intake{})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	intake := testIntake(id.UserID(uuid.New()))
	intake.SignupID = ""
	_, err = svc.Process(context.Background(), intake)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	intake = testIntake(id.UserID(uuid.New()))
	intake.Documents = nil
	_, err = svc.Process(context.Background(), intake)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestProcessRetryReplacesRecords(t *testing.T) {
	files := backend.NewInMemoryFiles()
	records := backend.NewInMemoryRecords()
	svc := NewService(files, records, publisher.NewPublisher(auditmem.NewInMemoryStore()), slog.Default())

	intake := testIntake(id.UserID(uuid.New()))
	_, err := svc.Process(context.Background(), intake)
	require.NoError(t, err)
	_, err = svc.Process(context.Background(), intake)
	require.NoError(t, err)

	stored, err := records.ListBySignup(context.Background(), intake.UserID, intake.SignupID)
	require.NoError(t, err)
	assert.Len(t, stored, 2, "re-submission upserts, never duplicates")
}
