//go:build integration

package backend_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"engage/internal/backend"
	id "engage/pkg/domain"
	"engage/pkg/testutil/containers"
)

type PostgresRecordsSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *backend.PostgresRecords
}

func TestPostgresRecordsSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresRecordsSuite))
}

func (s *PostgresRecordsSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = backend.NewPostgresRecords(s.postgres.DB)
}

func (s *PostgresRecordsSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "application_records"))
}

func (s *PostgresRecordsSuite) TestUpsertReplaces() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	signupID := id.NewSignupID(time.Now())

	record := backend.Record{
		UserID:    userID,
		SignupID:  signupID,
		Type:      backend.RecordProfile,
		Payload:   json.RawMessage(`{"firstName":"Jane"}`),
		UpdatedAt: time.Now(),
	}
	s.Require().NoError(s.store.Upsert(ctx, record))

	record.Payload = json.RawMessage(`{"firstName":"Janet"}`)
	s.Require().NoError(s.store.Upsert(ctx, record))

	records, err := s.store.ListBySignup(ctx, userID, signupID)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.JSONEq(`{"firstName":"Janet"}`, string(records[0].Payload))
}

func (s *PostgresRecordsSuite) TestConcurrentUpsertsSameKey() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	signupID := id.NewSignupID(time.Now())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.store.Upsert(ctx, backend.Record{
				UserID:    userID,
				SignupID:  signupID,
				Type:      backend.RecordApplication,
				Payload:   json.RawMessage(`{"v":1}`),
				UpdatedAt: time.Now(),
			})
		}()
	}
	wg.Wait()

	records, err := s.store.ListBySignup(ctx, userID, signupID)
	s.Require().NoError(err)
	s.Len(records, 1, "conflicting upserts must collapse to one row")
}
