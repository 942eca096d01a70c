//go:build integration

package statestore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"engage/internal/onboarding/statestore"
	"engage/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *statestore.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = statestore.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "wizard_state"))
}

func (s *PostgresStoreSuite) TestReadMissing() {
	value, ok, err := s.store.Read(context.Background(), "client-1", "step")
	s.Require().NoError(err)
	s.False(ok)
	s.Nil(value)
}

func (s *PostgresStoreSuite) TestWriteReadRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.store.Write(ctx, "client-1", "step", []byte("4")))
	s.Require().NoError(s.store.Write(ctx, "client-1", "form_data", []byte(`{"basicInfo":{}}`)))

	value, ok, err := s.store.Read(ctx, "client-1", "step")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal([]byte("4"), value)
}

func (s *PostgresStoreSuite) TestWriteUpserts() {
	ctx := context.Background()
	s.Require().NoError(s.store.Write(ctx, "client-1", "step", []byte("4")))
	s.Require().NoError(s.store.Write(ctx, "client-1", "step", []byte("5")))

	value, ok, err := s.store.Read(ctx, "client-1", "step")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal([]byte("5"), value)
}

func (s *PostgresStoreSuite) TestClearScopedToClient() {
	ctx := context.Background()
	s.Require().NoError(s.store.Write(ctx, "client-1", "step", []byte("4")))
	s.Require().NoError(s.store.Write(ctx, "client-2", "step", []byte("7")))

	s.Require().NoError(s.store.Clear(ctx, "client-1"))

	_, ok, err := s.store.Read(ctx, "client-1", "step")
	s.Require().NoError(err)
	s.False(ok)

	value, ok, err := s.store.Read(ctx, "client-2", "step")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal([]byte("7"), value)
}
