//go:build integration

package statestore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"engage/internal/onboarding/statestore"
	"engage/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *statestore.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = statestore.NewRedisStore(s.redis.Client, statestore.WithTTL(time.Hour))
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTripAgainstServer() {
	ctx := context.Background()
	s.Require().NoError(s.store.Write(ctx, "client-1", "step", []byte("9")))

	value, ok, err := s.store.Read(ctx, "client-1", "step")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal([]byte("9"), value)

	s.Require().NoError(s.store.Clear(ctx, "client-1"))
	_, ok, err = s.store.Read(ctx, "client-1", "step")
	s.Require().NoError(err)
	s.False(ok)
}
