package publisher_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	id "engage/pkg/domain"
	audit "engage/pkg/platform/audit"
	"engage/pkg/platform/audit/publisher"
	auditmem "engage/pkg/platform/audit/store/memory"
)

func TestEmitSync(t *testing.T) {
	store := auditmem.NewInMemoryStore()
	pub := publisher.NewPublisher(store)
	defer pub.Close()

	signupID := id.SignupID("su-1700000000000-abcd1234")
	err := pub.Emit(context.Background(), audit.Event{
		Action:   audit.ActionApplicationStarted,
		SignupID: signupID,
	})
	require.NoError(t, err)

	events, err := store.ListBySignup(context.Background(), signupID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.NotEmpty(t, events[0].ID)
	require.False(t, events[0].Timestamp.IsZero())
	require.Equal(t, audit.ActionApplicationStarted, events[0].Action)
}

func TestEmitAsyncDrainsOnClose(t *testing.T) {
	store := auditmem.NewInMemoryStore()
	pub := publisher.NewPublisher(store, publisher.WithAsyncBuffer(16))

	signupID := id.SignupID("su-1700000000001-beef5678")
	steps := []string{"gettingReady", "basicInfo", "emailVerification", "address", "review"}
	for _, step := range steps {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{
			Action:   audit.ActionStepSubmitted,
			SignupID: signupID,
			Step:     step,
		}))
	}
	pub.Close()

	events, err := store.ListBySignup(context.Background(), signupID)
	require.NoError(t, err)
	require.Len(t, events, 5)
}

func TestEmitPreservesExplicitTimestamp(t *testing.T) {
	store := auditmem.NewInMemoryStore()
	pub := publisher.NewPublisher(store)
	defer pub.Close()

	signupID := id.SignupID("su-1700000000002-cafe0001")
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Emit(context.Background(), audit.Event{
		Action:    audit.ActionApplicationSubmitted,
		SignupID:  signupID,
		Timestamp: ts,
	}))

	events, err := pub.List(context.Background(), signupID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.True(t, events[0].Timestamp.Equal(ts))
}

func TestZeroBufferStaysSynchronous(t *testing.T) {
	store := auditmem.NewInMemoryStore()
	pub := publisher.NewPublisher(store, publisher.WithAsyncBuffer(0))
	defer pub.Close()

	// With no drain goroutine an unbuffered inbox would drop this event;
	// synchronous mode appends it directly.
	signupID := id.SignupID("su-1700000000003-dead0002")
	require.NoError(t, pub.Emit(context.Background(), audit.Event{
		Action:   audit.ActionApplicationStarted,
		SignupID: signupID,
	}))

	events, err := store.ListBySignup(context.Background(), signupID)
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestCloseIdempotent(t *testing.T) {
	pub := publisher.NewPublisher(auditmem.NewInMemoryStore(), publisher.WithAsyncBuffer(4))
	pub.Close()
	pub.Close()
}
