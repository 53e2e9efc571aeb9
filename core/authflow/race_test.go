package authflow_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localkaam/localkaam/core/authflow"
	"github.com/localkaam/localkaam/core/profile"
)

// gatedStore blocks the first Get until released, letting tests freeze a
// reconciliation mid-flight.
type gatedStore struct {
	profile.Store

	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedStore(inner profile.Store) *gatedStore {
	return &gatedStore{
		Store:   inner,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (s *gatedStore) Get(ctx context.Context, id uuid.UUID) (*profile.User, error) {
	s.once.Do(func() {
		close(s.entered)
		<-s.release
	})
	return s.Store.Get(ctx, id)
}

func TestFlow_StopDiscardsInFlightWork(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("reconciliation finishing after stop is discarded", func(t *testing.T) {
		t.Parallel()

		gateway := newFakeGateway()
		store := newGatedStore(profile.NewMemoryStore())

		flow, err := authflow.New(gateway, store)
		require.NoError(t, err)
		require.NoError(t, flow.Start(ctx))

		ch, cancel := flow.Subscribe()
		defer cancel()
		drain(ch)

		gateway.emit(authflow.Event{
			Type:    authflow.EventSignedIn,
			Session: &authflow.Session{UserID: uuid.New(), Email: "late@example.com"},
		})

		// Wait until the event loop is inside the store, then tear down.
		select {
		case <-store.entered:
		case <-time.After(waitFor):
			t.Fatal("reconciliation never reached the store")
		}
		flow.Stop()
		close(store.release)

		// The stale result must never surface as a published snapshot.
		select {
		case snap, ok := <-ch:
			if ok {
				t.Fatalf("unexpected snapshot after stop: %+v", snap)
			}
		case <-time.After(100 * time.Millisecond):
		}
		assert.Nil(t, flow.User())
	})

	t.Run("events arriving after stop are ignored", func(t *testing.T) {
		t.Parallel()

		gateway := newFakeGateway()
		store := profile.NewMemoryStore()

		flow, err := authflow.New(gateway, store)
		require.NoError(t, err)
		require.NoError(t, flow.Start(ctx))
		flow.Stop()

		id := uuid.New()
		gateway.emit(authflow.Event{
			Type:    authflow.EventSignedIn,
			Session: &authflow.Session{UserID: id, Email: "ghost@example.com"},
		})

		time.Sleep(50 * time.Millisecond)
		assert.Nil(t, flow.User())
		_, err = store.Get(ctx, id)
		assert.ErrorIs(t, err, profile.ErrNotFound)
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		t.Parallel()

		flow, err := authflow.New(newFakeGateway(), profile.NewMemoryStore())
		require.NoError(t, err)
		require.NoError(t, flow.Start(ctx))

		flow.Stop()
		flow.Stop()
	})

	t.Run("restart resumes event handling with a fresh generation", func(t *testing.T) {
		t.Parallel()

		gateway := newFakeGateway()
		flow, err := authflow.New(gateway, profile.NewMemoryStore())
		require.NoError(t, err)
		t.Cleanup(flow.Stop)

		require.NoError(t, flow.Start(ctx))
		flow.Stop()
		require.NoError(t, flow.Start(ctx))

		id := uuid.New()
		gateway.emit(authflow.Event{
			Type:    authflow.EventSignedIn,
			Session: &authflow.Session{UserID: id, Email: "again@example.com"},
		})

		require.Eventually(t, func() bool {
			user := flow.User()
			return user != nil && user.ID == id
		}, waitFor, tick)
	})
}

// drain empties buffered snapshots from a subscription channel.
func drain(ch <-chan authflow.Snapshot) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
