package reconcile

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webspot/webspot/internal/domain"
	"github.com/webspot/webspot/internal/kv"
	"github.com/webspot/webspot/internal/logger"
	"github.com/webspot/webspot/internal/session"
	"github.com/webspot/webspot/internal/state"
)

// blockingStore lets the test decide when each List call resolves, to
// simulate backend latency.
type blockingStore struct {
	mu      sync.Mutex
	pending []chan []*domain.Website
}

func (b *blockingStore) List(context.Context) ([]*domain.Website, error) {
	ch := make(chan []*domain.Website, 1)
	b.mu.Lock()
	b.pending = append(b.pending, ch)
	b.mu.Unlock()
	return <-ch, nil
}

func (b *blockingStore) Add(context.Context, domain.NewWebsite) (*domain.Website, error) {
	return nil, nil
}
func (b *blockingStore) Remove(context.Context, string) error { return nil }

func (b *blockingStore) Update(context.Context, string, domain.Patch) error { return nil }

func (b *blockingStore) inFlight() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func (b *blockingStore) resolve(i int, websites []*domain.Website) {
	b.mu.Lock()
	ch := b.pending[i]
	b.mu.Unlock()
	ch <- websites
}

func TestRefetchCommits(t *testing.T) {
	store := &blockingStore{}
	list := state.NewList()
	r := New(store, list, logger.Nop())

	r.Refresh()
	require.Eventually(t, func() bool { return store.inFlight() == 1 }, time.Second, time.Millisecond)

	store.resolve(0, []*domain.Website{{ID: "a"}})
	r.Wait()

	snap := list.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "a", snap[0].ID)
}

// Two rapid mode changes before either fetch resolves: the earlier
// in-flight fetch's result must be discarded when it lands late.
func TestStaleFetchDiscarded(t *testing.T) {
	store := &blockingStore{}
	list := state.NewList()
	r := New(store, list, logger.Nop())

	r.Refresh()
	r.Refresh()
	require.Eventually(t, func() bool { return store.inFlight() == 2 }, time.Second, time.Millisecond)

	// The newer fetch lands first.
	store.resolve(1, []*domain.Website{{ID: "new-mode"}})
	require.Eventually(t, func() bool { return list.Len() == 1 }, time.Second, time.Millisecond)

	// The older fetch resolves afterwards and must not overwrite.
	store.resolve(0, []*domain.Website{{ID: "old-mode"}})
	r.Wait()

	snap := list.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "new-mode", snap[0].ID)
}

func TestRefetchClearsListImmediately(t *testing.T) {
	store := &blockingStore{}
	list := state.NewList()
	list.Apply(state.Event{Kind: state.Added, Website: &domain.Website{ID: "stale"}})
	r := New(store, list, logger.Nop())

	r.Refresh()

	// Cleared before the fetch resolves.
	assert.Equal(t, 0, list.Len())

	require.Eventually(t, func() bool { return store.inFlight() == 1 }, time.Second, time.Millisecond)
	store.resolve(0, nil)
	r.Wait()
}

func TestSessionTransitionTriggersRefetch(t *testing.T) {
	store := &blockingStore{}
	list := state.NewList()
	r := New(store, list, logger.Nop())

	sessions := session.NewManager(nil, kv.NewMemoryStore(), logger.Nop())
	r.Start(context.Background(), sessions)

	// Initial fetch for the current mode.
	require.Eventually(t, func() bool { return store.inFlight() == 1 }, time.Second, time.Millisecond)
	store.resolve(0, nil)

	_, err := sessions.SignInAsGuest(context.Background())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return store.inFlight() == 2 }, time.Second, time.Millisecond)
	store.resolve(1, []*domain.Website{{ID: "guest_1_000001"}})
	r.Wait()

	snap := list.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "guest_1_000001", snap[0].ID)
}
