package integration

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webspot/webspot/internal/domain"
	"github.com/webspot/webspot/internal/kv"
	"github.com/webspot/webspot/internal/logger"
	"github.com/webspot/webspot/internal/notify"
	"github.com/webspot/webspot/internal/reconcile"
	"github.com/webspot/webspot/internal/session"
	"github.com/webspot/webspot/internal/state"
	"github.com/webspot/webspot/internal/store"
	"github.com/webspot/webspot/internal/store/guest"
	"github.com/webspot/webspot/internal/websites"
)

// unauthRemote stands in for the remote backend when nobody is signed
// in: reads come back empty, writes are rejected.
type unauthRemote struct {
	notifier notify.Notifier
}

func (u *unauthRemote) List(context.Context) ([]*domain.Website, error) {
	return []*domain.Website{}, nil
}

func (u *unauthRemote) Add(context.Context, domain.NewWebsite) (*domain.Website, error) {
	u.notifier.Error("You need to be logged in to add websites.")
	return nil, store.ErrNotAuthenticated
}

func (u *unauthRemote) Remove(context.Context, string) error { return nil }

func (u *unauthRemote) Update(context.Context, string, domain.Patch) error { return nil }

type fixture struct {
	kv         kv.Store
	sessions   *session.Manager
	list       *state.List
	service    *websites.Service
	reconciler *reconcile.Reconciler
	recorder   *notify.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	kvs := kv.NewMemoryStore()
	recorder := notify.NewRecorder()
	log := logger.Nop()

	guestStore := guest.NewStore(kvs, log)
	remoteStore := &unauthRemote{notifier: recorder}
	router := store.NewRouter(session.GuestUserKey, kvs, guestStore, remoteStore, log)

	list := state.NewList()
	service := websites.NewService(router, list, recorder, log)
	sessions := session.NewManager(nil, kvs, log)
	reconciler := reconcile.New(router, list, log)

	t.Cleanup(reconciler.Stop)

	return &fixture{
		kv:         kvs,
		sessions:   sessions,
		list:       list,
		service:    service,
		reconciler: reconciler,
		recorder:   recorder,
	}
}

func waitForLen(t *testing.T, list *state.List, want int) {
	t.Helper()
	require.Eventually(t, func() bool { return list.Len() == want },
		time.Second, time.Millisecond)
}

func TestGuestSessionFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.reconciler.Start(ctx, f.sessions)
	f.reconciler.Wait()

	// Nobody is signed in: adds go to the remote backend and bounce.
	_, err := f.service.Add(ctx, domain.NewWebsite{Name: "Docs", URL: "https://go.dev"})
	require.ErrorIs(t, err, store.ErrNotAuthenticated)
	assert.Contains(t, f.recorder.Errors(), "You need to be logged in to add websites.")
	assert.Equal(t, 0, f.list.Len())

	// Guest sign-in switches every call to the local backend.
	_, err = f.sessions.SignInAsGuest(ctx)
	require.NoError(t, err)
	f.reconciler.Wait()

	w, err := f.service.Add(ctx, domain.NewWebsite{Name: "Docs", URL: "https://go.dev"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(w.ID, domain.GuestIDPrefix))
	assert.NotEmpty(t, w.IconURL)
	assert.Equal(t, 1, f.list.Len())

	// Guest records survive a restart of the session layer.
	f.sessions.Resume(ctx)
	f.reconciler.Refresh()
	waitForLen(t, f.list, 1)

	require.NoError(t, f.service.ToggleFavorite(ctx, w.ID))
	snap := f.list.Snapshot()
	require.Len(t, snap, 1)
	assert.True(t, snap[0].IsFavorite)

	// Sign-out discards the guest data instead of migrating it.
	require.NoError(t, f.sessions.SignOut(ctx))
	f.reconciler.Wait()
	waitForLen(t, f.list, 0)

	_, ok, err := f.kv.Get(ctx, guest.WebsitesKey)
	require.NoError(t, err)
	assert.False(t, ok, "guest records should be gone after sign-out")

	_, ok, err = f.kv.Get(ctx, session.GuestUserKey)
	require.NoError(t, err)
	assert.False(t, ok, "guest marker should be gone after sign-out")
}

func TestGuestRemoveIsOptimistic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.reconciler.Start(ctx, f.sessions)

	_, err := f.sessions.SignInAsGuest(ctx)
	require.NoError(t, err)
	f.reconciler.Wait()

	w, err := f.service.Add(ctx, domain.NewWebsite{Name: "News", URL: "https://example.org"})
	require.NoError(t, err)
	waitForLen(t, f.list, 1)

	require.NoError(t, f.service.Remove(ctx, w.ID))
	assert.Equal(t, 0, f.list.Len())

	// The backend agrees once refetched.
	f.reconciler.Refresh()
	f.reconciler.Wait()
	assert.Equal(t, 0, f.list.Len())
}
