package reconcile

import (
	"context"
	"sync"

	"github.com/webspot/webspot/internal/logger"
	"github.com/webspot/webspot/internal/session"
	"github.com/webspot/webspot/internal/state"
	"github.com/webspot/webspot/internal/store"
)

// Reconciler keeps the in-memory list consistent with backend reality
// across session transitions. Every transition discards the current
// snapshot and re-fetches through the router, which by then targets the
// newly active backend.
//
// Fetches run asynchronously; a fetch that resolves after a newer one
// began is discarded by the list's generation guard, so rapid
// sign-in/sign-out sequences always end on the last mode's data.
type Reconciler struct {
	store  store.Store
	list   *state.List
	logger logger.Logger

	ctx context.Context
	wg  sync.WaitGroup
}

func New(st store.Store, list *state.List, log logger.Logger) *Reconciler {
	return &Reconciler{
		store:  st,
		list:   list,
		logger: log,
		ctx:    context.Background(),
	}
}

// Start subscribes to session transitions and performs the initial
// fetch for the mode active right now.
func (r *Reconciler) Start(ctx context.Context, sessions *session.Manager) {
	r.ctx = ctx
	sessions.OnChange(func(mode session.Mode) {
		r.logger.Info("session changed, reconciling",
			logger.String("mode", mode.String()))
		r.refetch()
	})
	r.refetch()
}

// Refresh forces one re-fetch cycle outside a session transition.
func (r *Reconciler) Refresh() {
	r.refetch()
}

// Stop supersedes any in-flight fetch and waits for it to drain.
func (r *Reconciler) Stop() {
	r.list.Begin()
	r.wg.Wait()
}

// Wait blocks until all issued fetches have resolved. Used in tests
// and shutdown paths.
func (r *Reconciler) Wait() {
	r.wg.Wait()
}

func (r *Reconciler) refetch() {
	r.list.Clear()
	gen := r.list.Begin()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		websites, err := r.store.List(r.ctx)
		if err != nil {
			r.logger.Warn("re-fetch failed, keeping empty list", logger.Error(err))
			websites = nil
		}

		if !r.list.Commit(gen, websites) {
			r.logger.Debug("discarded superseded fetch result")
		}
	}()
}
