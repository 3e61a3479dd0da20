package store

import (
	"context"

	"github.com/webspot/webspot/internal/domain"
	"github.com/webspot/webspot/internal/kv"
	"github.com/webspot/webspot/internal/logger"
)

// Router is the single storage entry point used by callers. Each call
// re-reads the guest marker and dispatches to the guest or remote
// backend, so a mode transition takes effect on the very next
// operation without any restart or cache flush.
type Router struct {
	guestMarkerKey string
	kv             kv.Store
	guest          Store
	remote         Store
	logger         logger.Logger
}

func NewRouter(guestMarkerKey string, kvs kv.Store, guestStore, remoteStore Store, log logger.Logger) *Router {
	return &Router{
		guestMarkerKey: guestMarkerKey,
		kv:             kvs,
		guest:          guestStore,
		remote:         remoteStore,
		logger:         log,
	}
}

// backend picks the active store. Never cached.
func (r *Router) backend(ctx context.Context) Store {
	_, ok, err := r.kv.Get(ctx, r.guestMarkerKey)
	if err != nil {
		r.logger.Warn("failed to read guest marker, routing to remote",
			logger.Error(err))
		return r.remote
	}
	if ok {
		return r.guest
	}
	return r.remote
}

func (r *Router) List(ctx context.Context) ([]*domain.Website, error) {
	return r.backend(ctx).List(ctx)
}

func (r *Router) Add(ctx context.Context, nw domain.NewWebsite) (*domain.Website, error) {
	return r.backend(ctx).Add(ctx, nw)
}

func (r *Router) Remove(ctx context.Context, id string) error {
	return r.backend(ctx).Remove(ctx, id)
}

func (r *Router) Update(ctx context.Context, id string, patch domain.Patch) error {
	return r.backend(ctx).Update(ctx, id, patch)
}
