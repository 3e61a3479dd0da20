package store

import (
	"context"
	"errors"

	"github.com/webspot/webspot/internal/domain"
)

// Store is the uniform CRUD contract over a website backend.
// Both the guest-local store and the remote authenticated store
// implement it, so call sites never branch on session mode.
type Store interface {
	// List returns all records ordered by CreatedAt ascending.
	// Backend read failures degrade to an empty slice (fail open).
	List(ctx context.Context) ([]*domain.Website, error)

	// Add persists a new record. The backend assigns ID and CreatedAt
	// and defaults IsFavorite to false. On rejection the record is nil.
	Add(ctx context.Context, nw domain.NewWebsite) (*domain.Website, error)

	// Remove deletes the record with the given id.
	// Removing an unknown id is a no-op.
	Remove(ctx context.Context, id string) error

	// Update merges the patch into the record with the given id.
	// Unknown ids and empty patches are no-ops.
	Update(ctx context.Context, id string, patch domain.Patch) error
}

// ErrNotAuthenticated is returned by the remote store when a write is
// attempted without an authenticated identity.
var ErrNotAuthenticated = errors.New("not authenticated")
