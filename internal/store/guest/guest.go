package guest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/webspot/webspot/internal/domain"
	"github.com/webspot/webspot/internal/kv"
	"github.com/webspot/webspot/internal/logger"
)

// WebsitesKey is the key-value slot holding the guest website
// collection as a JSON array. Distinct from any authenticated-mode key.
const WebsitesKey = "webspot:guest:websites"

// Store persists websites for the guest session in the local key-value
// store. It satisfies the same contract as the remote store so callers
// can treat both backends uniformly.
type Store struct {
	kv     kv.Store
	logger logger.Logger

	// now and newID are swappable for tests.
	now   func() time.Time
	newID func() string
}

func NewStore(kvs kv.Store, log logger.Logger) *Store {
	return &Store{
		kv:     kvs,
		logger: log,
		now:    time.Now,
		newID:  domain.GuestID,
	}
}

// List reads the stored collection. An absent or malformed slot yields
// an empty slice, never an error to the caller.
func (s *Store) List(ctx context.Context) ([]*domain.Website, error) {
	raw, ok, err := s.kv.Get(ctx, WebsitesKey)
	if err != nil {
		s.logger.Warn("failed to read guest websites, returning empty",
			logger.Error(err))
		return []*domain.Website{}, nil
	}
	if !ok || raw == "" {
		return []*domain.Website{}, nil
	}

	var websites []*domain.Website
	if err := json.Unmarshal([]byte(raw), &websites); err != nil {
		s.logger.Warn("malformed guest website collection, returning empty",
			logger.Error(err))
		return []*domain.Website{}, nil
	}
	return websites, nil
}

// Add synthesizes id and creation time locally, appends the record to
// the stored collection and persists it.
func (s *Store) Add(ctx context.Context, nw domain.NewWebsite) (*domain.Website, error) {
	websites, _ := s.List(ctx)

	website := &domain.Website{
		ID:          s.newID(),
		Name:        nw.Name,
		URL:         nw.URL,
		IconURL:     nw.IconURL,
		Description: nw.Description,
		IsFavorite:  false,
		CreatedAt:   s.now().UnixMilli(),
	}

	websites = append(websites, website)
	if err := s.save(ctx, websites); err != nil {
		return nil, err
	}
	return website, nil
}

// Remove filters the record out of the collection. Unknown ids are a
// no-op, not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	websites, _ := s.List(ctx)

	kept := websites[:0]
	for _, w := range websites {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	if len(kept) == len(websites) {
		return nil
	}
	return s.save(ctx, kept)
}

// Update merges the patch into the matching record and persists.
// Unknown ids and empty patches are no-ops.
func (s *Store) Update(ctx context.Context, id string, patch domain.Patch) error {
	if patch.Empty() {
		return nil
	}

	websites, _ := s.List(ctx)
	for _, w := range websites {
		if w.ID == id {
			patch.Apply(w)
			return s.save(ctx, websites)
		}
	}
	return nil
}

// Clear drops the whole guest collection. Called on guest sign-out:
// guest data is deliberately discarded, never migrated.
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Remove(ctx, WebsitesKey)
}

func (s *Store) save(ctx context.Context, websites []*domain.Website) error {
	data, err := json.Marshal(websites)
	if err != nil {
		return fmt.Errorf("failed to marshal guest websites: %w", err)
	}
	if err := s.kv.Set(ctx, WebsitesKey, string(data)); err != nil {
		return fmt.Errorf("failed to save guest websites: %w", err)
	}
	return nil
}
