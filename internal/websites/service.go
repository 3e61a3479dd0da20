package websites

import (
	"context"

	"github.com/webspot/webspot/internal/domain"
	"github.com/webspot/webspot/internal/logger"
	"github.com/webspot/webspot/internal/notify"
	"github.com/webspot/webspot/internal/state"
	"github.com/webspot/webspot/internal/store"
)

const (
	noticeInvalidURL = "Please enter a valid URL."
	noticeAdded      = "Website added."
	noticeRemoved    = "Website removed."
)

// Service is the call site the UI layer talks to. It validates input,
// routes CRUD through the storage router and merges results into the
// in-memory list optimistically: adds after backend confirmation (the
// backend assigns the id), removes and updates immediately without
// waiting for it.
type Service struct {
	store    store.Store
	list     *state.List
	notifier notify.Notifier
	logger   logger.Logger
}

func NewService(st store.Store, list *state.List, notifier notify.Notifier, log logger.Logger) *Service {
	return &Service{
		store:    st,
		list:     list,
		notifier: notifier,
		logger:   log,
	}
}

// List returns the current in-memory snapshot.
func (s *Service) List() []*domain.Website {
	return s.list.Snapshot()
}

// Add validates the URL, fills in the favicon when none was supplied
// and persists through the router. The record enters the in-memory
// list only once the backend confirmed it and assigned its id.
func (s *Service) Add(ctx context.Context, nw domain.NewWebsite) (*domain.Website, error) {
	if err := domain.ValidateURL(nw.URL); err != nil {
		s.notifier.Error(noticeInvalidURL)
		return nil, err
	}
	if nw.IconURL == "" {
		nw.IconURL = domain.ResolveFavicon(nw.URL)
	}

	website, err := s.store.Add(ctx, nw)
	if err != nil || website == nil {
		return nil, err
	}

	s.list.Apply(state.Event{Kind: state.Added, Website: website})
	s.notifier.Success(noticeAdded)
	return website, nil
}

// Remove applies the optimistic removal immediately, then issues the
// backend delete. A failed delete is surfaced by the backend as a
// notice but the removal is not rolled back.
func (s *Service) Remove(ctx context.Context, id string) error {
	s.list.Apply(state.Event{Kind: state.Removed, ID: id})

	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}
	s.notifier.Success(noticeRemoved)
	return nil
}

// Update validates any URL change, applies the optimistic merge
// immediately and issues the backend patch. Empty patches are a no-op.
func (s *Service) Update(ctx context.Context, id string, patch domain.Patch) error {
	if patch.Empty() {
		return nil
	}
	if patch.URL != nil {
		if err := domain.ValidateURL(*patch.URL); err != nil {
			s.notifier.Error(noticeInvalidURL)
			return err
		}
	}

	s.list.Apply(state.Event{Kind: state.Updated, ID: id, Patch: patch})
	return s.store.Update(ctx, id, patch)
}

// ToggleFavorite flips the favorite flag of a record.
func (s *Service) ToggleFavorite(ctx context.Context, id string) error {
	var current bool
	for _, w := range s.list.Snapshot() {
		if w.ID == id {
			current = w.IsFavorite
			break
		}
	}

	next := !current
	return s.Update(ctx, id, domain.Patch{IsFavorite: &next})
}
