package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/webspot/webspot/internal/domain"
	"github.com/webspot/webspot/internal/logger"
	"github.com/webspot/webspot/internal/notify"
	"github.com/webspot/webspot/internal/session"
	"github.com/webspot/webspot/internal/store"
)

// User-visible notice texts for remote store outcomes.
const (
	noticeLoginRequired  = "You need to be logged in to add websites."
	noticeSessionExpired = "Session expired, please log in again."
	noticeAddFailed      = "Failed to add website."
	noticeRemoveFailed   = "Failed to remove website."
	noticeUpdateFailed   = "Failed to update website."
)

// IdentityProvider resolves the identity the store is scoped to.
// Scoping happens through the per-user keyspace; the store never
// filters records client-side beyond that.
type IdentityProvider interface {
	CurrentIdentity(ctx context.Context) (*session.Identity, error)
}

// Store is the remote authenticated website backend.
type Store struct {
	client   *goredis.Client
	identity IdentityProvider
	notifier notify.Notifier
	logger   logger.Logger

	// now and newID are swappable for tests.
	now   func() time.Time
	newID func() string
}

func NewStore(client *goredis.Client, identity IdentityProvider, notifier notify.Notifier, log logger.Logger) *Store {
	return &Store{
		client:   client,
		identity: identity,
		notifier: notifier,
		logger:   log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// List returns the current user's records ordered by CreatedAt
// ascending. Read failures degrade to an empty slice; an expired
// session additionally surfaces a distinct notice.
func (s *Store) List(ctx context.Context) ([]*domain.Website, error) {
	identity, err := s.identity.CurrentIdentity(ctx)
	if err != nil {
		if errors.Is(err, session.ErrSessionExpired) {
			s.notifier.Error(noticeSessionExpired)
		}
		s.logger.Warn("failed to resolve identity for list", logger.Error(err))
		return []*domain.Website{}, nil
	}
	if identity == nil {
		return []*domain.Website{}, nil
	}

	ids, err := s.client.SMembers(ctx, AllWebsitesKey(identity.ID)).Result()
	if err != nil {
		s.logger.Warn("failed to list websites, returning empty",
			logger.String("user_id", identity.ID),
			logger.Error(err))
		return []*domain.Website{}, nil
	}

	websites := make([]*domain.Website, 0, len(ids))
	for _, id := range ids {
		website, err := s.get(ctx, identity.ID, id)
		if err != nil {
			// Skip records that couldn't be retrieved.
			continue
		}
		websites = append(websites, website)
	}

	sort.Slice(websites, func(i, j int) bool {
		return websites[i].CreatedAt < websites[j].CreatedAt
	})
	return websites, nil
}

// Add persists a new record under the current user. Without an
// authenticated identity no record is created and the caller gets nil.
func (s *Store) Add(ctx context.Context, nw domain.NewWebsite) (*domain.Website, error) {
	identity, err := s.identity.CurrentIdentity(ctx)
	if err != nil || identity == nil {
		s.notifier.Error(noticeLoginRequired)
		return nil, store.ErrNotAuthenticated
	}

	website := &domain.Website{
		ID:          s.newID(),
		Name:        nw.Name,
		URL:         nw.URL,
		IconURL:     nw.IconURL,
		Description: nw.Description,
		IsFavorite:  false,
		CreatedAt:   s.now().UnixMilli(),
	}

	if err := s.save(ctx, identity.ID, website); err != nil {
		s.logger.Error("failed to add website",
			logger.String("user_id", identity.ID),
			logger.Error(err))
		s.notifier.Error(noticeAddFailed)
		return nil, err
	}
	return website, nil
}

// Remove deletes a record by id. Backend failures are logged and
// surfaced as a notice; the caller's optimistic removal is not rolled
// back.
func (s *Store) Remove(ctx context.Context, id string) error {
	identity, err := s.identity.CurrentIdentity(ctx)
	if err != nil || identity == nil {
		s.notifier.Error(noticeRemoveFailed)
		return nil
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, WebsiteKey(identity.ID, id))
	pipe.SRem(ctx, AllWebsitesKey(identity.ID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error("failed to remove website",
			logger.String("user_id", identity.ID),
			logger.String("website_id", id),
			logger.Error(err))
		s.notifier.Error(noticeRemoveFailed)
	}
	return nil
}

// Update writes the mutable fields of the patch into the stored record.
// Unknown ids and empty patches are no-ops; backend failures are logged
// and surfaced as a notice without rollback.
func (s *Store) Update(ctx context.Context, id string, patch domain.Patch) error {
	if patch.Empty() {
		return nil
	}

	identity, err := s.identity.CurrentIdentity(ctx)
	if err != nil || identity == nil {
		s.notifier.Error(noticeUpdateFailed)
		return nil
	}

	website, err := s.get(ctx, identity.ID, id)
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			s.logger.Error("failed to load website for update",
				logger.String("user_id", identity.ID),
				logger.String("website_id", id),
				logger.Error(err))
			s.notifier.Error(noticeUpdateFailed)
		}
		return nil
	}

	patch.Apply(website)

	if err := s.save(ctx, identity.ID, website); err != nil {
		s.logger.Error("failed to update website",
			logger.String("user_id", identity.ID),
			logger.String("website_id", id),
			logger.Error(err))
		s.notifier.Error(noticeUpdateFailed)
	}
	return nil
}

// SaveMany stores records for a user in one pipeline. Used by the seed
// importer and the icon backfill job.
func (s *Store) SaveMany(ctx context.Context, userID string, websites []*domain.Website) error {
	pipe := s.client.Pipeline()
	for _, website := range websites {
		data, err := json.Marshal(website)
		if err != nil {
			return fmt.Errorf("failed to marshal website %s: %w", website.ID, err)
		}
		pipe.Set(ctx, WebsiteKey(userID, website.ID), data, 0)
		pipe.SAdd(ctx, AllWebsitesKey(userID), website.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save websites: %w", err)
	}
	return nil
}

// ListUser returns a user's records without going through the session,
// for background jobs that operate on a named user.
func (s *Store) ListUser(ctx context.Context, userID string) ([]*domain.Website, error) {
	ids, err := s.client.SMembers(ctx, AllWebsitesKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list website ids: %w", err)
	}

	websites := make([]*domain.Website, 0, len(ids))
	for _, id := range ids {
		website, err := s.get(ctx, userID, id)
		if err != nil {
			continue
		}
		websites = append(websites, website)
	}
	sort.Slice(websites, func(i, j int) bool {
		return websites[i].CreatedAt < websites[j].CreatedAt
	})
	return websites, nil
}

// AllUserIDs scans the keyspace for every user with stored records.
func (s *Store) AllUserIDs(ctx context.Context) ([]string, error) {
	var userIDs []string
	iter := s.client.Scan(ctx, 0, KeyPrefixWebsites+"*:all", 0).Iterator()
	for iter.Next(ctx) {
		if userID, ok := UserIDFromAllKey(iter.Val()); ok {
			userIDs = append(userIDs, userID)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan website keyspaces: %w", err)
	}
	return userIDs, nil
}

func (s *Store) get(ctx context.Context, userID, id string) (*domain.Website, error) {
	data, err := s.client.Get(ctx, WebsiteKey(userID, id)).Bytes()
	if err != nil {
		return nil, err
	}

	var website domain.Website
	if err := json.Unmarshal(data, &website); err != nil {
		return nil, fmt.Errorf("failed to unmarshal website: %w", err)
	}
	return &website, nil
}

func (s *Store) save(ctx context.Context, userID string, website *domain.Website) error {
	data, err := json.Marshal(website)
	if err != nil {
		return fmt.Errorf("failed to marshal website: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, WebsiteKey(userID, website.ID), data, 0)
	pipe.SAdd(ctx, AllWebsitesKey(userID), website.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save website: %w", err)
	}
	return nil
}
