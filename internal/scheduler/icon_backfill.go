package scheduler

import (
	"context"
	"time"

	"github.com/webspot/webspot/internal/domain"
	"github.com/webspot/webspot/internal/logger"
	"github.com/webspot/webspot/internal/store/remote"
)

// IconBackfill periodically fills in missing icon URLs on stored
// records, deriving them from each record's website URL. Best effort:
// failures are logged and retried on the next run.
type IconBackfill struct {
	store    *remote.Store
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

func NewIconBackfill(store *remote.Store, log logger.Logger, interval time.Duration) *IconBackfill {
	return &IconBackfill{
		store:    store,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs one backfill immediately, then on every interval.
func (b *IconBackfill) Start(ctx context.Context) error {
	if err := b.Run(ctx); err != nil {
		b.logger.Warn("initial icon backfill failed", logger.Error(err))
	}

	ticker := time.NewTicker(b.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := b.Run(ctx); err != nil {
					b.logger.Error("icon backfill failed", logger.Error(err))
				}
			case <-b.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the backfill job.
func (b *IconBackfill) Stop() {
	close(b.stopCh)
}

// Run scans every user's records and persists derived icons for those
// missing one.
func (b *IconBackfill) Run(ctx context.Context) error {
	userIDs, err := b.store.AllUserIDs(ctx)
	if err != nil {
		return err
	}

	filled := 0
	for _, userID := range userIDs {
		websites, err := b.store.ListUser(ctx, userID)
		if err != nil {
			b.logger.Warn("failed to list websites for backfill",
				logger.String("user_id", userID),
				logger.Error(err))
			continue
		}

		changed := b.fillIcons(websites)
		if len(changed) == 0 {
			continue
		}

		if err := b.store.SaveMany(ctx, userID, changed); err != nil {
			b.logger.Warn("failed to save backfilled icons",
				logger.String("user_id", userID),
				logger.Error(err))
			continue
		}
		filled += len(changed)
	}

	if filled > 0 {
		b.logger.Info("icon backfill completed", logger.Int("icons_filled", filled))
	} else {
		b.logger.Debug("no icons to backfill")
	}
	return nil
}

// fillIcons returns the records whose icon was derived, mutated in place.
func (b *IconBackfill) fillIcons(websites []*domain.Website) []*domain.Website {
	var changed []*domain.Website
	for _, w := range websites {
		if w.IconURL != "" {
			continue
		}
		w.IconURL = domain.ResolveFavicon(w.URL)
		changed = append(changed, w)
	}
	return changed
}
