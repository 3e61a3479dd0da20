package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/webspot/webspot/internal/logger"
	"github.com/webspot/webspot/internal/session"
	"github.com/webspot/webspot/internal/sources/seedfile"
	"github.com/webspot/webspot/internal/store/remote"
)

// SeedReloader periodically re-imports the seed file into the remote
// store for the configured account. A manual trigger channel allows
// on-demand imports via the API.
type SeedReloader struct {
	loader        *seedfile.Loader
	mapper        *seedfile.Mapper
	store         *remote.Store
	auth          *session.Auth
	userEmail     string
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

func NewSeedReloader(
	seedFile string,
	store *remote.Store,
	auth *session.Auth,
	userEmail string,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *SeedReloader {
	return &SeedReloader{
		loader:        seedfile.NewLoader(seedFile),
		mapper:        seedfile.NewMapper(),
		store:         store,
		auth:          auth,
		userEmail:     userEmail,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start imports once, then keeps re-importing on the interval or the
// manual trigger.
func (sr *SeedReloader) Start(ctx context.Context) error {
	if err := sr.Reload(ctx); err != nil {
		return fmt.Errorf("initial seed import failed: %w", err)
	}

	ticker := time.NewTicker(sr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := sr.Reload(ctx); err != nil {
					sr.logger.Error("failed to re-import seed file", logger.Error(err))
				}
			case <-sr.manualTrigger:
				sr.logger.Info("manual seed import triggered")
				if err := sr.Reload(ctx); err != nil {
					sr.logger.Error("failed to re-import seed file", logger.Error(err))
				}
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader.
func (sr *SeedReloader) Stop() {
	close(sr.stopCh)
}

// Reload loads the seed file and saves its records under the
// configured account. Record ids are stable per URL, so repeated
// imports overwrite instead of duplicating.
func (sr *SeedReloader) Reload(ctx context.Context) error {
	config, err := sr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load seed file: %w", err)
	}

	websites, err := sr.mapper.MapWebsites(config)
	if err != nil {
		return fmt.Errorf("failed to map seed entries: %w", err)
	}

	userID, err := sr.auth.UserID(ctx, sr.userEmail)
	if err != nil {
		return fmt.Errorf("failed to resolve seed user: %w", err)
	}

	if err := sr.store.SaveMany(ctx, userID, websites); err != nil {
		return fmt.Errorf("failed to save seed websites: %w", err)
	}

	sr.logger.Info("seed file imported",
		logger.String("user", sr.userEmail),
		logger.Int("count", len(websites)))
	return nil
}
