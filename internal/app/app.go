package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/webspot/webspot/internal/config"
	"github.com/webspot/webspot/internal/httpserver"
	"github.com/webspot/webspot/internal/httpserver/deps"
	"github.com/webspot/webspot/internal/kv"
	"github.com/webspot/webspot/internal/logger"
	"github.com/webspot/webspot/internal/notify"
	"github.com/webspot/webspot/internal/reconcile"
	"github.com/webspot/webspot/internal/redis"
	"github.com/webspot/webspot/internal/scheduler"
	"github.com/webspot/webspot/internal/session"
	"github.com/webspot/webspot/internal/state"
	"github.com/webspot/webspot/internal/store"
	"github.com/webspot/webspot/internal/store/guest"
	"github.com/webspot/webspot/internal/store/remote"
	"github.com/webspot/webspot/internal/version"
	"github.com/webspot/webspot/internal/websites"
)

type App struct {
	cfg          *config.Config
	logger       logger.Logger
	server       *httpserver.Server
	redisClient  *goredis.Client
	kvStore      kv.Store
	sessions     *session.Manager
	reconciler   *reconcile.Reconciler
	seedReloader *scheduler.SeedReloader
	iconBackfill *scheduler.IconBackfill
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	// Local key-value store holds guest data and the session marker
	kvStore, err := kv.OpenSQLite(cfg.KVPath)
	if err != nil {
		loggerClient.Errorf("Failed to open local store at %s: %v", cfg.KVPath, err)
		os.Exit(1)
	}
	loggerClient.Infof("Local store opened at %s", cfg.KVPath)

	auth := session.NewAuth(redisClient, cfg.SessionTTL)
	sessions := session.NewManager(auth, kvStore, loggerClient)

	notifier := notify.NewLogNotifier(loggerClient)

	guestStore := guest.NewStore(kvStore, loggerClient)
	remoteStore := remote.NewStore(redisClient, sessions, notifier, loggerClient)
	router := store.NewRouter(session.GuestUserKey, kvStore, guestStore, remoteStore, loggerClient)

	list := state.NewList()
	service := websites.NewService(router, list, notifier, loggerClient)
	reconciler := reconcile.New(router, list, loggerClient)

	// Seed importer (optional, disabled when no file is configured)
	var seedReloader *scheduler.SeedReloader
	var seedReloadTrigger chan struct{}
	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured, initializing seed reloader",
			logger.String("file", cfg.SeedFile),
			logger.String("user", cfg.SeedUserEmail))
		seedReloadTrigger = make(chan struct{}, 1)
		seedReloader = scheduler.NewSeedReloader(
			cfg.SeedFile,
			remoteStore,
			auth,
			cfg.SeedUserEmail,
			loggerClient,
			cfg.ReloadInterval,
			seedReloadTrigger,
		)
	} else {
		loggerClient.Info("seed file not configured, seed import disabled")
	}

	iconBackfill := scheduler.NewIconBackfill(remoteStore, loggerClient, cfg.IconBackfillInterval)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		Websites:          service,
		Sessions:          sessions,
		List:              list,
		RedisClient:       redisClient,
		SeedReloadTrigger: seedReloadTrigger,
		AuthRateBurst:     cfg.AuthRateBurst,
		AuthRateRefill:    cfg.AuthRateRefill,
		TrustProxy:        cfg.TrustProxy,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:          cfg,
		logger:       loggerClient,
		server:       server,
		redisClient:  redisClient,
		kvStore:      kvStore,
		sessions:     sessions,
		reconciler:   reconciler,
		seedReloader: seedReloader,
		iconBackfill: iconBackfill,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Webspot v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Webspot %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Restore a previous guest session before any listing happens
	a.sessions.Resume(ctx)
	a.logger.Info("session resumed", logger.String("mode", a.sessions.Mode().String()))

	// Start the reconciler (initial fetch and refetch on session changes)
	a.reconciler.Start(ctx, a.sessions)
	a.logger.Info("reconciler started")

	// Start seed reloader (if enabled)
	if a.seedReloader != nil {
		if err := a.seedReloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start seed reloader: %w", err)
		}
		a.logger.Info("seed reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	// Start icon backfill
	if err := a.iconBackfill.Start(ctx); err != nil {
		return fmt.Errorf("failed to start icon backfill: %w", err)
	}
	a.logger.Info("icon backfill started",
		logger.Duration("interval", a.cfg.IconBackfillInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reconciler.Stop()

	if a.seedReloader != nil {
		a.seedReloader.Stop()
	}

	a.iconBackfill.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	if err := a.kvStore.Close(); err != nil {
		a.logger.Warnf("failed to close local store: %v", err)
	}

	a.logger.Info("✅ Webspot stopped cleanly")
	return nil
}
