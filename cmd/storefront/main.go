package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/example/storefront/internal/activity"
	"github.com/example/storefront/internal/api"
	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/backend"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/dashboard"
	"github.com/example/storefront/internal/logging"
	"github.com/example/storefront/internal/session"
	"github.com/rs/zerolog"
)

const sweepInterval = 10 * time.Minute

// expiringStore is a session store that can purge expired sessions.
type expiringStore interface {
	session.Store
	DeleteExpired(ctx context.Context) (int64, error)
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootFail(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		bootFail(err, "invalid config")
	}
	logger, err := logging.New("storefront", cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		bootFail(err, "failed to set up logging")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info().
		Str("backend", cfg.BackendURL).
		Str("session_store", cfg.SessionStore).
		Strs("kafka", cfg.KafkaBrokers).
		Msg("storefront starting")

	client, err := backend.New(cfg.BackendURL, backend.WithTimeout(cfg.BackendTimeout), backend.WithLogger(logger))
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid backend url")
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.SessionStore).Msg("failed to open session store")
	}
	defer closeStore()

	sessions := session.NewManager(store, session.ManagerConfig{
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
		Logger: logger,
	})

	var publisher activity.Publisher = activity.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = activity.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		logger.Info().Str("topic", cfg.KafkaTopic).Msg("publishing activity events")
	}
	defer publisher.Close()

	renderer, err := api.NewRenderer(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse templates")
	}

	limiter := middleware.NewRateLimiter(cfg.AuthRate, cfg.AuthBurst)
	proxies, err := cfg.ProxyPrefixes()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid trusted proxies")
	}
	limiter.TrustProxies(proxies)
	handlers := api.NewHandlers(api.HandlersConfig{
		Backend:   client,
		Sessions:  sessions,
		Renderer:  renderer,
		Publisher: publisher,
		Debouncer: dashboard.NewDebouncer(cfg.SearchDebounce),
		Logger:    logger,
	})
	router := api.NewRouter(api.RouterConfig{
		Handlers:    handlers,
		Sessions:    sessions,
		AuthLimiter: limiter,
		Logger:      logger,
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		housekeeping(ctx, store, limiter, logger)
	}()

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("server started")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info().Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	wg.Wait()
}

// openStore builds the configured session store and returns its cleanup.
func openStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (expiringStore, func(), error) {
	switch cfg.SessionStore {
	case config.StorePostgres:
		db, err := session.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store := session.NewPostgresStore(db, session.NewSealer(cfg.SessionSecret))
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info().Msg("connected to PostgreSQL session store")
		return store, func() { db.Close() }, nil

	case config.StoreRedis:
		client, err := session.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Msg("connected to Redis session store")
		return redisStore{session.NewRedisStore(client, session.NewSealer(cfg.SessionSecret))}, func() { client.Close() }, nil

	default:
		logger.Warn().Msg("using in-memory sessions; they are lost on restart")
		return session.NewMemoryStore(), func() {}, nil
	}
}

// redisStore relies on key TTLs, so there is nothing to sweep.
type redisStore struct {
	*session.RedisStore
}

func (redisStore) DeleteExpired(context.Context) (int64, error) { return 0, nil }

// housekeeping periodically drops expired sessions and idle rate-limit buckets.
func housekeeping(ctx context.Context, store expiringStore, limiter *middleware.RateLimiter, logger zerolog.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
			n, err := store.DeleteExpired(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("failed to delete expired sessions")
				continue
			}
			if n > 0 {
				logger.Debug().Int64("count", n).Msg("deleted expired sessions")
			}
		}
	}
}

// bootFail reports an error from before the configured logger exists.
func bootFail(err error, msg string) {
	l := zerolog.New(os.Stderr).With().Timestamp().Logger()
	l.Fatal().Err(err).Msg(msg)
}
