package mediaservice

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/api"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/config"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/factory"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/feed"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/health"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/logger"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/mediapath"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/statestore"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/store"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/tags"
)

// Run loads configuration from the environment and serves until shutdown or error.
func Run() error {
	cfg, err := config.New()
	if err != nil {
		log := logger.New("media-service")
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	return RunWithConfig(cfg)
}

// RunWithConfig starts the media service HTTP server and blocks until shutdown or error.
func RunWithConfig(cfg *config.Config) error {
	log := logger.New("media-service")
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Warn().Err(err).Msg("falling back to info level")
		_ = logger.SetLevel("info")
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Str("state_driver", cfg.StateDriver).
		Int("http_port", cfg.HTTPPort).
		Str("media_root", cfg.MediaRoot).
		Msg("Media service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	deps, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close(log)

	svcHealth := startHealthCheckers(ctx, cfg, log, deps)
	router := buildRouter(cfg, log, deps, svcHealth)

	// Block startup until dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

type dependencies struct {
	catalog    store.Store
	closeStore func() error
	state      statestore.Stores
	closeState func() error
}

func (d *dependencies) close(log zerolog.Logger) {
	if err := d.closeState(); err != nil {
		log.Warn().Err(err).Msg("closing state store")
	}
	if err := d.closeStore(); err != nil {
		log.Warn().Err(err).Msg("closing catalog")
	}
}

// initDependencies constructs required components and enforces fail-fast on missing deps.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*dependencies, error) {
	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Catalog unavailable")
		return nil, err
	}

	state, closeState, err := factory.NewStateStores(ctx, cfg, log)
	if err != nil {
		_ = st.Close()
		log.Error().Stack().Err(err).Msg("State store unavailable")
		return nil, err
	}
	return &dependencies{catalog: st, closeStore: st.Close, state: state, closeState: closeState}, nil
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// buildRouter wires feeds and the tag resolver to HTTP routes.
func buildRouter(cfg *config.Config, log zerolog.Logger, deps *dependencies, svcHealth *health.ServiceHealthChecker) *mux.Router {
	resolver := mediapath.NewResolver(cfg.MediaRoot)
	if !resolver.Configured() {
		log.Warn().Msg("MEDIA_GALLERY_MEDIA_ROOT not set; feeds will be empty")
	}

	rng := newRand(cfg.FeedSeed)
	feeds := make(map[model.Kind]*feed.Service, len(model.Kinds))
	for _, k := range model.Kinds {
		feeds[k] = feed.New(k, deps.catalog.Media(), deps.state[k], resolver, feed.Options{
			BatchSize:   cfg.FeedBatchSize,
			MaxAttempts: cfg.FeedMaxAttempts,
			Rand:        rng,
		}, log)
	}

	tagSvc := tags.NewService(deps.catalog.Tags(), resolver, tags.Options{
		MaxPageSize:   cfg.MaxPageSize,
		PhotoTagLimit: cfg.PhotoTagLimit,
	}, log)

	return api.NewRouter(api.Deps{
		Feeds:           feeds,
		Tags:            tagSvc,
		Health:          svcHealth,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
		Log:             log,
	})
}

// startHealthCheckers starts component checkers and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, deps *dependencies) *health.ServiceHealthChecker {
	probeTimeout := cfg.HealthProbeTimeout()
	interval := cfg.HealthInterval()

	svcHealth := health.NewServiceHealthChecker(log,
		store.NewHealthChecker(deps.catalog, log, probeTimeout),
		statestore.NewHealthChecker(deps.state, log, probeTimeout),
	)
	svcHealth.StartAll(ctx, interval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup window in seconds:
// interval*2, at least 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
