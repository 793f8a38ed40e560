package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/onetapcall/emergency-resolver/internal/adapter/dialer"
	"github.com/onetapcall/emergency-resolver/internal/adapter/firestore"
	"github.com/onetapcall/emergency-resolver/internal/adapter/geoip"
	httpadapter "github.com/onetapcall/emergency-resolver/internal/adapter/http"
	"github.com/onetapcall/emergency-resolver/internal/adapter/mockloc"
	"github.com/onetapcall/emergency-resolver/internal/config"
	"github.com/onetapcall/emergency-resolver/internal/domain"
	"github.com/onetapcall/emergency-resolver/internal/location"
	"github.com/onetapcall/emergency-resolver/internal/observability"
	"github.com/onetapcall/emergency-resolver/internal/resolver"
	"github.com/onetapcall/emergency-resolver/internal/session"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	// Remote number store (feature-flagged via REMOTE_ENABLED / FIRESTORE_PROJECT).
	var store domain.NumberStore
	if cfg.RemoteEnabled {
		store = firestore.NewClient(cfg.FirestoreProject, cfg.FirestoreDatabase,
			cfg.RemoteCollection, cfg.FirestoreAPIKey, cfg.RemoteTimeout, logger, metrics)
		metrics.RemoteEnabled.Set(1)
		logger.Info("remote number store enabled",
			"project", cfg.FirestoreProject, "collection", cfg.RemoteCollection)
	} else {
		logger.Info("remote number store disabled, serving built-in directory")
	}

	var provider domain.LocationProvider
	switch cfg.LocationProvider {
	case config.ProviderMock:
		provider = mockloc.NewProvider(cfg.MockCountry, clock)
		logger.Info("using mock location provider", "country", cfg.MockCountry)
	default:
		provider = geoip.NewProvider(cfg.LocationConsent, cfg.LocationTimeout, logger)
	}

	acquirer := location.NewAcquirer(provider, cfg.LocationTimeout, logger, metrics)
	res := resolver.New(store, logger, metrics)
	tel := dialer.New(cfg.DialMode, cfg.DialHandler, logger)

	ctrl := session.NewController(acquirer, res, tel, clock, cfg.SplashDelay, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, ctrl, res, store, ctrl, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctrl.Start(ctx)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
