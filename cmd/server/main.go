package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aurasat/backend/internal/catalog"
	"github.com/aurasat/backend/internal/config"
	"github.com/aurasat/backend/internal/handler"
	"github.com/aurasat/backend/internal/logging"
	"github.com/aurasat/backend/internal/repository"
	"github.com/aurasat/backend/internal/service"
	"github.com/aurasat/backend/pkg/auth"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	if err := run(cfg); err != nil {
		logging.Fatal("server stopped", "error", err)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open contact store: %w", err)
	}
	defer store.Close()

	sites, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("load site catalog: %w", err)
	}

	contactService := service.NewContactService(store, service.ContactConfig{
		StrictTransitions: cfg.StrictStatusTransitions,
	})
	speedTestService := service.NewSpeedTestService(service.SpeedTestConfig{
		Stations: sites.GroundStations,
		Pacing:   cfg.SpeedTestPacing,
	})

	limiter := handler.NewRateLimiter(cfg.ContactRateLimit, cfg.TrustedProxyCount)
	defer limiter.Close()

	// Admin routes take a signed token in production; dev mode lets every request through.
	adminAuth := auth.DevAuth
	if cfg.AuthRequired {
		adminAuth = auth.RequireAdmin(auth.SecretBytes(cfg.TokenSecret))
	} else {
		slog.Warn("admin contact routes are unauthenticated; set AUTH_REQUIRED=true in production")
	}

	server := &http.Server{
		Addr: cfg.Addr,
		Handler: handler.NewRouter(handler.RouterConfig{
			DB:             store,
			FrontendURL:    cfg.FrontendURL,
			Contacts:       contactService,
			Catalog:        sites,
			SpeedTest:      speedTestService,
			ContactLimiter: limiter,
			AdminAuth:      adminAuth,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", server.Addr, "strict_transitions", cfg.StrictStatusTransitions)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
