package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"vibestation/internal/config"
	"vibestation/internal/enrich"
	"vibestation/internal/httpserver"
	"vibestation/internal/logging"
	"vibestation/internal/repository/record"
	"vibestation/internal/service/catalog"
	"vibestation/internal/service/session"
)

func main() {
	_ = godotenv.Load() // allow .env for local runs
	cfg := config.FromEnv()
	logger := logging.New("api", cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	store, err := record.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("open record store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}

	describer, err := enrich.New(cfg.Enrich, logger.Named("enrich"))
	if err != nil {
		logger.Fatal("init describer", zap.Error(err))
	}

	catalogService := catalog.New(store, describer, catalog.WithLogger(logger.Named("catalog")))
	if err := catalogService.Init(ctx); err != nil {
		// the collections are usable in memory; only the initial write-through failed
		logger.Warn("catalog init", zap.Error(err))
	}

	sessionService, err := session.New(store, cfg.Admin, logger.Named("session"))
	if err != nil {
		logger.Fatal("init session", zap.Error(err))
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger.Named("http"), httpserver.Deps{
		Store:       store,
		Catalog:     catalogService,
		Session:     sessionService,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := multierr.Combine(srv.Shutdown(shutdownCtx), store.Close()); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
