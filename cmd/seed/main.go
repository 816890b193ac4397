package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"vibestation/internal/config"
	"vibestation/internal/logging"
	"vibestation/internal/repository/record"
	"vibestation/internal/seed"
)

func main() {
	_ = godotenv.Load() // allow .env for local runs
	cfg := config.FromEnv()
	logger := logging.New("seed", cfg.LogLevel)

	if err := run(context.Background(), cfg.Store, logger); err != nil {
		logger.Error("seed failed", zap.String("driver", cfg.Store.Driver), zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}

	logger.Info("seed applied", zap.String("driver", cfg.Store.Driver))
	_ = logger.Sync()
}

// run seeds the configured store and always closes it, so a bolt file lock
// is released even when seeding fails.
func run(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (err error) {
	store, err := record.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer func() { err = multierr.Append(err, store.Close()) }()

	if err := seed.Apply(ctx, store); err != nil {
		return fmt.Errorf("seed apply: %w", err)
	}
	return nil
}
