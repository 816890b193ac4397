package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"vibestation/internal/config"
	"vibestation/internal/db"
	"vibestation/internal/logging"
	"vibestation/internal/migrate"
)

func main() {
	_ = godotenv.Load() // allow .env for local runs
	cfg := config.FromEnv()
	logger := logging.New("migrate", cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Store.DBConnString)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	version, err := migrate.Apply(ctx, pool)
	if err != nil {
		logger.Error("apply migrations", zap.Error(err))
		pool.Close()
		_ = logger.Sync()
		os.Exit(1)
	}

	logger.Info("migrations applied", zap.Uint("version", version))
}
