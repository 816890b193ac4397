package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"vibestation/internal/config"
	"vibestation/internal/db"
	"vibestation/internal/domain"
	"vibestation/internal/logging"
	"vibestation/internal/metrics"
)

// Logical record keys. Values are JSON text, except the session flag which is "true".
const (
	KeyApps       = "vibe_apps"
	KeyCategories = "vibe_categories"
	KeySession    = "vibe_auth_session"
)

// Repository is a durable string-keyed text store.
type Repository interface {
	// Load returns the stored text, or domain.ErrNotFound when the key was never saved.
	Load(ctx context.Context, key string) (string, error)
	// Save overwrites the value stored under key.
	Save(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Open builds the backend selected by cfg.Driver, instrumented with logging and metrics.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Repository, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate store config: %w", err)
	}

	var (
		repo Repository
		err  error
	)
	switch cfg.Driver {
	case "bolt":
		repo, err = NewBolt(cfg.BoltPath)
	case "redis":
		repo, err = NewRedis(RedisConfig{
			Client: redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			}),
			Prefix: cfg.RedisPrefix,
		})
	case "postgres":
		pool, connErr := db.Connect(ctx, cfg.DBConnString)
		if connErr != nil {
			return nil, fmt.Errorf("connect postgres store: %w", connErr)
		}
		repo = NewPostgres(pool)
	case "memory":
		repo = NewMemory()
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}

	return Instrument(repo, cfg.Driver, logger), nil
}

type instrumented struct {
	next    Repository
	backend string
	logger  *zap.Logger
}

// Instrument wraps repo so every operation is logged and counted under backend.
func Instrument(repo Repository, backend string, logger *zap.Logger) Repository {
	return &instrumented{
		next:    repo,
		backend: backend,
		logger:  logging.OrNop(logger).With(zap.String("backend", backend)),
	}
}

func (i *instrumented) Load(ctx context.Context, key string) (string, error) {
	start := time.Now()
	value, err := i.next.Load(ctx, key)
	i.observe("load", key, start, err)
	return value, err
}

func (i *instrumented) Save(ctx context.Context, key, value string) error {
	start := time.Now()
	err := i.next.Save(ctx, key, value)
	i.observe("save", key, start, err)
	return err
}

func (i *instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := i.next.Delete(ctx, key)
	i.observe("delete", key, start, err)
	return err
}

func (i *instrumented) Ping(ctx context.Context) error {
	return i.next.Ping(ctx)
}

func (i *instrumented) Close() error {
	return i.next.Close()
}

func (i *instrumented) observe(op, key string, start time.Time, err error) {
	// a missing record is an expected answer, not a backend failure
	if errors.Is(err, domain.ErrNotFound) {
		metrics.RecordStoreOp(i.backend, op, nil)
		i.logger.Debug("record not found", zap.String("op", op), zap.String("key", key))
		return
	}

	metrics.RecordStoreOp(i.backend, op, err)
	if err != nil {
		i.logger.Warn("record store operation failed",
			zap.String("op", op), zap.String("key", key), zap.Error(err))
		return
	}
	i.logger.Debug("record store operation",
		zap.String("op", op), zap.String("key", key), zap.Duration("elapsed", time.Since(start)))
}
