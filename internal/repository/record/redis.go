package record

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"

	"vibestation/internal/domain"
)

type RedisConfig struct {
	Client redis.UniversalClient `validate:"required"`
	Prefix string
}

// Redis keeps records as plain string keys, namespaced by Prefix.
type Redis struct {
	conf RedisConfig
}

var _ Repository = (*Redis)(nil)

func NewRedis(conf RedisConfig) (*Redis, error) {
	err := validator.New().Struct(conf)
	if err != nil {
		err = fmt.Errorf("error validate record redis: %w", err)
		return nil, err
	}

	return &Redis{conf: conf}, nil
}

func (r *Redis) Load(ctx context.Context, key string) (string, error) {
	val, err := r.conf.Client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("error occured on redis: %w", err)
	}

	return val, nil
}

func (r *Redis) Save(ctx context.Context, key, value string) error {
	if err := r.conf.Client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("error occured on redis: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	err := r.conf.Client.Del(ctx, r.key(key)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("error occured on redis: %w", err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.conf.Client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.conf.Client.Close()
}

func (r *Redis) key(k string) string {
	if r.conf.Prefix == "" {
		return k
	}
	return r.conf.Prefix + ":" + k
}
