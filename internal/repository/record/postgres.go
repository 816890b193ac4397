package record

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vibestation/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres stores records in the records table. The repository owns pool and closes it.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Load(ctx context.Context, key string) (string, error) {
	const q = `
SELECT value
FROM records
WHERE key = $1
LIMIT 1
`
	var value string
	if err := r.pool.QueryRow(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, key)
		}
		return "", err
	}
	return value, nil
}

func (r *postgresRepo) Save(ctx context.Context, key, value string) error {
	const q = `
INSERT INTO records (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at
`
	_, err := r.pool.Exec(ctx, q, key, value)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, key string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM records WHERE key = $1`, key)
	return err
}

func (r *postgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *postgresRepo) Close() error {
	r.pool.Close()
	return nil
}
