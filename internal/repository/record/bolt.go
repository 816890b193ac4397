package record

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"vibestation/internal/domain"
)

const boltBucketRecords = "records" // key: record key -> text value

// Bolt keeps records in a single bbolt file.
type Bolt struct {
	db *bbolt.DB
}

var _ Repository = (*Bolt)(nil)

func NewBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketRecords))
		return err
	}); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Bolt{db: db}, nil
}

func (b *Bolt) Load(_ context.Context, key string) (string, error) {
	var (
		value string
		found bool
	)

	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(boltBucketRecords)).Get([]byte(key))
		if v == nil {
			return nil
		}
		// v is only valid inside the transaction; string() copies it.
		value, found = string(v), true

		return nil
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}

	return value, nil
}

func (b *Bolt) Save(_ context.Context, key, value string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketRecords)).Put([]byte(key), []byte(value))
	})
}

func (b *Bolt) Delete(_ context.Context, key string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketRecords)).Delete([]byte(key))
	})
}

func (b *Bolt) Ping(_ context.Context) error {
	return b.db.View(func(tx *bbolt.Tx) error {
		return nil
	})
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
