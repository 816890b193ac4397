package record

import (
	"context"
	"fmt"

	"github.com/VictoriaMetrics/fastcache"

	"vibestation/internal/domain"
)

// entries are prefixed with this marker so an empty value is distinguishable from a miss
const memoryPresent byte = 1

// Memory keeps records in process memory only.
type Memory struct {
	db *fastcache.Cache
}

var _ Repository = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		db: fastcache.New(32 * 1048576), // 32MB
	}
}

func (m *Memory) Load(_ context.Context, key string) (string, error) {
	// SetBig/GetBig since a record can outgrow fastcache's 64KB entry limit.
	v := m.db.GetBig(nil, []byte(key))
	if len(v) == 0 || v[0] != memoryPresent {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	return string(v[1:]), nil
}

func (m *Memory) Save(_ context.Context, key, value string) error {
	buf := make([]byte, 0, len(value)+1)
	buf = append(buf, memoryPresent)
	buf = append(buf, value...)
	m.db.SetBig([]byte(key), buf)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.db.Del([]byte(key))
	return nil
}

func (m *Memory) Ping(_ context.Context) error {
	return nil
}

func (m *Memory) Close() error {
	m.db.Reset()
	return nil
}
