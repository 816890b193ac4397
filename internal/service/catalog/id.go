package catalog

import (
	"errors"
	"time"

	"github.com/sony/sonyflake"
)

// IDGenerator yields unique, increasing ids.
type IDGenerator interface {
	NextID() (uint64, error)
}

var errNoGenerator = errors.New("id generator unavailable")

type sonyflakeIDs struct {
	sf *sonyflake.Sonyflake
}

// NewSonyflakeIDs returns a generator for a single process. The machine id is
// fixed since only one process owns a store.
func NewSonyflakeIDs() IDGenerator {
	return &sonyflakeIDs{
		sf: sonyflake.NewSonyflake(sonyflake.Settings{
			StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			MachineID: func() (uint16, error) { return 1, nil },
		}),
	}
}

func (g *sonyflakeIDs) NextID() (uint64, error) {
	if g.sf == nil {
		return 0, errNoGenerator
	}
	return g.sf.NextID()
}
