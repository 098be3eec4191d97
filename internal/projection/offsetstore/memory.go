// Package offsetstore provides projection offset persistence: an
// in-memory store for tests and single-process setups, and a durable
// SQLite store in the sqlite subpackage.
package offsetstore

import (
	"context"
	"errors"
	"sync"

	"github.com/louisbranch/eventwire/internal/journal"
)

// ErrVersionConflict indicates another live writer advanced the same
// offset row: a projection id collision. Runners surface it; there is no
// safe recovery.
var ErrVersionConflict = errors.New("projection offset version conflict")

// Memory is an in-memory offset store for tests and single-process
// setups. Collision detection across processes is the SQLite store's
// job; Memory has a single writer by construction.
type Memory struct {
	mu      sync.Mutex
	offsets map[string]journal.TimestampOffset
}

// NewMemory creates an empty in-memory offset store.
func NewMemory() *Memory {
	return &Memory{offsets: map[string]journal.TimestampOffset{}}
}

func rowKey(name, key string) string {
	return name + "\x00" + key
}

// Load implements projection.OffsetStore.
func (m *Memory) Load(ctx context.Context, name, key string) (journal.TimestampOffset, bool, error) {
	if err := ctx.Err(); err != nil {
		return journal.TimestampOffset{}, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	offset, ok := m.offsets[rowKey(name, key)]
	if !ok {
		return journal.TimestampOffset{}, false, nil
	}
	return copyOffset(offset), true, nil
}

// Save implements projection.OffsetStore.
func (m *Memory) Save(ctx context.Context, name, key string, offset journal.TimestampOffset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offsets[rowKey(name, key)] = copyOffset(offset)
	return nil
}

func copyOffset(offset journal.TimestampOffset) journal.TimestampOffset {
	out := journal.TimestampOffset{Timestamp: offset.Timestamp}
	if offset.Seen != nil {
		out.Seen = make(map[string]int64, len(offset.Seen))
		for pid, seq := range offset.Seen {
			out.Seen[pid] = seq
		}
	}
	return out
}
