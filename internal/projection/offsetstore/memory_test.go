package offsetstore

import (
	"context"
	"testing"
	"time"

	"github.com/louisbranch/eventwire/internal/journal"
)

func TestMemorySaveAndLoad(t *testing.T) {
	store := NewMemory()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, ok, err := store.Load(context.Background(), "p", "k"); err != nil || ok {
		t.Fatalf("load absent = (%v, %v), want ok=false", ok, err)
	}

	offset := journal.TimestampOffset{Timestamp: at, Seen: map[string]int64{"a": 3}}
	if err := store.Save(context.Background(), "p", "k", offset); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, ok, err := store.Load(context.Background(), "p", "k")
	if err != nil || !ok {
		t.Fatalf("load = (%v, %v), want ok=true", ok, err)
	}
	if !loaded.Timestamp.Equal(at) || loaded.Seen["a"] != 3 {
		t.Fatalf("loaded = %+v, want timestamp %v seen a:3", loaded, at)
	}

	// Mutating the caller's map must not leak into the store.
	offset.Seen["a"] = 99
	loaded, _, _ = store.Load(context.Background(), "p", "k")
	if loaded.Seen["a"] != 3 {
		t.Fatalf("stored offset mutated through caller map: %v", loaded.Seen)
	}
}
