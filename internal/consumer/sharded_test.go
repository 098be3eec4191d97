package consumer

import (
	"context"
	"testing"
	"time"

	"github.com/louisbranch/eventwire/internal/daemon"
	"github.com/louisbranch/eventwire/internal/journal"
	"github.com/louisbranch/eventwire/internal/projection"
	"github.com/louisbranch/eventwire/internal/projection/offsetstore"
	"github.com/louisbranch/eventwire/internal/slice"
)

// Four sharded workers over an empty journal: every worker opens its
// stream for its slice range, nothing is emitted, and no offset rows
// appear.
func TestShardedWorkersOpenDisjointStreams(t *testing.T) {
	h := newE2E(t)
	store := offsetstore.NewMemory()

	membership, err := daemon.NewStatic("consumer-1")
	if err != nil {
		t.Fatalf("new membership: %v", err)
	}
	const instances = 4
	factory := func(index int, scope slice.Range) (daemon.Worker, error) {
		id := projection.ID{Name: "cart-events", Key: projection.KeyFor(testStreamID, scope)}
		source := projection.Source(func(ctx context.Context, loadOffset func(context.Context) (journal.TimestampOffset, error), fn func(journal.Envelope) error) error {
			return h.rj.Run(ctx, scope, loadOffset, fn)
		})
		handler := projection.HandlerFunc(func(ctx context.Context, env journal.Envelope) error {
			t.Errorf("no envelope expected from empty journal, got %s/%d", env.PersistenceID, env.SeqNr)
			return nil
		})
		runner, err := projection.NewAtLeastOnce(id, store, source, handler, projection.Options{})
		if err != nil {
			return nil, err
		}
		return daemon.WorkerFunc(runner.Run), nil
	}
	supervisor, err := daemon.New("cart-events", instances, factory, membership)
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- supervisor.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		h.rj.mu.Lock()
		live := len(h.rj.streams)
		scopes := map[string]bool{}
		for _, ls := range h.rj.streams {
			scopes[ls.scope.String()] = true
		}
		h.rj.mu.Unlock()
		if live == instances {
			for _, want := range []string{"0-255", "256-511", "512-767", "768-1023"} {
				if !scopes[want] {
					t.Fatalf("missing stream for slice range %s: %v", want, scopes)
				}
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("only %d of %d streams opened", live, instances)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("daemon run: %v", err)
	}

	ranges, err := slice.Ranges(instances)
	if err != nil {
		t.Fatalf("slice ranges: %v", err)
	}
	for _, scope := range ranges {
		key := projection.KeyFor(testStreamID, scope)
		if _, ok, err := store.Load(context.Background(), "cart-events", key); err != nil || ok {
			t.Fatalf("offset row for %s = (%v, %v), want absent", key, ok, err)
		}
	}
}
