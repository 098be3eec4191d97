// Package daemon keeps exactly N long-lived workers alive across a set
// of nodes. Each worker is pinned to one slice range; membership changes
// rebalance workers with a stop-before-start handoff so no two nodes
// ever run the same worker at the same time.
package daemon

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/louisbranch/eventwire/internal/slice"
)

// Worker is one long-lived unit of work. Run blocks until ctx ends; a
// context end is a graceful stop and Run must finish its in-flight work
// (including final offset commits) before returning.
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a function to the Worker interface.
type WorkerFunc func(ctx context.Context) error

// Run implements Worker.
func (fn WorkerFunc) Run(ctx context.Context) error {
	return fn(ctx)
}

// Factory builds the worker with the given index, owning the given
// slice range. It is called again each time the worker is placed on
// this node.
type Factory func(index int, scope slice.Range) (Worker, error)

// ShardedDaemon supervises the workers this node owns.
type ShardedDaemon struct {
	name       string
	factory    Factory
	membership Membership
	ranges     []slice.Range
}

// New creates a sharded daemon with n workers built by factory.
func New(name string, n int, factory Factory, membership Membership) (*ShardedDaemon, error) {
	if name == "" {
		return nil, fmt.Errorf("daemon name is required")
	}
	if factory == nil {
		return nil, fmt.Errorf("worker factory is required")
	}
	if membership == nil {
		return nil, fmt.Errorf("membership is required")
	}
	ranges, err := slice.Ranges(n)
	if err != nil {
		return nil, fmt.Errorf("partition slices for %q: %w", name, err)
	}
	return &ShardedDaemon{name: name, factory: factory, membership: membership, ranges: ranges}, nil
}

// OwnedIndexes computes which worker indexes the self node owns given a
// member list. Placement is deterministic: workers spread round-robin
// over the sorted member ids, so every worker has exactly one owner.
func (d *ShardedDaemon) OwnedIndexes(members []string) []int {
	if len(members) == 0 {
		return nil
	}
	sorted := append([]string{}, members...)
	sort.Strings(sorted)
	self := -1
	for i, m := range sorted {
		if m == d.membership.SelfID() {
			self = i
			break
		}
	}
	if self < 0 {
		return nil
	}
	var owned []int
	for i := range d.ranges {
		if i%len(sorted) == self {
			owned = append(owned, i)
		}
	}
	return owned
}

type runningWorker struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Run supervises this node's workers until ctx ends. Membership changes
// trigger a rebalance: departing workers stop fully before arriving
// workers start. The context end is the stop signal, fanned out to every
// live worker.
func (d *ShardedDaemon) Run(ctx context.Context) error {
	running := map[int]*runningWorker{}

	stop := func(index int) {
		rw, ok := running[index]
		if !ok {
			return
		}
		rw.cancel()
		<-rw.done
		delete(running, index)
	}

	start := func(ctx context.Context, index int) error {
		if _, ok := running[index]; ok {
			return nil
		}
		scope := d.ranges[index]
		worker, err := d.factory(index, scope)
		if err != nil {
			return fmt.Errorf("build worker %d of %q: %w", index, d.name, err)
		}
		wctx, cancel := context.WithCancel(ctx)
		rw := &runningWorker{cancel: cancel, done: make(chan struct{})}
		running[index] = rw
		log.Printf("daemon %s: worker %d (%s) starting", d.name, index, scope)
		go func() {
			defer close(rw.done)
			if err := worker.Run(wctx); err != nil && wctx.Err() == nil {
				// A worker giving up on its own is not rebalanced away;
				// it stays down until an operator intervenes.
				log.Printf("daemon %s: worker %d (%s) failed: %v", d.name, index, scope, err)
			}
		}()
		return nil
	}

	rebalance := func(members []string) error {
		owned := map[int]bool{}
		for _, index := range d.OwnedIndexes(members) {
			owned[index] = true
		}
		// Handoff: stop departing workers fully, then start arrivals.
		for index := range running {
			if !owned[index] {
				log.Printf("daemon %s: worker %d handing off", d.name, index)
				stop(index)
			}
		}
		for index := range owned {
			if err := start(ctx, index); err != nil {
				return err
			}
		}
		return nil
	}

	if err := rebalance(d.membership.Snapshot()); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			for index := range running {
				stop(index)
			}
			return nil
		case members := <-d.membership.Changes():
			log.Printf("daemon %s: membership changed to %d nodes", d.name, len(members))
			if err := rebalance(members); err != nil {
				return err
			}
		}
	}
}
