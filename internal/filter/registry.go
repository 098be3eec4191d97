package filter

import (
	"fmt"
	"sync"
)

// MaxCriteria bounds the stored filter values per stream id.
const MaxCriteria = 256

// Registry holds the shared filter state per stream id. Any caller may
// update; live streams subscribe and observe updates. This is the
// single-process collapse of the cluster-replicated filter map: adds are
// set-union, removes are last-writer-wins per value.
type Registry struct {
	mu      sync.Mutex
	streams map[string]*streamFilter
}

type streamFilter struct {
	set  *Set
	subs map[int]chan struct{}
	next int
}

// NewRegistry creates an empty filter registry.
func NewRegistry() *Registry {
	return &Registry{streams: map[string]*streamFilter{}}
}

func (r *Registry) stream(streamID string) *streamFilter {
	sf, ok := r.streams[streamID]
	if !ok {
		sf = &streamFilter{set: NewSet(), subs: map[int]chan struct{}{}}
		r.streams[streamID] = sf
	}
	return sf
}

// Update applies criteria to the stream's filter. Updates are idempotent
// per criterion value and apply to subsequent emissions only.
func (r *Registry) Update(streamID string, criteria []Criteria) error {
	if streamID == "" {
		return fmt.Errorf("stream id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	sf := r.stream(streamID)
	next, err := sf.set.Apply(criteria)
	if err != nil {
		return fmt.Errorf("update filter for %q: %w", streamID, err)
	}
	if next.Size() > MaxCriteria {
		return fmt.Errorf("filter for %q exceeds %d criteria", streamID, MaxCriteria)
	}
	sf.set = next
	for _, ch := range sf.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

// Snapshot returns the current filter set of the stream.
func (r *Registry) Snapshot(streamID string) *Set {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stream(streamID).set
}

// Subscribe registers for update notifications on the stream. The
// returned channel has a buffer of one; coalesced notifications are
// fine because subscribers re-read the snapshot. Call cancel to
// unsubscribe.
func (r *Registry) Subscribe(streamID string) (<-chan struct{}, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sf := r.stream(streamID)
	id := sf.next
	sf.next++
	ch := make(chan struct{}, 1)
	sf.subs[id] = ch

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(sf.subs, id)
	}
	return ch, cancel
}
