package app

import (
	"context"
	"log"
	"time"

	"github.com/louisbranch/eventwire/internal/journal"
	"github.com/louisbranch/eventwire/internal/projection"
)

const (
	throughputLogCount    = 1000
	throughputLogInterval = 10 * time.Second
)

// countingHandler logs consumed events and periodic throughput. One
// instance serves one projection worker, so no locking is needed.
type countingHandler struct {
	id projection.ID

	totalCount      int64
	throughputCount int64
	throughputStart time.Time
}

func newCountingHandler(id projection.ID) *countingHandler {
	return &countingHandler{id: id, throughputStart: time.Now()}
}

// Process implements projection.Handler.
func (h *countingHandler) Process(ctx context.Context, env journal.Envelope) error {
	h.totalCount++
	log.Printf("projection %s consumed %s for %s/%d, total %d events",
		h.id, env.Payload.GetTypeUrl(), env.PersistenceID, env.SeqNr, h.totalCount)

	h.throughputCount++
	elapsed := time.Since(h.throughputStart)
	if h.throughputCount >= throughputLogCount || elapsed >= throughputLogInterval {
		perSecond := float64(h.throughputCount) / elapsed.Seconds()
		log.Printf("projection %s throughput %.0f events/s in %v", h.id, perSecond, elapsed.Truncate(time.Millisecond))
		h.throughputCount = 0
		h.throughputStart = time.Now()
	}
	return nil
}
