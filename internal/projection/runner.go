package projection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/louisbranch/eventwire/internal/journal"
	"github.com/louisbranch/eventwire/internal/projection/offsetstore"
)

// RestartBackoff shapes the restart schedule after a failed attempt.
type RestartBackoff struct {
	Min    time.Duration
	Max    time.Duration
	Factor float64
}

const (
	defaultRestartMin    = 200 * time.Millisecond
	defaultRestartMax    = 5 * time.Second
	defaultRestartFactor = 1.1

	defaultSaveAfterEnvelopes = 100
	defaultSaveAfterDuration  = 500 * time.Millisecond

	defaultGroupSize    = 20
	defaultGroupTimeout = 500 * time.Millisecond
)

func (b RestartBackoff) normalized() RestartBackoff {
	if b.Min <= 0 {
		b.Min = defaultRestartMin
	}
	if b.Max <= 0 {
		b.Max = defaultRestartMax
	}
	if b.Factor <= 1 {
		b.Factor = defaultRestartFactor
	}
	return b
}

// Options tunes a projection runner.
type Options struct {
	Restart RestartBackoff
	// SaveOffsetAfterEnvelopes and SaveOffsetAfterDuration batch offset
	// commits under at-least-once delivery.
	SaveOffsetAfterEnvelopes int
	SaveOffsetAfterDuration  time.Duration
	// GroupSize and GroupTimeout shape batches under grouped delivery.
	GroupSize    int
	GroupTimeout time.Duration
}

func (o Options) normalized() Options {
	o.Restart = o.Restart.normalized()
	if o.SaveOffsetAfterEnvelopes <= 0 {
		o.SaveOffsetAfterEnvelopes = defaultSaveAfterEnvelopes
	}
	if o.SaveOffsetAfterDuration <= 0 {
		o.SaveOffsetAfterDuration = defaultSaveAfterDuration
	}
	if o.GroupSize <= 0 {
		o.GroupSize = defaultGroupSize
	}
	if o.GroupTimeout <= 0 {
		o.GroupTimeout = defaultGroupTimeout
	}
	return o
}

type deliveryMode int

const (
	modeAtLeastOnce deliveryMode = iota
	modeGrouped
	modeExactlyOnce
)

// Runner drives one projection instance: it loads the stored offset,
// streams envelopes from the source through the handler, and commits
// offsets per its delivery mode. Failed attempts restart with backoff
// from the durably stored offset.
type Runner struct {
	id      ID
	source  Source
	store   OffsetStore
	txStore TxOffsetStore
	mode    deliveryMode

	handler        Handler
	groupedHandler GroupedHandler
	exactlyOnce    ExactlyOnceHandler

	opts Options
}

// NewAtLeastOnce creates a runner with at-least-once delivery: offsets
// commit after a batch of handled envelopes, so the uncommitted tail may
// be redelivered after a crash.
func NewAtLeastOnce(id ID, store OffsetStore, source Source, handler Handler, opts Options) (*Runner, error) {
	if err := validateRunner(id, store, source); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	return &Runner{id: id, source: source, store: store, mode: modeAtLeastOnce, handler: handler, opts: opts.normalized()}, nil
}

// NewGrouped creates a runner with grouped at-least-once delivery: the
// handler sees envelope batches and the batch offset commits after a
// successful return.
func NewGrouped(id ID, store OffsetStore, source Source, handler GroupedHandler, opts Options) (*Runner, error) {
	if err := validateRunner(id, store, source); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, fmt.Errorf("grouped handler is required")
	}
	return &Runner{id: id, source: source, store: store, mode: modeGrouped, groupedHandler: handler, opts: opts.normalized()}, nil
}

// NewExactlyOnce creates a runner whose handler runs inside the offset
// store transaction, so side effect and offset commit atomically.
func NewExactlyOnce(id ID, store TxOffsetStore, source Source, handler ExactlyOnceHandler, opts Options) (*Runner, error) {
	if err := validateRunner(id, store, source); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, fmt.Errorf("exactly-once handler is required")
	}
	return &Runner{id: id, source: source, store: store, txStore: store, mode: modeExactlyOnce, exactlyOnce: handler, opts: opts.normalized()}, nil
}

func validateRunner(id ID, store OffsetStore, source Source) error {
	if id.Name == "" || id.Key == "" {
		return fmt.Errorf("projection id is required")
	}
	if store == nil {
		return fmt.Errorf("offset store is required")
	}
	if source == nil {
		return fmt.Errorf("source is required")
	}
	return nil
}

// ID returns the projection id.
func (r *Runner) ID() ID {
	return r.id
}

// Run drives the projection until ctx ends. A context end is a graceful
// stop: the in-flight envelope completes, pending offsets commit, and
// Run returns nil. Attempt failures restart with backoff from the
// stored offset, except an offset version conflict, which is fatal.
func (r *Runner) Run(ctx context.Context) error {
	schedule := backoff.NewExponentialBackOff()
	schedule.InitialInterval = r.opts.Restart.Min
	schedule.MaxInterval = r.opts.Restart.Max
	schedule.Multiplier = r.opts.Restart.Factor

	log.Printf("projection %s started", r.id)
	defer log.Printf("projection %s stopped", r.id)

	for {
		err := r.attempt(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, offsetstore.ErrVersionConflict) {
			return fmt.Errorf("projection %s: %w", r.id, err)
		}
		delay := schedule.NextBackOff()
		log.Printf("projection %s failed, restarting in %v: %v", r.id, delay, err)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

func (r *Runner) attempt(ctx context.Context) error {
	switch r.mode {
	case modeExactlyOnce:
		return r.attemptExactlyOnce(ctx)
	case modeGrouped:
		return r.attemptGrouped(ctx)
	default:
		return r.attemptAtLeastOnce(ctx)
	}
}

// advanceOffset merges env into current, never regressing: replayed
// envelopes may predate the committed offset and must not move it
// backwards.
func advanceOffset(current journal.TimestampOffset, env journal.Envelope) (journal.TimestampOffset, bool) {
	if !current.Zero() && env.Offset.Timestamp.Before(current.Timestamp) {
		return current, false
	}
	return current.Advance(env), true
}

func (r *Runner) loadOffset(ctx context.Context) (journal.TimestampOffset, error) {
	offset, _, err := r.store.Load(ctx, r.id.Name, r.id.Key)
	if err != nil {
		return journal.TimestampOffset{}, fmt.Errorf("load offset for %s: %w", r.id, err)
	}
	return offset, nil
}

func (r *Runner) attemptAtLeastOnce(ctx context.Context) error {
	var current journal.TimestampOffset
	dirty := false
	pending := 0
	lastSave := time.Now()

	// On every (re)connect the source re-grounds from durable storage;
	// flush the uncommitted tail first to keep redelivery short.
	loadOffset := func(ctx context.Context) (journal.TimestampOffset, error) {
		if dirty {
			if err := r.store.Save(ctx, r.id.Name, r.id.Key, current); err != nil {
				return journal.TimestampOffset{}, fmt.Errorf("save offset for %s: %w", r.id, err)
			}
			dirty = false
			pending = 0
			lastSave = time.Now()
		}
		offset, err := r.loadOffset(ctx)
		if err != nil {
			return journal.TimestampOffset{}, err
		}
		// Seed the in-memory cursor so seen entries at the stored
		// timestamp merge instead of being dropped.
		current = offset
		return offset, nil
	}

	err := r.source(ctx, loadOffset, func(env journal.Envelope) error {
		if env.Payload != nil {
			if err := r.handler.Process(ctx, env); err != nil {
				return fmt.Errorf("handle %s/%d: %w", env.PersistenceID, env.SeqNr, err)
			}
		}
		next, advanced := advanceOffset(current, env)
		if !advanced {
			return nil
		}
		current = next
		dirty = true
		pending++
		if pending >= r.opts.SaveOffsetAfterEnvelopes || time.Since(lastSave) >= r.opts.SaveOffsetAfterDuration {
			if err := r.store.Save(ctx, r.id.Name, r.id.Key, current); err != nil {
				return fmt.Errorf("save offset for %s: %w", r.id, err)
			}
			dirty = false
			pending = 0
			lastSave = time.Now()
		}
		return nil
	})

	if dirty {
		// Graceful stop or teardown: commit what the handler already
		// acknowledged. The save context must survive cancellation.
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if saveErr := r.store.Save(flushCtx, r.id.Name, r.id.Key, current); saveErr != nil {
			if err == nil || errors.Is(err, context.Canceled) {
				err = fmt.Errorf("save offset for %s on stop: %w", r.id, saveErr)
			} else {
				log.Printf("projection %s: save offset on teardown: %v", r.id, saveErr)
			}
		}
	}
	return err
}

func (r *Runner) attemptExactlyOnce(ctx context.Context) error {
	var current journal.TimestampOffset
	loadOffset := func(ctx context.Context) (journal.TimestampOffset, error) {
		offset, err := r.loadOffset(ctx)
		if err != nil {
			return journal.TimestampOffset{}, err
		}
		current = offset
		return offset, nil
	}
	return r.source(ctx, loadOffset, func(env journal.Envelope) error {
		next, advanced := advanceOffset(current, env)
		if !advanced {
			return nil
		}
		if env.Payload == nil {
			// Filtered placeholder: only the offset moves.
			if err := r.store.Save(ctx, r.id.Name, r.id.Key, next); err != nil {
				return fmt.Errorf("save offset for %s: %w", r.id, err)
			}
			current = next
			return nil
		}
		err := r.txStore.InTx(ctx, func(tx *sql.Tx) error {
			if err := r.exactlyOnce.ProcessInTx(ctx, tx, env); err != nil {
				return fmt.Errorf("handle %s/%d: %w", env.PersistenceID, env.SeqNr, err)
			}
			return r.txStore.SaveInTx(ctx, tx, r.id.Name, r.id.Key, next)
		})
		if err != nil {
			return err
		}
		current = next
		return nil
	})
}

func (r *Runner) attemptGrouped(ctx context.Context) error {
	// The source goroutine reseeds the cursor on reconnect while the
	// select loop advances it, so reads and writes are guarded.
	var curMu sync.Mutex
	var current journal.TimestampOffset

	group := make([]journal.Envelope, 0, r.opts.GroupSize)
	flush := func(ctx context.Context) error {
		if len(group) == 0 {
			return nil
		}
		handled := group
		group = group[:0]
		batch := make([]journal.Envelope, 0, len(handled))
		for _, env := range handled {
			if env.Payload != nil {
				batch = append(batch, env)
			}
		}
		if len(batch) > 0 {
			if err := r.groupedHandler.ProcessGroup(ctx, batch); err != nil {
				return fmt.Errorf("handle group of %d: %w", len(batch), err)
			}
		}
		curMu.Lock()
		offset := current
		curMu.Unlock()
		if err := r.store.Save(ctx, r.id.Name, r.id.Key, offset); err != nil {
			return fmt.Errorf("save offset for %s: %w", r.id, err)
		}
		return nil
	}

	loadOffset := func(ctx context.Context) (journal.TimestampOffset, error) {
		offset, err := r.loadOffset(ctx)
		if err != nil {
			return journal.TimestampOffset{}, err
		}
		curMu.Lock()
		current = offset
		curMu.Unlock()
		return offset, nil
	}

	envCh := make(chan journal.Envelope)
	srcCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	srcErr := make(chan error, 1)
	go func() {
		srcErr <- r.source(srcCtx, loadOffset, func(env journal.Envelope) error {
			select {
			case envCh <- env:
				return nil
			case <-srcCtx.Done():
				return srcCtx.Err()
			}
		})
	}()

	ticker := time.NewTicker(r.opts.GroupTimeout)
	defer ticker.Stop()

	for {
		select {
		case env := <-envCh:
			curMu.Lock()
			next, advanced := advanceOffset(current, env)
			if advanced {
				current = next
			}
			curMu.Unlock()
			if !advanced {
				continue
			}
			group = append(group, env)
			if len(group) >= r.opts.GroupSize {
				if err := flush(ctx); err != nil {
					cancel()
					<-srcErr
					return err
				}
				ticker.Reset(r.opts.GroupTimeout)
			}
		case <-ticker.C:
			if err := flush(ctx); err != nil {
				cancel()
				<-srcErr
				return err
			}
		case err := <-srcErr:
			// Source ended (context cancelled or stream failure);
			// commit what the handler already processed.
			flushCtx, cancelFlush := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancelFlush()
			if flushErr := flush(flushCtx); flushErr != nil && err == nil {
				err = flushErr
			}
			return err
		}
	}
}
