// Package consumer implements the client side of the replication
// protocol: a read journal that opens replication streams against a
// producer, survives disconnects, and re-establishes its filter on
// every reconnect.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	replicationv1 "github.com/louisbranch/eventwire/api/replication/v1"
	"github.com/louisbranch/eventwire/internal/filter"
	"github.com/louisbranch/eventwire/internal/journal"
	"github.com/louisbranch/eventwire/internal/slice"
	"github.com/louisbranch/eventwire/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// BackoffSettings shapes the reconnect schedule.
type BackoffSettings struct {
	Min    time.Duration
	Max    time.Duration
	Factor float64
}

const (
	defaultBackoffMin    = 200 * time.Millisecond
	defaultBackoffMax    = 5 * time.Second
	defaultBackoffFactor = 1.1

	// protocolRetryDelay spaces reconnects after protocol-fatal stream
	// errors so the failure stays visible to an operator instead of
	// turning into a hot loop.
	protocolRetryDelay = 10 * time.Second
)

func (b BackoffSettings) normalized() BackoffSettings {
	if b.Min <= 0 {
		b.Min = defaultBackoffMin
	}
	if b.Max <= 0 {
		b.Max = defaultBackoffMax
	}
	if b.Factor <= 1 {
		b.Factor = defaultBackoffFactor
	}
	return b
}

func (b BackoffSettings) schedule() *backoff.ExponentialBackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = b.Min
	eb.MaxInterval = b.Max
	eb.Multiplier = b.Factor
	return eb
}

// Config configures a read journal.
type Config struct {
	// StreamID selects the producer source to replicate.
	StreamID string
	// Backoff shapes the reconnect schedule.
	Backoff BackoffSettings
}

// ReadJournal opens replication streams against one producer endpoint.
// It maintains the consumer-side filter and forwards updates to every
// live stream; the filter is re-sent on each reconnect.
type ReadJournal struct {
	client   replicationv1.EventProducerServiceClient
	streamID string
	backoff  BackoffSettings

	mu      sync.Mutex
	set     *filter.Set
	streams map[int]*liveStream
	nextID  int
}

type liveStream struct {
	scope  slice.Range
	sendMu sync.Mutex
	stream grpc.BidiStreamingClient[replicationv1.StreamIn, replicationv1.StreamOut]
}

func (ls *liveStream) send(msg *replicationv1.StreamIn) error {
	ls.sendMu.Lock()
	defer ls.sendMu.Unlock()
	return ls.stream.Send(msg)
}

// NewReadJournal creates a read journal on an established connection.
func NewReadJournal(conn grpc.ClientConnInterface, cfg Config) (*ReadJournal, error) {
	if conn == nil {
		return nil, fmt.Errorf("producer connection is required")
	}
	if cfg.StreamID == "" {
		return nil, fmt.Errorf("stream id is required")
	}
	return &ReadJournal{
		client:   replicationv1.NewEventProducerServiceClient(conn),
		streamID: cfg.StreamID,
		backoff:  cfg.Backoff.normalized(),
		set:      filter.NewSet(),
		streams:  map[int]*liveStream{},
	}, nil
}

// StreamID returns the stream id this journal replicates.
func (rj *ReadJournal) StreamID() string {
	return rj.streamID
}

// UpdateFilter applies criteria to the consumer filter and forwards them
// to every live stream. The update is kept and re-established on
// reconnect.
func (rj *ReadJournal) UpdateFilter(criteria []filter.Criteria) error {
	rj.mu.Lock()
	next, err := rj.set.Apply(criteria)
	if err != nil {
		rj.mu.Unlock()
		return fmt.Errorf("update consumer filter: %w", err)
	}
	rj.set = next
	targets := make([]*liveStream, 0, len(rj.streams))
	for _, ls := range rj.streams {
		targets = append(targets, ls)
	}
	rj.mu.Unlock()

	pbCriteria, err := filter.ToProto(criteria)
	if err != nil {
		return fmt.Errorf("encode consumer filter: %w", err)
	}
	msg := &replicationv1.StreamIn{Message: &replicationv1.StreamIn_Filter{
		Filter: &replicationv1.FilterReq{Criteria: pbCriteria},
	}}
	for _, ls := range targets {
		if err := ls.send(msg); err != nil {
			// The stream is about to reconnect and will pick up the
			// filter snapshot with its Init.
			log.Printf("forward filter to stream %s %s: %v", rj.streamID, ls.scope, err)
		}
	}
	return nil
}

// RequestReplay asks the producer to re-emit an entity from a seq nr
// floor on the live stream owning the entity's slice.
func (rj *ReadJournal) RequestReplay(persistenceID string, fromSeqNr int64) error {
	sl := slice.Number(persistenceID)
	rj.mu.Lock()
	var target *liveStream
	for _, ls := range rj.streams {
		if ls.scope.Contains(sl) {
			target = ls
			break
		}
	}
	rj.mu.Unlock()
	if target == nil {
		return fmt.Errorf("no live stream owns slice %d of %q", sl, persistenceID)
	}
	return target.send(&replicationv1.StreamIn{Message: &replicationv1.StreamIn_Replay{
		Replay: &replicationv1.ReplayReq{PersistenceIdOffsets: []*replicationv1.PersistenceIdSeqNr{
			{PersistenceId: persistenceID, SeqNr: fromSeqNr},
		}},
	}})
}

func (rj *ReadJournal) register(ls *liveStream) int {
	rj.mu.Lock()
	defer rj.mu.Unlock()
	id := rj.nextID
	rj.nextID++
	rj.streams[id] = ls
	return id
}

func (rj *ReadJournal) unregister(id int) {
	rj.mu.Lock()
	defer rj.mu.Unlock()
	delete(rj.streams, id)
}

func (rj *ReadJournal) filterSnapshot() []filter.Criteria {
	rj.mu.Lock()
	defer rj.mu.Unlock()
	return rj.set.Criteria()
}

// Run replicates the slice range, invoking fn for every envelope in
// stream order. Transport failures reconnect indefinitely with backoff,
// re-sending Init with the offset loaded through loadOffset and the
// current filter snapshot. Run returns when ctx ends or fn fails.
func (rj *ReadJournal) Run(ctx context.Context, scope slice.Range, loadOffset func(context.Context) (journal.TimestampOffset, error), fn func(journal.Envelope) error) error {
	if loadOffset == nil {
		return fmt.Errorf("offset loader is required")
	}
	if fn == nil {
		return fmt.Errorf("envelope callback is required")
	}

	schedule := rj.backoff.schedule()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := rj.runOnce(ctx, scope, loadOffset, fn, schedule)
		var handlerFailure errHandler
		switch {
		case err == nil:
			// Producer closed the stream cleanly; reconnect.
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.As(err, &handlerFailure):
			// Handler failures propagate to the projection runner, which
			// restarts from the stored offset.
			return handlerFailure.err
		case isProtocolFatal(err):
			log.Printf("replication stream %s %s protocol error: %v", rj.streamID, scope, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(protocolRetryDelay):
			}
			continue
		case isTransport(err):
			delay := schedule.NextBackOff()
			log.Printf("replication stream %s %s disconnected, reconnecting in %v: %v", rj.streamID, scope, delay, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		default:
			return err
		}
	}
}

func (rj *ReadJournal) runOnce(ctx context.Context, scope slice.Range, loadOffset func(context.Context) (journal.TimestampOffset, error), fn func(journal.Envelope) error, schedule *backoff.ExponentialBackOff) error {
	offset, err := loadOffset(ctx)
	if err != nil {
		// Offset store failures propagate like handler failures: the
		// projection runner restarts and re-reads durable state.
		return errHandler{err: fmt.Errorf("load offset: %w", err)}
	}

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := rj.client.ReplicateEvents(streamCtx)
	if err != nil {
		return fmt.Errorf("open replication stream: %w", err)
	}

	pbFilter, err := filter.ToProto(rj.filterSnapshot())
	if err != nil {
		return fmt.Errorf("encode filter snapshot: %w", err)
	}
	init := &replicationv1.StreamIn{Message: &replicationv1.StreamIn_Init{
		Init: &replicationv1.Init{
			StreamId: rj.streamID,
			SliceMin: scope.Min,
			SliceMax: scope.Max,
			Offset:   wire.FromOffset(offset),
			Filter:   pbFilter,
		},
	}}

	ls := &liveStream{scope: scope, stream: stream}
	if err := ls.send(init); err != nil {
		return fmt.Errorf("send init: %w", err)
	}
	id := rj.register(ls)
	defer rj.unregister(id)

	for {
		msg, err := stream.Recv()
		if err != nil {
			return err
		}
		schedule.Reset()
		var env journal.Envelope
		switch m := msg.GetMessage().(type) {
		case *replicationv1.StreamOut_Event:
			env = wire.ToEnvelope(m.Event)
		case *replicationv1.StreamOut_FilteredEvent:
			env = wire.ToFilteredEnvelope(m.FilteredEvent)
		default:
			return fmt.Errorf("unexpected stream message %T", m)
		}
		if err := fn(env); err != nil {
			return errHandler{err: err}
		}
	}
}

// errHandler wraps envelope callback failures so the reconnect loop can
// tell them apart from transport errors.
type errHandler struct {
	err error
}

func (e errHandler) Error() string { return e.err.Error() }
func (e errHandler) Unwrap() error { return e.err }

// LoadEnvelope fetches one event for targeted catch-up. A consumer-side
// filtered event returns a payloadless envelope.
func (rj *ReadJournal) LoadEnvelope(ctx context.Context, persistenceID string, seqNr int64) (journal.Envelope, error) {
	resp, err := rj.client.LoadEvent(ctx, &replicationv1.LoadEventRequest{
		StreamId:      rj.streamID,
		PersistenceId: persistenceID,
		SeqNr:         seqNr,
	})
	if err != nil {
		return journal.Envelope{}, fmt.Errorf("load event %s/%d: %w", persistenceID, seqNr, err)
	}
	switch m := resp.GetMessage().(type) {
	case *replicationv1.LoadEventResponse_Event:
		return wire.ToEnvelope(m.Event), nil
	case *replicationv1.LoadEventResponse_FilteredEvent:
		return wire.ToFilteredEnvelope(m.FilteredEvent), nil
	default:
		return journal.Envelope{}, fmt.Errorf("load event %s/%d: empty response", persistenceID, seqNr)
	}
}

// EventTimestamp fetches the journal timestamp of one event.
func (rj *ReadJournal) EventTimestamp(ctx context.Context, persistenceID string, seqNr int64) (time.Time, error) {
	resp, err := rj.client.EventTimestamp(ctx, &replicationv1.EventTimestampRequest{
		StreamId:      rj.streamID,
		PersistenceId: persistenceID,
		SeqNr:         seqNr,
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("event timestamp %s/%d: %w", persistenceID, seqNr, err)
	}
	ts := resp.GetTimestamp()
	if ts == nil {
		return time.Time{}, fmt.Errorf("event timestamp %s/%d: empty response", persistenceID, seqNr)
	}
	return ts.AsTime(), nil
}

func isProtocolFatal(err error) bool {
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	switch st.Code() {
	case codes.InvalidArgument, codes.NotFound, codes.Unimplemented, codes.FailedPrecondition:
		return true
	default:
		return false
	}
}

func isTransport(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	st, ok := status.FromError(err)
	if !ok {
		// Non-status errors from the stream are transport-level.
		return true
	}
	switch st.Code() {
	case codes.Unavailable, codes.Aborted, codes.DeadlineExceeded, codes.Canceled, codes.Internal, codes.Unknown:
		return true
	default:
		return false
	}
}
