package producer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	replicationv1 "github.com/louisbranch/eventwire/api/replication/v1"
	"github.com/louisbranch/eventwire/internal/filter"
	"github.com/louisbranch/eventwire/internal/journal"
	"github.com/louisbranch/eventwire/internal/slice"
	"github.com/louisbranch/eventwire/internal/wire"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	timestamppb "google.golang.org/protobuf/types/known/timestamppb"
)

const (
	maxJournalRetries  = 3
	journalRetryDelay  = 200 * time.Millisecond
	errorInfoDomain    = "eventwire.replication.v1"
	reasonUnknownType  = "UNKNOWN_PAYLOAD_TYPE"
	reasonJournalError = "JOURNAL_UNAVAILABLE"
)

// Service serves replication streams for a set of producer sources.
type Service struct {
	replicationv1.UnimplementedEventProducerServiceServer

	query   journal.Query
	filters *filter.Registry
	sources map[string]EventProducerSource
}

// NewService creates a replication service over a journal query for the
// given sources. Stream ids must be unique.
func NewService(query journal.Query, filters *filter.Registry, sources ...EventProducerSource) (*Service, error) {
	if query == nil {
		return nil, fmt.Errorf("journal query is required")
	}
	if filters == nil {
		return nil, fmt.Errorf("filter registry is required")
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("at least one producer source is required")
	}
	byStream := make(map[string]EventProducerSource, len(sources))
	for _, src := range sources {
		if err := src.validate(); err != nil {
			return nil, fmt.Errorf("producer source %q: %w", src.StreamID, err)
		}
		if _, ok := byStream[src.StreamID]; ok {
			return nil, fmt.Errorf("duplicate stream id %q", src.StreamID)
		}
		src.Settings = src.Settings.normalized()
		byStream[src.StreamID] = src
	}
	return &Service{query: query, filters: filters, sources: byStream}, nil
}

// errSend wraps transport send failures so the stream loop can tell them
// apart from journal failures.
type errSend struct {
	err error
}

func (e errSend) Error() string { return e.err.Error() }
func (e errSend) Unwrap() error { return e.err }

type streamSession struct {
	service *Service
	stream  grpc.BidiStreamingServer[replicationv1.StreamIn, replicationv1.StreamOut]
	source  EventProducerSource
	scope   slice.Range

	sendMu sync.Mutex

	replayMu       sync.Mutex
	replayInFlight map[string]bool
	replaySem      chan struct{}
}

// ReplicateEvents drives one replication stream. The first client
// message must be Init; afterwards Filter and Replay messages are
// handled concurrently with emissions.
func (s *Service) ReplicateEvents(stream grpc.BidiStreamingServer[replicationv1.StreamIn, replicationv1.StreamOut]) error {
	first, err := stream.Recv()
	if errors.Is(err, io.EOF) {
		log.Printf("replication stream closed before init")
		return nil
	}
	if err != nil {
		return err
	}
	init := first.GetInit()
	if init == nil {
		return status.Error(codes.InvalidArgument, "first message must be init")
	}
	src, ok := s.sources[init.GetStreamId()]
	if !ok {
		return statusWithStream(codes.NotFound, "unknown stream id", "UNKNOWN_STREAM_ID", init.GetStreamId())
	}
	if !slice.RangeValid(init.GetSliceMin(), init.GetSliceMax()) {
		return status.Errorf(codes.InvalidArgument, "invalid slice range %d-%d", init.GetSliceMin(), init.GetSliceMax())
	}

	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()

	session := &streamSession{
		service:        s,
		stream:         stream,
		source:         src,
		scope:          slice.Range{Min: init.GetSliceMin(), Max: init.GetSliceMax()},
		replayInFlight: map[string]bool{},
		replaySem:      make(chan struct{}, src.Settings.ReplayParallelism),
	}

	if err := session.applyCriteria(ctx, init.GetFilter()); err != nil {
		return err
	}

	recvErr := make(chan error, 1)
	go session.receive(ctx, cancel, recvErr)

	offset := wire.ToOffset(init.GetOffset())
	log.Printf("replication stream %s %s started", src.StreamID, session.scope)
	err = session.run(ctx, offset)
	cancel()
	// The receive pump may still be blocked in Recv; it unblocks when
	// the handler returns. Pick up a protocol error it already reported.
	select {
	case rerr := <-recvErr:
		if rerr != nil && err == nil {
			err = rerr
		}
	default:
	}
	log.Printf("replication stream %s %s closed", src.StreamID, session.scope)
	return err
}

// receive pumps client messages until the stream ends. Filter updates
// mutate the shared registry; replay requests are interleaved into the
// outgoing stream.
func (ss *streamSession) receive(ctx context.Context, cancel context.CancelFunc, done chan<- error) {
	defer cancel()
	for {
		msg, err := ss.stream.Recv()
		if err != nil {
			// io.EOF is a clean client close; everything else surfaces
			// on the main loop via context cancellation.
			done <- nil
			return
		}
		switch m := msg.GetMessage().(type) {
		case *replicationv1.StreamIn_Filter:
			if err := ss.applyCriteria(ctx, m.Filter.GetCriteria()); err != nil {
				done <- err
				return
			}
		case *replicationv1.StreamIn_Replay:
			for _, po := range m.Replay.GetPersistenceIdOffsets() {
				ss.scheduleReplay(ctx, po.GetPersistenceId(), po.GetSeqNr())
			}
		default:
			done <- status.Error(codes.InvalidArgument, "init is only valid as the first message")
			return
		}
	}
}

// applyCriteria updates the shared filter and schedules replays for
// include criteria carrying a seq nr floor.
func (ss *streamSession) applyCriteria(ctx context.Context, pbCriteria []*replicationv1.FilterCriteria) error {
	if len(pbCriteria) == 0 {
		return nil
	}
	criteria, err := filter.FromProto(pbCriteria)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if err := ss.service.filters.Update(ss.source.StreamID, criteria); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	for _, c := range criteria {
		include, ok := c.(filter.IncludeEntityIDs)
		if !ok {
			continue
		}
		for _, off := range include.EntityIDOffsets {
			if off.SeqNr > 0 {
				ss.scheduleReplay(ctx, off.EntityID, off.SeqNr)
			}
		}
	}
	return nil
}

// scheduleReplay starts a bounded side-query re-emitting one entity from
// a seq nr floor. Requests for an entity already in flight are dropped.
func (ss *streamSession) scheduleReplay(ctx context.Context, persistenceID string, fromSeqNr int64) {
	if persistenceID == "" {
		return
	}
	ss.replayMu.Lock()
	if ss.replayInFlight[persistenceID] {
		ss.replayMu.Unlock()
		return
	}
	ss.replayInFlight[persistenceID] = true
	ss.replayMu.Unlock()

	go func() {
		defer func() {
			ss.replayMu.Lock()
			delete(ss.replayInFlight, persistenceID)
			ss.replayMu.Unlock()
		}()
		select {
		case ss.replaySem <- struct{}{}:
			defer func() { <-ss.replaySem }()
		case <-ctx.Done():
			return
		}
		err := ss.service.query.CurrentEventsByPersistenceID(ctx, ss.source.EntityType, persistenceID, fromSeqNr, func(env journal.Envelope) error {
			return ss.emit(env)
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("replay of %s from %d on stream %s: %v", persistenceID, fromSeqNr, ss.source.StreamID, err)
		}
	}()
}

// run drives the journal source, retrying bounded journal failures from
// the latest delivered offset.
func (ss *streamSession) run(ctx context.Context, offset journal.TimestampOffset) error {
	current := offset
	retries := 0
	for {
		err := ss.service.query.EventsBySlices(ctx, ss.source.EntityType, ss.scope.Min, ss.scope.Max, current, func(env journal.Envelope) error {
			if err := ss.emit(env); err != nil {
				return err
			}
			current = env.Offset
			return nil
		})
		var sendFailure errSend
		switch {
		case err == nil:
			return nil
		case ctx.Err() != nil:
			// Client closed or cancelled; not an error for the producer.
			return nil
		case errors.As(err, &sendFailure):
			return fmt.Errorf("send on stream %s: %w", ss.source.StreamID, sendFailure.err)
		case errors.Is(err, ErrUnknownPayloadType):
			return statusWithStream(codes.Unimplemented, err.Error(), reasonUnknownType, ss.source.StreamID)
		default:
			retries++
			if retries > maxJournalRetries {
				return statusWithStream(codes.Unavailable, fmt.Sprintf("journal read failed: %v", err), reasonJournalError, ss.source.StreamID)
			}
			log.Printf("journal read on stream %s %s failed (attempt %d): %v", ss.source.StreamID, ss.scope, retries, err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(journalRetryDelay):
			}
		}
	}
}

// emit applies the producer filter, the consumer filter, and the
// transformation, then sends the resulting message.
func (ss *streamSession) emit(env journal.Envelope) error {
	// Backtracking redeliveries with no payload are not replicated.
	if env.Backtracking && (env.Payload == nil || len(env.Payload.Value) == 0) {
		return nil
	}
	if ss.source.ProducerFilter != nil && !ss.source.ProducerFilter(env) {
		// Statically suppressed: no placeholder, the consumer never
		// learns of this event.
		return nil
	}
	if ss.service.filters.Snapshot(ss.source.StreamID).Suppressed(env) {
		return ss.send(&replicationv1.StreamOut{Message: &replicationv1.StreamOut_FilteredEvent{
			FilteredEvent: wire.FilteredFromEnvelope(env),
		}})
	}
	payload, keep, err := ss.source.Transformation.Apply(env)
	if err != nil {
		return err
	}
	if !keep {
		return nil
	}
	return ss.send(&replicationv1.StreamOut{Message: &replicationv1.StreamOut_Event{
		Event: wire.FromEnvelope(env, payload),
	}})
}

func (ss *streamSession) send(msg *replicationv1.StreamOut) error {
	ss.sendMu.Lock()
	defer ss.sendMu.Unlock()
	if err := ss.stream.Send(msg); err != nil {
		return errSend{err: err}
	}
	return nil
}

// EventTimestamp implements the auxiliary timestamp lookup RPC.
func (s *Service) EventTimestamp(ctx context.Context, req *replicationv1.EventTimestampRequest) (*replicationv1.EventTimestampResponse, error) {
	src, ok := s.sources[req.GetStreamId()]
	if !ok {
		return nil, statusWithStream(codes.NotFound, "unknown stream id", "UNKNOWN_STREAM_ID", req.GetStreamId())
	}
	ts, err := s.query.EventTimestamp(ctx, src.EntityType, req.GetPersistenceId(), req.GetSeqNr())
	if errors.Is(err, journal.ErrEventNotFound) {
		return nil, status.Errorf(codes.NotFound, "event %s/%d not found", req.GetPersistenceId(), req.GetSeqNr())
	}
	if err != nil {
		return nil, statusWithStream(codes.Unavailable, err.Error(), reasonJournalError, src.StreamID)
	}
	return &replicationv1.EventTimestampResponse{Timestamp: timestamppb.New(ts)}, nil
}

// LoadEvent implements the auxiliary single-event RPC. The event passes
// the same filter decision as the stream: producer-filtered events do
// not exist, consumer-filtered events return a placeholder.
func (s *Service) LoadEvent(ctx context.Context, req *replicationv1.LoadEventRequest) (*replicationv1.LoadEventResponse, error) {
	src, ok := s.sources[req.GetStreamId()]
	if !ok {
		return nil, statusWithStream(codes.NotFound, "unknown stream id", "UNKNOWN_STREAM_ID", req.GetStreamId())
	}
	env, err := s.query.LoadEvent(ctx, src.EntityType, req.GetPersistenceId(), req.GetSeqNr())
	if errors.Is(err, journal.ErrEventNotFound) {
		return nil, status.Errorf(codes.NotFound, "event %s/%d not found", req.GetPersistenceId(), req.GetSeqNr())
	}
	if err != nil {
		return nil, statusWithStream(codes.Unavailable, err.Error(), reasonJournalError, src.StreamID)
	}
	if src.ProducerFilter != nil && !src.ProducerFilter(env) {
		return nil, status.Errorf(codes.NotFound, "event %s/%d not found", req.GetPersistenceId(), req.GetSeqNr())
	}
	if s.filters.Snapshot(src.StreamID).Suppressed(env) {
		return &replicationv1.LoadEventResponse{Message: &replicationv1.LoadEventResponse_FilteredEvent{
			FilteredEvent: wire.FilteredFromEnvelope(env),
		}}, nil
	}
	payload, keep, err := src.Transformation.Apply(env)
	if err != nil {
		return nil, statusWithStream(codes.Unimplemented, err.Error(), reasonUnknownType, src.StreamID)
	}
	if !keep {
		return nil, status.Errorf(codes.NotFound, "event %s/%d not found", req.GetPersistenceId(), req.GetSeqNr())
	}
	return &replicationv1.LoadEventResponse{Message: &replicationv1.LoadEventResponse_Event{
		Event: wire.FromEnvelope(env, payload),
	}}, nil
}

func statusWithStream(code codes.Code, msg, reason, streamID string) error {
	st := status.New(code, msg)
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   reason,
		Domain:   errorInfoDomain,
		Metadata: map[string]string{"stream_id": streamID},
	})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}
