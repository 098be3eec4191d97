package producer

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	replicationv1 "github.com/louisbranch/eventwire/api/replication/v1"
	"github.com/louisbranch/eventwire/internal/filter"
	"github.com/louisbranch/eventwire/internal/journal"
	"github.com/louisbranch/eventwire/internal/slice"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	anypb "google.golang.org/protobuf/types/known/anypb"
	timestamppb "google.golang.org/protobuf/types/known/timestamppb"
)

const (
	testEntityType = "cart"
	testStreamID   = "cart-events"
	testTypeURL    = "type.googleapis.com/shopping.cart.ItemAdded"
)

// memJournal is an in-memory journal.Query for protocol tests.
type memJournal struct {
	mu   sync.Mutex
	envs []journal.Envelope
}

func (m *memJournal) append(pid string, seqNr int64, at time.Time, tags ...string) journal.Envelope {
	env := journal.Envelope{
		PersistenceID: pid,
		SeqNr:         seqNr,
		Slice:         slice.Number(pid),
		Offset: journal.TimestampOffset{
			Timestamp: at,
			Seen:      map[string]int64{pid: seqNr},
		},
		Payload: &anypb.Any{TypeUrl: testTypeURL, Value: []byte("payload")},
		Tags:    tags,
		Source:  journal.SourceQuery,
	}
	m.mu.Lock()
	m.envs = append(m.envs, env)
	m.mu.Unlock()
	return env
}

func (m *memJournal) EventsBySlices(ctx context.Context, entityType string, minSlice, maxSlice int32, offset journal.TimestampOffset, fn func(journal.Envelope) error) error {
	idx := 0
	current := offset
	for {
		m.mu.Lock()
		pending := append([]journal.Envelope{}, m.envs[idx:]...)
		idx = len(m.envs)
		m.mu.Unlock()
		for _, env := range pending {
			if env.Slice < minSlice || env.Slice > maxSlice {
				continue
			}
			if offset.Covers(env.Offset.Timestamp, env.PersistenceID, env.SeqNr) {
				continue
			}
			current = current.Advance(env)
			env.Offset = current
			if err := fn(env); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func (m *memJournal) CurrentEventsByPersistenceID(ctx context.Context, entityType, persistenceID string, fromSeqNr int64, fn func(journal.Envelope) error) error {
	m.mu.Lock()
	envs := append([]journal.Envelope{}, m.envs...)
	m.mu.Unlock()
	for _, env := range envs {
		if env.PersistenceID != persistenceID || env.SeqNr < fromSeqNr {
			continue
		}
		env.Source = journal.SourceReplay
		if err := fn(env); err != nil {
			return err
		}
	}
	return nil
}

func (m *memJournal) EventTimestamp(ctx context.Context, entityType, persistenceID string, seqNr int64) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, env := range m.envs {
		if env.PersistenceID == persistenceID && env.SeqNr == seqNr {
			return env.Offset.Timestamp, nil
		}
	}
	return time.Time{}, journal.ErrEventNotFound
}

func (m *memJournal) LoadEvent(ctx context.Context, entityType, persistenceID string, seqNr int64) (journal.Envelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, env := range m.envs {
		if env.PersistenceID == persistenceID && env.SeqNr == seqNr {
			return env, nil
		}
	}
	return journal.Envelope{}, journal.ErrEventNotFound
}

type testHarness struct {
	journal *memJournal
	filters *filter.Registry
	client  replicationv1.EventProducerServiceClient
}

func newHarness(t *testing.T, src EventProducerSource) *testHarness {
	t.Helper()
	q := &memJournal{}
	filters := filter.NewRegistry()
	if src.EntityType == "" {
		src.EntityType = testEntityType
	}
	if src.StreamID == "" {
		src.StreamID = testStreamID
	}
	if src.Transformation == nil {
		src.Transformation = NewTransformation().RegisterIdentity(testTypeURL)
	}
	service, err := NewService(q, filters, src)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := grpc.NewServer()
	replicationv1.RegisterEventProducerServiceServer(server, service)
	go server.Serve(listener)
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient(listener.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return &testHarness{journal: q, filters: filters, client: replicationv1.NewEventProducerServiceClient(conn)}
}

func openStream(t *testing.T, h *testHarness, init *replicationv1.Init) grpc.BidiStreamingClient[replicationv1.StreamIn, replicationv1.StreamOut] {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	stream, err := h.client.ReplicateEvents(ctx)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	if err := stream.Send(&replicationv1.StreamIn{Message: &replicationv1.StreamIn_Init{Init: init}}); err != nil {
		t.Fatalf("send init: %v", err)
	}
	return stream
}

func fullRangeInit(criteria ...*replicationv1.FilterCriteria) *replicationv1.Init {
	return &replicationv1.Init{
		StreamId: testStreamID,
		SliceMin: 0,
		SliceMax: slice.Count - 1,
		Filter:   criteria,
	}
}

// recvN collects n stream messages, failing the test on timeout.
func recvN(t *testing.T, stream grpc.BidiStreamingClient[replicationv1.StreamIn, replicationv1.StreamOut], n int) []*replicationv1.StreamOut {
	t.Helper()
	type result struct {
		msg *replicationv1.StreamOut
		err error
	}
	results := make(chan result, n)
	go func() {
		for i := 0; i < n; i++ {
			msg, err := stream.Recv()
			results <- result{msg: msg, err: err}
			if err != nil {
				return
			}
		}
	}()

	var out []*replicationv1.StreamOut
	for i := 0; i < n; i++ {
		select {
		case r := <-results:
			if r.err != nil {
				t.Fatalf("recv %d: %v", i, r.err)
			}
			out = append(out, r.msg)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for message %d of %d", i+1, n)
		}
	}
	return out
}

func recvStatus(t *testing.T, stream grpc.BidiStreamingClient[replicationv1.StreamIn, replicationv1.StreamOut], want codes.Code) {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		_, err := stream.Recv()
		done <- err
	}()
	select {
	case err := <-done:
		if status.Code(err) != want {
			t.Fatalf("stream error = %v, want code %v", err, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for stream error")
	}
}

func TestFirstMessageMustBeInit(t *testing.T) {
	h := newHarness(t, EventProducerSource{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream, err := h.client.ReplicateEvents(ctx)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	if err := stream.Send(&replicationv1.StreamIn{Message: &replicationv1.StreamIn_Filter{
		Filter: &replicationv1.FilterReq{},
	}}); err != nil {
		t.Fatalf("send filter: %v", err)
	}
	recvStatus(t, stream, codes.InvalidArgument)
}

func TestUnknownStreamIDRejected(t *testing.T) {
	h := newHarness(t, EventProducerSource{})
	stream := openStream(t, h, &replicationv1.Init{
		StreamId: "unknown",
		SliceMax: slice.Count - 1,
	})
	recvStatus(t, stream, codes.NotFound)
}

func TestInvalidSliceRangeRejected(t *testing.T) {
	h := newHarness(t, EventProducerSource{})
	stream := openStream(t, h, &replicationv1.Init{
		StreamId: testStreamID,
		SliceMin: 512,
		SliceMax: 100,
	})
	recvStatus(t, stream, codes.InvalidArgument)
}

func TestEmitsEventsInOrder(t *testing.T) {
	h := newHarness(t, EventProducerSource{})
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := int64(1); i <= 3; i++ {
		h.journal.append("a", i, at.Add(time.Duration(i)*time.Millisecond))
	}

	stream := openStream(t, h, fullRangeInit())
	msgs := recvN(t, stream, 3)
	for i, msg := range msgs {
		event := msg.GetEvent()
		if event == nil {
			t.Fatalf("message %d is not an event: %v", i, msg)
		}
		if event.GetPersistenceId() != "a" || event.GetSeqNr() != int64(i+1) {
			t.Fatalf("event %d = %s/%d, want a/%d", i, event.GetPersistenceId(), event.GetSeqNr(), i+1)
		}
		if event.GetPayload().GetTypeUrl() != testTypeURL {
			t.Fatalf("event %d payload type = %q", i, event.GetPayload().GetTypeUrl())
		}
		if event.GetOffset() == nil {
			t.Fatalf("event %d carries no offset", i)
		}
	}
}

func TestConsumerFilterEmitsPlaceholders(t *testing.T) {
	h := newHarness(t, EventProducerSource{})
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Excluded outright.
	h.journal.append("b", 7, at, "small")
	// Excluded but re-included by tag.
	h.journal.append("c", 1, at.Add(time.Millisecond), "small", "large")

	stream := openStream(t, h, fullRangeInit(
		&replicationv1.FilterCriteria{Message: &replicationv1.FilterCriteria_ExcludeTags{
			ExcludeTags: &replicationv1.ExcludeTags{Tags: []string{"small"}},
		}},
		&replicationv1.FilterCriteria{Message: &replicationv1.FilterCriteria_IncludeTags{
			IncludeTags: &replicationv1.IncludeTags{Tags: []string{"large"}},
		}},
	))
	msgs := recvN(t, stream, 2)

	filtered := msgs[0].GetFilteredEvent()
	if filtered == nil {
		t.Fatalf("first message should be a filtered placeholder: %v", msgs[0])
	}
	if filtered.GetPersistenceId() != "b" || filtered.GetSeqNr() != 7 {
		t.Fatalf("placeholder = %s/%d, want b/7", filtered.GetPersistenceId(), filtered.GetSeqNr())
	}
	if filtered.GetOffset() == nil {
		t.Fatal("placeholder carries no offset")
	}

	event := msgs[1].GetEvent()
	if event == nil {
		t.Fatalf("second message should be a full event: %v", msgs[1])
	}
	if event.GetPersistenceId() != "c" {
		t.Fatalf("event pid = %q, want c", event.GetPersistenceId())
	}
}

func TestProducerFilterDropsSilently(t *testing.T) {
	h := newHarness(t, EventProducerSource{
		ProducerFilter: func(env journal.Envelope) bool {
			for _, tag := range env.Tags {
				if tag == "internal" {
					return false
				}
			}
			return true
		},
	})
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.journal.append("a", 1, at, "internal")
	h.journal.append("a", 2, at.Add(time.Millisecond))

	stream := openStream(t, h, fullRangeInit())
	msgs := recvN(t, stream, 1)
	event := msgs[0].GetEvent()
	if event == nil || event.GetSeqNr() != 2 {
		t.Fatalf("first delivered message = %v, want event a/2 (a/1 dropped without placeholder)", msgs[0])
	}
}

func TestUnknownPayloadTypeFailsStream(t *testing.T) {
	h := newHarness(t, EventProducerSource{
		Transformation: NewTransformation().RegisterIdentity("type.googleapis.com/other.Type"),
	})
	h.journal.append("a", 1, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	stream := openStream(t, h, fullRangeInit())
	recvStatus(t, stream, codes.Unimplemented)
}

func TestFilterUpdateAppliesMidStream(t *testing.T) {
	h := newHarness(t, EventProducerSource{})
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.journal.append("a", 1, at)

	stream := openStream(t, h, fullRangeInit())
	first := recvN(t, stream, 1)
	if first[0].GetEvent() == nil {
		t.Fatalf("first message = %v, want event", first[0])
	}

	if err := stream.Send(&replicationv1.StreamIn{Message: &replicationv1.StreamIn_Filter{
		Filter: &replicationv1.FilterReq{Criteria: []*replicationv1.FilterCriteria{
			{Message: &replicationv1.FilterCriteria_ExcludeEntityIds{
				ExcludeEntityIds: &replicationv1.ExcludeEntityIds{EntityIds: []string{"a"}},
			}},
		}},
	}}); err != nil {
		t.Fatalf("send filter: %v", err)
	}

	// The update races the next append; wait for it to land in the
	// shared registry before producing the event.
	deadline := time.Now().Add(2 * time.Second)
	for h.filters.Snapshot(testStreamID).Size() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("filter update did not reach the registry")
		}
		time.Sleep(5 * time.Millisecond)
	}
	h.journal.append("a", 2, at.Add(time.Second))

	second := recvN(t, stream, 1)
	filtered := second[0].GetFilteredEvent()
	if filtered == nil || filtered.GetSeqNr() != 2 {
		t.Fatalf("post-update message = %v, want filtered placeholder a/2", second[0])
	}
}

func TestReplayInterleavesRequestedEntities(t *testing.T) {
	h := newHarness(t, EventProducerSource{})
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.journal.append("a", 1, at)
	h.journal.append("a", 2, at.Add(time.Millisecond))

	// Start past the existing events so only the replay emits.
	stream := openStream(t, h, &replicationv1.Init{
		StreamId: testStreamID,
		SliceMin: 0,
		SliceMax: slice.Count - 1,
		Offset: &replicationv1.Offset{
			Timestamp: timestamppb.New(at.Add(time.Hour)),
		},
	})
	if err := stream.Send(&replicationv1.StreamIn{Message: &replicationv1.StreamIn_Replay{
		Replay: &replicationv1.ReplayReq{PersistenceIdOffsets: []*replicationv1.PersistenceIdSeqNr{
			{PersistenceId: "a", SeqNr: 2},
		}},
	}}); err != nil {
		t.Fatalf("send replay: %v", err)
	}

	msgs := recvN(t, stream, 1)
	event := msgs[0].GetEvent()
	if event == nil || event.GetSeqNr() != 2 {
		t.Fatalf("replayed message = %v, want event a/2", msgs[0])
	}
	if event.GetSource() != journal.SourceReplay {
		t.Fatalf("replayed source = %q, want %q", event.GetSource(), journal.SourceReplay)
	}
}

func TestLoadEventRoundTrip(t *testing.T) {
	h := newHarness(t, EventProducerSource{})
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	appended := h.journal.append("a", 1, at)

	resp, err := h.client.LoadEvent(context.Background(), &replicationv1.LoadEventRequest{
		StreamId:      testStreamID,
		PersistenceId: "a",
		SeqNr:         1,
	})
	if err != nil {
		t.Fatalf("load event: %v", err)
	}
	event := resp.GetEvent()
	if event == nil {
		t.Fatalf("load event response = %v, want event", resp)
	}
	if event.GetPersistenceId() != "a" || event.GetSeqNr() != 1 {
		t.Fatalf("loaded %s/%d, want a/1", event.GetPersistenceId(), event.GetSeqNr())
	}
	if string(event.GetPayload().GetValue()) != string(appended.Payload.Value) {
		t.Fatalf("payload = %q, want %q", event.GetPayload().GetValue(), appended.Payload.Value)
	}

	_, err = h.client.LoadEvent(context.Background(), &replicationv1.LoadEventRequest{
		StreamId:      testStreamID,
		PersistenceId: "a",
		SeqNr:         9,
	})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("load missing event = %v, want NotFound", err)
	}
}

func TestLoadEventHonorsConsumerFilter(t *testing.T) {
	h := newHarness(t, EventProducerSource{})
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.journal.append("b", 7, at, "small")

	if err := h.filters.Update(testStreamID, []filter.Criteria{filter.ExcludeTags{Tags: []string{"small"}}}); err != nil {
		t.Fatalf("update filter: %v", err)
	}

	resp, err := h.client.LoadEvent(context.Background(), &replicationv1.LoadEventRequest{
		StreamId:      testStreamID,
		PersistenceId: "b",
		SeqNr:         7,
	})
	if err != nil {
		t.Fatalf("load event: %v", err)
	}
	filtered := resp.GetFilteredEvent()
	if filtered == nil || filtered.GetSeqNr() != 7 {
		t.Fatalf("response = %v, want filtered placeholder b/7", resp)
	}
}

func TestEventTimestampRPC(t *testing.T) {
	h := newHarness(t, EventProducerSource{})
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.journal.append("a", 1, at)

	resp, err := h.client.EventTimestamp(context.Background(), &replicationv1.EventTimestampRequest{
		StreamId:      testStreamID,
		PersistenceId: "a",
		SeqNr:         1,
	})
	if err != nil {
		t.Fatalf("event timestamp: %v", err)
	}
	if !resp.GetTimestamp().AsTime().Equal(at) {
		t.Fatalf("timestamp = %v, want %v", resp.GetTimestamp().AsTime(), at)
	}

	_, err = h.client.EventTimestamp(context.Background(), &replicationv1.EventTimestampRequest{
		StreamId:      testStreamID,
		PersistenceId: "missing",
		SeqNr:         1,
	})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("missing event timestamp = %v, want NotFound", err)
	}
}

func TestTransformationRequiresRegistration(t *testing.T) {
	tr := NewTransformation()
	_, _, err := tr.Apply(journal.Envelope{Payload: &anypb.Any{TypeUrl: testTypeURL}})
	if !errors.Is(err, ErrUnknownPayloadType) {
		t.Fatalf("apply without mappers = %v, want ErrUnknownPayloadType", err)
	}

	tr.RegisterIdentity(testTypeURL)
	payload, keep, err := tr.Apply(journal.Envelope{Payload: &anypb.Any{TypeUrl: testTypeURL, Value: []byte("x")}})
	if err != nil || !keep {
		t.Fatalf("apply = (%v, %v), want kept payload", keep, err)
	}
	if string(payload.Value) != "x" {
		t.Fatalf("payload = %q, want x", payload.Value)
	}
}
