package wire

import (
	"testing"
	"time"

	"github.com/louisbranch/eventwire/internal/journal"
	anypb "google.golang.org/protobuf/types/known/anypb"
)

func TestOffsetRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	offset := journal.TimestampOffset{
		Timestamp: at,
		Seen:      map[string]int64{"a": 3, "b": 7},
	}

	back := ToOffset(FromOffset(offset))
	if !back.Timestamp.Equal(at) {
		t.Fatalf("timestamp = %v, want %v", back.Timestamp, at)
	}
	if len(back.Seen) != 2 || back.Seen["a"] != 3 || back.Seen["b"] != 7 {
		t.Fatalf("seen = %v, want a:3 b:7", back.Seen)
	}
}

func TestZeroOffsetIsAbsentOnTheWire(t *testing.T) {
	if FromOffset(journal.TimestampOffset{}) != nil {
		t.Fatal("zero offset should convert to nil")
	}
	if !ToOffset(nil).Zero() {
		t.Fatal("nil wire offset should convert to the zero offset")
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	env := journal.Envelope{
		PersistenceID: "a",
		SeqNr:         4,
		Slice:         17,
		Offset:        journal.TimestampOffset{Timestamp: at, Seen: map[string]int64{"a": 4}},
		Payload:       &anypb.Any{TypeUrl: "type.googleapis.com/t", Value: []byte("body")},
		Tags:          []string{"large"},
		Source:        journal.SourceQuery,
	}

	back := ToEnvelope(FromEnvelope(env, env.Payload))
	if back.PersistenceID != "a" || back.SeqNr != 4 || back.Slice != 17 {
		t.Fatalf("addressing = %s/%d slice %d, want a/4 slice 17", back.PersistenceID, back.SeqNr, back.Slice)
	}
	if string(back.Payload.GetValue()) != "body" {
		t.Fatalf("payload = %q, want body", back.Payload.GetValue())
	}
	if len(back.Tags) != 1 || back.Tags[0] != "large" {
		t.Fatalf("tags = %v, want [large]", back.Tags)
	}

	filtered := ToFilteredEnvelope(FilteredFromEnvelope(env))
	if filtered.Payload != nil {
		t.Fatal("filtered envelope must carry no payload")
	}
	if filtered.PersistenceID != "a" || filtered.SeqNr != 4 {
		t.Fatalf("filtered addressing = %s/%d, want a/4", filtered.PersistenceID, filtered.SeqNr)
	}
}
