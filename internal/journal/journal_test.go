package journal

import (
	"testing"
	"time"
)

func TestCoversBeforeTimestamp(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	offset := TimestampOffset{Timestamp: at, Seen: map[string]int64{"x": 4}}

	if !offset.Covers(at.Add(-time.Second), "anything", 99) {
		t.Fatal("events strictly before the offset timestamp are covered")
	}
	if offset.Covers(at.Add(time.Second), "x", 1) {
		t.Fatal("events strictly after the offset timestamp are not covered")
	}
}

func TestCoversAtEqualTimestamp(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	offset := TimestampOffset{Timestamp: at, Seen: map[string]int64{"x": 4}}

	if !offset.Covers(at, "x", 4) {
		t.Fatal("seen seq nr at equal timestamp is covered")
	}
	if !offset.Covers(at, "x", 3) {
		t.Fatal("lower seq nr of a seen entity at equal timestamp is covered")
	}
	if offset.Covers(at, "x", 5) {
		t.Fatal("higher seq nr of a seen entity is not covered")
	}
	if offset.Covers(at, "y", 9) {
		t.Fatal("unseen entity at equal timestamp is not covered")
	}
}

func TestZeroOffsetCoversNothing(t *testing.T) {
	var offset TimestampOffset
	if !offset.Zero() {
		t.Fatal("zero-value offset should report Zero")
	}
	if offset.Covers(time.Unix(0, 0).UTC(), "x", 1) {
		t.Fatal("zero offset covers nothing")
	}
}

func TestAdvanceNewTimestampResetsSeen(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Millisecond)
	offset := TimestampOffset{Timestamp: t1, Seen: map[string]int64{"x": 4}}

	next := offset.Advance(Envelope{
		PersistenceID: "y",
		SeqNr:         9,
		Offset:        TimestampOffset{Timestamp: t2},
	})
	if !next.Timestamp.Equal(t2) {
		t.Fatalf("advanced timestamp = %v, want %v", next.Timestamp, t2)
	}
	if len(next.Seen) != 1 || next.Seen["y"] != 9 {
		t.Fatalf("advanced seen = %v, want only y:9", next.Seen)
	}
}

func TestAdvanceEqualTimestampMergesSeen(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	offset := TimestampOffset{Timestamp: t1, Seen: map[string]int64{"x": 4}}

	next := offset.Advance(Envelope{
		PersistenceID: "y",
		SeqNr:         9,
		Offset:        TimestampOffset{Timestamp: t1},
	})
	if next.Seen["x"] != 4 || next.Seen["y"] != 9 {
		t.Fatalf("merged seen = %v, want x:4 y:9", next.Seen)
	}
}
