// Package journal defines the event envelope model and the query
// capability the replication engine consumes from a journal backend.
package journal

import (
	"context"
	"errors"
	"time"

	anypb "google.golang.org/protobuf/types/known/anypb"
)

// SourceQuery marks envelopes produced by the regular slice query.
const SourceQuery = "query"

// SourceReplay marks envelopes produced by a targeted replay.
const SourceReplay = "replay"

// ErrEventNotFound indicates the requested (persistence id, seq nr) does
// not exist in the journal.
var ErrEventNotFound = errors.New("event not found")

// Envelope is one journaled event together with its addressing and
// tagging metadata. Envelopes are immutable once produced.
type Envelope struct {
	// PersistenceID identifies the entity the event belongs to.
	PersistenceID string
	// SeqNr is the event sequence number within the entity (starts at 1, dense).
	SeqNr int64
	// Slice is the deterministic partition of the entity, in [0, 1023].
	Slice int32
	// Offset is the stream cursor as of this envelope.
	Offset TimestampOffset
	// Payload holds the opaque event body with its type URL.
	Payload *anypb.Any
	// Tags are the event's query tags.
	Tags []string
	// Source records which query path produced the envelope.
	Source string
	// Metadata optionally carries application metadata.
	Metadata *anypb.Any
	// Backtracking marks a redelivery emitted by the journal for repair.
	Backtracking bool
}

// TimestampOffset is a durable cursor: a timestamp plus the highest
// delivered seq nr of every entity sharing exactly that timestamp.
type TimestampOffset struct {
	Timestamp time.Time
	Seen      map[string]int64
}

// Zero reports whether the offset means "from the beginning".
func (o TimestampOffset) Zero() bool {
	return o.Timestamp.IsZero()
}

// Covers reports whether an event at (timestamp, pid, seqNr) has already
// been delivered at or before this offset. The next envelope delivered
// after resuming from the offset must not be covered by it.
func (o TimestampOffset) Covers(timestamp time.Time, pid string, seqNr int64) bool {
	if o.Zero() {
		return false
	}
	if timestamp.Before(o.Timestamp) {
		return true
	}
	if !timestamp.Equal(o.Timestamp) {
		return false
	}
	seen, ok := o.Seen[pid]
	return ok && seqNr <= seen
}

// Advance returns the successor offset after delivering env. When the
// envelope timestamp moves past the current one the seen map restarts;
// at an equal timestamp the entity's entry is merged in.
func (o TimestampOffset) Advance(env Envelope) TimestampOffset {
	ts := env.Offset.Timestamp
	next := TimestampOffset{Timestamp: ts, Seen: map[string]int64{env.PersistenceID: env.SeqNr}}
	if ts.Equal(o.Timestamp) {
		for pid, seq := range o.Seen {
			if _, ok := next.Seen[pid]; !ok {
				next.Seen[pid] = seq
			}
		}
	}
	return next
}

// Query is the capability the engine consumes from a journal backend.
//
// EventsBySlices delivers envelopes for entityType restricted to slices
// [minSlice, maxSlice], resuming after offset. It transparently catches
// up to the journal tail and then follows live appends until ctx ends or
// fn returns an error; the error is returned as-is.
type Query interface {
	EventsBySlices(ctx context.Context, entityType string, minSlice, maxSlice int32, offset TimestampOffset, fn func(Envelope) error) error

	// CurrentEventsByPersistenceID delivers the existing events of one
	// entity from fromSeqNr inclusive, in seq nr order, then returns.
	CurrentEventsByPersistenceID(ctx context.Context, entityType, persistenceID string, fromSeqNr int64, fn func(Envelope) error) error

	// EventTimestamp returns the journal timestamp of one event, or
	// ErrEventNotFound.
	EventTimestamp(ctx context.Context, entityType, persistenceID string, seqNr int64) (time.Time, error)

	// LoadEvent returns one event, or ErrEventNotFound.
	LoadEvent(ctx context.Context, entityType, persistenceID string, seqNr int64) (Envelope, error)
}
