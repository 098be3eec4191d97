// Package wire converts between journal envelopes and their protocol
// representation.
package wire

import (
	"github.com/louisbranch/eventwire/internal/journal"
	replicationv1 "github.com/louisbranch/eventwire/api/replication/v1"
	anypb "google.golang.org/protobuf/types/known/anypb"
	timestamppb "google.golang.org/protobuf/types/known/timestamppb"
)

// FromOffset converts a journal offset to the wire form. A zero offset
// converts to nil, meaning "from the beginning".
func FromOffset(offset journal.TimestampOffset) *replicationv1.Offset {
	if offset.Zero() {
		return nil
	}
	out := &replicationv1.Offset{Timestamp: timestamppb.New(offset.Timestamp)}
	for pid, seqNr := range offset.Seen {
		out.Seen = append(out.Seen, &replicationv1.PersistenceIdSeqNr{
			PersistenceId: pid,
			SeqNr:         seqNr,
		})
	}
	return out
}

// ToOffset converts a wire offset to the journal form. Nil converts to
// the zero offset.
func ToOffset(offset *replicationv1.Offset) journal.TimestampOffset {
	if offset == nil || offset.GetTimestamp() == nil {
		return journal.TimestampOffset{}
	}
	out := journal.TimestampOffset{
		Timestamp: offset.GetTimestamp().AsTime(),
		Seen:      make(map[string]int64, len(offset.GetSeen())),
	}
	for _, seen := range offset.GetSeen() {
		out.Seen[seen.GetPersistenceId()] = seen.GetSeqNr()
	}
	return out
}

// FromEnvelope converts an envelope to a wire Event carrying payload.
// The payload is passed through as transformed by the producer.
func FromEnvelope(env journal.Envelope, payload *anypb.Any) *replicationv1.Event {
	return &replicationv1.Event{
		PersistenceId: env.PersistenceID,
		SeqNr:         env.SeqNr,
		Slice:         env.Slice,
		Offset:        FromOffset(env.Offset),
		Payload:       payload,
		Source:        env.Source,
		Metadata:      env.Metadata,
		Tags:          env.Tags,
	}
}

// FilteredFromEnvelope converts an envelope to its filtered placeholder.
func FilteredFromEnvelope(env journal.Envelope) *replicationv1.FilteredEvent {
	return &replicationv1.FilteredEvent{
		PersistenceId: env.PersistenceID,
		SeqNr:         env.SeqNr,
		Slice:         env.Slice,
		Offset:        FromOffset(env.Offset),
		Source:        env.Source,
	}
}

// ToEnvelope converts a wire Event back to a journal envelope.
func ToEnvelope(event *replicationv1.Event) journal.Envelope {
	return journal.Envelope{
		PersistenceID: event.GetPersistenceId(),
		SeqNr:         event.GetSeqNr(),
		Slice:         event.GetSlice(),
		Offset:        ToOffset(event.GetOffset()),
		Payload:       event.GetPayload(),
		Tags:          event.GetTags(),
		Source:        event.GetSource(),
		Metadata:      event.GetMetadata(),
	}
}

// ToFilteredEnvelope converts a filtered placeholder to a payloadless
// envelope.
func ToFilteredEnvelope(event *replicationv1.FilteredEvent) journal.Envelope {
	return journal.Envelope{
		PersistenceID: event.GetPersistenceId(),
		SeqNr:         event.GetSeqNr(),
		Slice:         event.GetSlice(),
		Offset:        ToOffset(event.GetOffset()),
		Source:        event.GetSource(),
	}
}
