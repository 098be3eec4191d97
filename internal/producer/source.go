// Package producer implements the server side of the replication
// protocol: one stream engine per connected consumer worker, fed by the
// sliced journal query and gated by the producer and consumer filters.
package producer

import (
	"errors"
	"fmt"

	"github.com/louisbranch/eventwire/internal/journal"
	anypb "google.golang.org/protobuf/types/known/anypb"
)

// ErrUnknownPayloadType indicates an event payload type with no
// registered mapper. Streams fail fast on it rather than guessing a
// serialization.
var ErrUnknownPayloadType = errors.New("unknown payload type")

// Mapper transforms one envelope's payload for the wire. Returning a nil
// payload drops the event like the producer filter does: no placeholder,
// the consumer never learns of it.
type Mapper func(env journal.Envelope) (*anypb.Any, error)

// Transformation maps payload type URLs to mappers. Every payload type
// an entity emits must be registered explicitly.
type Transformation struct {
	mappers map[string]Mapper
}

// NewTransformation creates an empty transformation.
func NewTransformation() *Transformation {
	return &Transformation{mappers: map[string]Mapper{}}
}

// RegisterMapper registers a mapper for a payload type URL.
func (t *Transformation) RegisterMapper(typeURL string, m Mapper) *Transformation {
	t.mappers[typeURL] = m
	return t
}

// RegisterIdentity registers a pass-through mapper for a payload type URL.
func (t *Transformation) RegisterIdentity(typeURL string) *Transformation {
	return t.RegisterMapper(typeURL, func(env journal.Envelope) (*anypb.Any, error) {
		return env.Payload, nil
	})
}

// Apply transforms an envelope's payload. The second return value is
// false when the mapper dropped the event.
func (t *Transformation) Apply(env journal.Envelope) (*anypb.Any, bool, error) {
	if t == nil || len(t.mappers) == 0 {
		return nil, false, fmt.Errorf("no mappers registered: %w", ErrUnknownPayloadType)
	}
	typeURL := ""
	if env.Payload != nil {
		typeURL = env.Payload.TypeUrl
	}
	m, ok := t.mappers[typeURL]
	if !ok {
		return nil, false, fmt.Errorf("payload type %q: %w", typeURL, ErrUnknownPayloadType)
	}
	payload, err := m(env)
	if err != nil {
		return nil, false, fmt.Errorf("map payload type %q: %w", typeURL, err)
	}
	if payload == nil {
		return nil, false, nil
	}
	return payload, true, nil
}

// EventProducerSource configures one replicated entity type: the stream
// id consumers ask for, the journal entity type behind it, the payload
// transformation, and an optional static producer filter.
//
// Events suppressed by the producer filter are dropped without a
// placeholder; consumers must absorb the resulting seq nr gaps.
// Backtracking envelopes with an empty payload are skipped by the
// stream engine.
type EventProducerSource struct {
	EntityType     string
	StreamID       string
	Transformation *Transformation
	// ProducerFilter statically suppresses envelopes. Nil passes all.
	ProducerFilter func(env journal.Envelope) bool
	Settings       Settings
}

// Settings tunes per-stream behavior.
type Settings struct {
	// ReplayParallelism bounds concurrent replay side-queries per stream.
	ReplayParallelism int
}

const defaultReplayParallelism = 4

func (s Settings) normalized() Settings {
	if s.ReplayParallelism <= 0 {
		s.ReplayParallelism = defaultReplayParallelism
	}
	return s
}

func (s EventProducerSource) validate() error {
	if s.EntityType == "" {
		return fmt.Errorf("entity type is required")
	}
	if s.StreamID == "" {
		return fmt.Errorf("stream id is required")
	}
	if s.Transformation == nil {
		return fmt.Errorf("transformation is required")
	}
	return nil
}
