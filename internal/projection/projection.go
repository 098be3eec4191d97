// Package projection drives replicated envelopes through user handlers
// and tracks progress with a durable offset per projection instance.
package projection

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/louisbranch/eventwire/internal/journal"
	"github.com/louisbranch/eventwire/internal/slice"
)

// ID identifies one projection instance. Two live projections sharing an
// ID write to the same offset row and produce undefined progress; the
// sharded daemon guarantees uniqueness by construction.
type ID struct {
	Name string
	Key  string
}

// String renders the ID as "name/key".
func (id ID) String() string {
	return id.Name + "/" + id.Key
}

// KeyFor derives the projection key of a slice-ranged worker.
func KeyFor(streamID string, scope slice.Range) string {
	return fmt.Sprintf("%s-%d-%d", streamID, scope.Min, scope.Max)
}

// Handler processes one envelope. Errors tear the stream down; the
// projection restarts from the stored offset.
type Handler interface {
	Process(ctx context.Context, env journal.Envelope) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, env journal.Envelope) error

// Process implements Handler.
func (fn HandlerFunc) Process(ctx context.Context, env journal.Envelope) error {
	return fn(ctx, env)
}

// GroupedHandler processes envelope batches under at-least-once
// semantics: the batch offset commits after a successful return.
type GroupedHandler interface {
	ProcessGroup(ctx context.Context, envs []journal.Envelope) error
}

// ExactlyOnceHandler applies one envelope inside the offset store
// transaction, so the side effect and the offset commit atomically.
type ExactlyOnceHandler interface {
	ProcessInTx(ctx context.Context, tx *sql.Tx, env journal.Envelope) error
}

// OffsetStore persists projection offsets. Load reports whether an
// offset exists. Save must be atomic: after a cancelled or failed call
// the stored value is either the previous or the new offset, never a
// mix.
type OffsetStore interface {
	Load(ctx context.Context, name, key string) (journal.TimestampOffset, bool, error)
	Save(ctx context.Context, name, key string, offset journal.TimestampOffset) error
}

// TxOffsetStore additionally exposes the store's transactions so
// exactly-once handlers join the offset commit.
type TxOffsetStore interface {
	OffsetStore
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error
	SaveInTx(ctx context.Context, tx *sql.Tx, name, key string, offset journal.TimestampOffset) error
}

// Source streams envelopes to fn, resuming from the offset produced by
// loadOffset on every (re)connect. It returns when ctx ends or fn fails.
type Source func(ctx context.Context, loadOffset func(context.Context) (journal.TimestampOffset, error), fn func(journal.Envelope) error) error
