// Package sqlite provides the SQLite-backed journal used by the
// producer stream engine.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/eventwire/internal/journal"
	"github.com/louisbranch/eventwire/internal/journal/sqlite/migrations"
	"github.com/louisbranch/eventwire/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/eventwire/internal/slice"
	anypb "google.golang.org/protobuf/types/known/anypb"
	_ "modernc.org/sqlite"
)

const (
	defaultBehindCurrentTime = 500 * time.Millisecond
	defaultPollInterval      = 50 * time.Millisecond
	pageSize                 = 100
)

// Settings tunes the journal's tailing behavior.
type Settings struct {
	// BehindCurrentTime is the tail lag window: events younger than this
	// are withheld to tolerate in-flight inserts with lower timestamps.
	BehindCurrentTime time.Duration
	// PollInterval is the sleep between tail polls once caught up.
	PollInterval time.Duration
	// Clock overrides the wall clock, for tests.
	Clock func() time.Time
}

func (s Settings) normalized() Settings {
	if s.BehindCurrentTime <= 0 {
		s.BehindCurrentTime = defaultBehindCurrentTime
	}
	if s.PollInterval <= 0 {
		s.PollInterval = defaultPollInterval
	}
	if s.Clock == nil {
		s.Clock = time.Now
	}
	return s
}

// Store is a SQLite-backed journal. It implements journal.Query and
// provides Append for the owning service.
type Store struct {
	sqlDB    *sql.DB
	settings Settings
}

// Open opens a journal store at path and applies migrations.
func Open(path string, settings Settings) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run journal migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, settings: settings.normalized()}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// AppendRequest carries one event to append.
type AppendRequest struct {
	Payload  *anypb.Any
	Tags     []string
	Metadata *anypb.Any
}

// Append atomically appends an event, assigning the next dense seq nr
// for the entity and a per-entity monotonic millisecond timestamp.
func (s *Store) Append(ctx context.Context, entityType, persistenceID string, req AppendRequest) (journal.Envelope, error) {
	if err := ctx.Err(); err != nil {
		return journal.Envelope{}, err
	}
	if s == nil || s.sqlDB == nil {
		return journal.Envelope{}, fmt.Errorf("journal is not configured")
	}
	if strings.TrimSpace(entityType) == "" {
		return journal.Envelope{}, fmt.Errorf("entity type is required")
	}
	if strings.TrimSpace(persistenceID) == "" {
		return journal.Envelope{}, fmt.Errorf("persistence id is required")
	}
	if req.Payload == nil {
		return journal.Envelope{}, fmt.Errorf("payload is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return journal.Envelope{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var lastSeq, lastTimestampMS sql.NullInt64
	row := tx.QueryRowContext(ctx, `
SELECT seq_nr, timestamp_ms FROM events
WHERE entity_type = ? AND persistence_id = ?
ORDER BY seq_nr DESC LIMIT 1
`, entityType, persistenceID)
	if err := row.Scan(&lastSeq, &lastTimestampMS); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return journal.Envelope{}, fmt.Errorf("load last event: %w", err)
	}

	seqNr := lastSeq.Int64 + 1
	timestampMS := s.settings.Clock().UTC().UnixMilli()
	if timestampMS < lastTimestampMS.Int64 {
		// Per-entity timestamps never go backwards even if the clock does.
		timestampMS = lastTimestampMS.Int64
	}

	tags, err := json.Marshal(append([]string{}, req.Tags...))
	if err != nil {
		return journal.Envelope{}, fmt.Errorf("marshal tags: %w", err)
	}

	sl := slice.Number(persistenceID)
	var metadataTypeURL string
	var metadata []byte
	if req.Metadata != nil {
		metadataTypeURL = req.Metadata.TypeUrl
		metadata = req.Metadata.Value
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO events (
	entity_type,
	persistence_id,
	seq_nr,
	slice,
	timestamp_ms,
	payload_type_url,
	payload,
	metadata_type_url,
	metadata,
	tags
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		entityType,
		persistenceID,
		seqNr,
		sl,
		timestampMS,
		req.Payload.TypeUrl,
		req.Payload.Value,
		metadataTypeURL,
		metadata,
		string(tags),
	); err != nil {
		return journal.Envelope{}, fmt.Errorf("append event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return journal.Envelope{}, fmt.Errorf("commit append: %w", err)
	}

	timestamp := time.UnixMilli(timestampMS).UTC()
	return journal.Envelope{
		PersistenceID: persistenceID,
		SeqNr:         seqNr,
		Slice:         sl,
		Offset: journal.TimestampOffset{
			Timestamp: timestamp,
			Seen:      map[string]int64{persistenceID: seqNr},
		},
		Payload:  req.Payload,
		Tags:     req.Tags,
		Source:   journal.SourceQuery,
		Metadata: req.Metadata,
	}, nil
}

type eventRow struct {
	persistenceID   string
	seqNr           int64
	slice           int32
	timestampMS     int64
	payloadTypeURL  string
	payload         []byte
	metadataTypeURL string
	metadata        []byte
	tags            string
}

func (r eventRow) envelope(source string) (journal.Envelope, error) {
	var tags []string
	if err := json.Unmarshal([]byte(r.tags), &tags); err != nil {
		return journal.Envelope{}, fmt.Errorf("unmarshal tags for %s/%d: %w", r.persistenceID, r.seqNr, err)
	}
	env := journal.Envelope{
		PersistenceID: r.persistenceID,
		SeqNr:         r.seqNr,
		Slice:         r.slice,
		Offset: journal.TimestampOffset{
			Timestamp: time.UnixMilli(r.timestampMS).UTC(),
			Seen:      map[string]int64{r.persistenceID: r.seqNr},
		},
		Payload: &anypb.Any{TypeUrl: r.payloadTypeURL, Value: r.payload},
		Tags:    tags,
		Source:  source,
	}
	if r.metadataTypeURL != "" {
		env.Metadata = &anypb.Any{TypeUrl: r.metadataTypeURL, Value: r.metadata}
	}
	return env, nil
}

// EventsBySlices implements journal.Query. It scans historical events in
// pages, then tails live appends. Events younger than the configured
// behind-current-time window are withheld until the window passes.
func (s *Store) EventsBySlices(ctx context.Context, entityType string, minSlice, maxSlice int32, offset journal.TimestampOffset, fn func(journal.Envelope) error) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("journal is not configured")
	}
	if !slice.RangeValid(minSlice, maxSlice) {
		return fmt.Errorf("invalid slice range %d-%d", minSlice, maxSlice)
	}
	if fn == nil {
		return fmt.Errorf("event callback is required")
	}

	current := offset
	// Resume position in (timestamp, pid, seq) order. Events equal to the
	// offset timestamp are re-read and de-duplicated via the seen map.
	afterTimestampMS := int64(-1)
	afterPID := ""
	afterSeqNr := int64(-1)
	if !offset.Zero() {
		afterTimestampMS = offset.Timestamp.UnixMilli() - 1
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		horizonMS := s.settings.Clock().UTC().Add(-s.settings.BehindCurrentTime).UnixMilli()
		rows, err := s.sqlDB.QueryContext(ctx, `
SELECT persistence_id, seq_nr, slice, timestamp_ms, payload_type_url, payload, metadata_type_url, metadata, tags
FROM events
WHERE entity_type = ?
  AND slice BETWEEN ? AND ?
  AND timestamp_ms <= ?
  AND (
	timestamp_ms > ?
	OR (timestamp_ms = ? AND (persistence_id > ? OR (persistence_id = ? AND seq_nr > ?)))
  )
ORDER BY timestamp_ms, persistence_id, seq_nr
LIMIT ?
`,
			entityType,
			minSlice, maxSlice,
			horizonMS,
			afterTimestampMS,
			afterTimestampMS, afterPID, afterPID, afterSeqNr,
			pageSize,
		)
		if err != nil {
			return fmt.Errorf("query events by slices: %w", err)
		}

		page, err := scanEventRows(rows)
		if err != nil {
			return err
		}

		for _, r := range page {
			afterTimestampMS = r.timestampMS
			afterPID = r.persistenceID
			afterSeqNr = r.seqNr

			timestamp := time.UnixMilli(r.timestampMS).UTC()
			if offset.Covers(timestamp, r.persistenceID, r.seqNr) {
				continue
			}
			env, err := r.envelope(journal.SourceQuery)
			if err != nil {
				return err
			}
			current = current.Advance(env)
			env.Offset = current
			if err := fn(env); err != nil {
				return err
			}
		}

		if len(page) < pageSize {
			// Caught up; tail.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.settings.PollInterval):
			}
		}
	}
}

// CurrentEventsByPersistenceID implements journal.Query.
func (s *Store) CurrentEventsByPersistenceID(ctx context.Context, entityType, persistenceID string, fromSeqNr int64, fn func(journal.Envelope) error) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("journal is not configured")
	}
	if fn == nil {
		return fmt.Errorf("event callback is required")
	}
	if fromSeqNr < 1 {
		fromSeqNr = 1
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT persistence_id, seq_nr, slice, timestamp_ms, payload_type_url, payload, metadata_type_url, metadata, tags
FROM events
WHERE entity_type = ? AND persistence_id = ? AND seq_nr >= ?
ORDER BY seq_nr
`, entityType, persistenceID, fromSeqNr)
	if err != nil {
		return fmt.Errorf("query events by persistence id: %w", err)
	}
	page, err := scanEventRows(rows)
	if err != nil {
		return err
	}
	for _, r := range page {
		env, err := r.envelope(journal.SourceReplay)
		if err != nil {
			return err
		}
		if err := fn(env); err != nil {
			return err
		}
	}
	return nil
}

// EventTimestamp implements journal.Query.
func (s *Store) EventTimestamp(ctx context.Context, entityType, persistenceID string, seqNr int64) (time.Time, error) {
	if s == nil || s.sqlDB == nil {
		return time.Time{}, fmt.Errorf("journal is not configured")
	}
	var timestampMS int64
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT timestamp_ms FROM events
WHERE entity_type = ? AND persistence_id = ? AND seq_nr = ?
`, entityType, persistenceID, seqNr)
	if err := row.Scan(&timestampMS); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, journal.ErrEventNotFound
		}
		return time.Time{}, fmt.Errorf("load event timestamp: %w", err)
	}
	return time.UnixMilli(timestampMS).UTC(), nil
}

// LoadEvent implements journal.Query.
func (s *Store) LoadEvent(ctx context.Context, entityType, persistenceID string, seqNr int64) (journal.Envelope, error) {
	if s == nil || s.sqlDB == nil {
		return journal.Envelope{}, fmt.Errorf("journal is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT persistence_id, seq_nr, slice, timestamp_ms, payload_type_url, payload, metadata_type_url, metadata, tags
FROM events
WHERE entity_type = ? AND persistence_id = ? AND seq_nr = ?
`, entityType, persistenceID, seqNr)
	if err != nil {
		return journal.Envelope{}, fmt.Errorf("load event: %w", err)
	}
	page, err := scanEventRows(rows)
	if err != nil {
		return journal.Envelope{}, err
	}
	if len(page) == 0 {
		return journal.Envelope{}, journal.ErrEventNotFound
	}
	return page[0].envelope(journal.SourceQuery)
}

func scanEventRows(rows *sql.Rows) ([]eventRow, error) {
	defer rows.Close()
	var page []eventRow
	for rows.Next() {
		var r eventRow
		if err := rows.Scan(
			&r.persistenceID,
			&r.seqNr,
			&r.slice,
			&r.timestampMS,
			&r.payloadTypeURL,
			&r.payload,
			&r.metadataTypeURL,
			&r.metadata,
			&r.tags,
		); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		page = append(page, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}
	return page, nil
}
