// Package sqlite provides the durable SQLite-backed projection offset
// store. The offset row and its seen entries update in one transaction,
// and a per-row version detects two live projections sharing an id.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/eventwire/internal/journal"
	"github.com/louisbranch/eventwire/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/eventwire/internal/projection/offsetstore"
	"github.com/louisbranch/eventwire/internal/projection/offsetstore/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists projection offsets in SQLite.
type Store struct {
	sqlDB *sql.DB

	mu       sync.Mutex
	versions map[string]int64
}

// Open opens an offset store at path and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("offset store path is required")
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
		return nil, fmt.Errorf("run offset store migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, versions: map[string]int64{}}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func rowKey(name, key string) string {
	return name + "\x00" + key
}

// Load implements projection.OffsetStore.
func (s *Store) Load(ctx context.Context, name, key string) (journal.TimestampOffset, bool, error) {
	if s == nil || s.sqlDB == nil {
		return journal.TimestampOffset{}, false, fmt.Errorf("offset store is not configured")
	}

	var timestampMS, version int64
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT timestamp_ms, version FROM projection_offsets
WHERE projection_name = ? AND projection_key = ?
`, name, key)
	if err := row.Scan(&timestampMS, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return journal.TimestampOffset{}, false, nil
		}
		return journal.TimestampOffset{}, false, fmt.Errorf("load offset: %w", err)
	}

	offset := journal.TimestampOffset{
		Timestamp: time.UnixMilli(timestampMS).UTC(),
		Seen:      map[string]int64{},
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT persistence_id, seq_nr FROM projection_offset_seen
WHERE projection_name = ? AND projection_key = ?
`, name, key)
	if err != nil {
		return journal.TimestampOffset{}, false, fmt.Errorf("load offset seen: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pid string
		var seqNr int64
		if err := rows.Scan(&pid, &seqNr); err != nil {
			return journal.TimestampOffset{}, false, fmt.Errorf("scan offset seen: %w", err)
		}
		offset.Seen[pid] = seqNr
	}
	if err := rows.Err(); err != nil {
		return journal.TimestampOffset{}, false, fmt.Errorf("iterate offset seen: %w", err)
	}

	s.mu.Lock()
	s.versions[rowKey(name, key)] = version
	s.mu.Unlock()
	return offset, true, nil
}

// Save implements projection.OffsetStore.
func (s *Store) Save(ctx context.Context, name, key string, offset journal.TimestampOffset) error {
	return s.InTx(ctx, func(tx *sql.Tx) error {
		return s.SaveInTx(ctx, tx, name, key, offset)
	})
}

// InTx runs fn inside one store transaction, committing on success.
func (s *Store) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("offset store is not configured")
	}
	if fn == nil {
		return fmt.Errorf("transaction function is required")
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// SaveInTx writes the offset row and its seen entries inside tx. A
// version mismatch against the last value this store instance observed
// returns offsetstore.ErrVersionConflict.
func (s *Store) SaveInTx(ctx context.Context, tx *sql.Tx, name, key string, offset journal.TimestampOffset) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	s.mu.Lock()
	expected := s.versions[rowKey(name, key)]
	s.mu.Unlock()

	var current sql.NullInt64
	row := tx.QueryRowContext(ctx, `
SELECT version FROM projection_offsets
WHERE projection_name = ? AND projection_key = ?
`, name, key)
	if err := row.Scan(&current); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("load offset version: %w", err)
	}
	if current.Valid && current.Int64 > expected {
		return fmt.Errorf("offset %s/%s advanced by another writer: %w", name, key, offsetstore.ErrVersionConflict)
	}
	if current.Valid && current.Int64 < expected {
		// A rolled-back transaction left the cached version ahead of the
		// row; fall back to what is actually persisted.
		expected = current.Int64
	}

	next := expected + 1
	if _, err := tx.ExecContext(ctx, `
INSERT INTO projection_offsets (projection_name, projection_key, timestamp_ms, version)
VALUES (?, ?, ?, ?)
ON CONFLICT (projection_name, projection_key) DO UPDATE SET
	timestamp_ms = excluded.timestamp_ms,
	version = excluded.version
`, name, key, offset.Timestamp.UnixMilli(), next); err != nil {
		return fmt.Errorf("save offset: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
DELETE FROM projection_offset_seen
WHERE projection_name = ? AND projection_key = ?
`, name, key); err != nil {
		return fmt.Errorf("clear offset seen: %w", err)
	}
	for pid, seqNr := range offset.Seen {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO projection_offset_seen (projection_name, projection_key, persistence_id, seq_nr)
VALUES (?, ?, ?, ?)
`, name, key, pid, seqNr); err != nil {
			return fmt.Errorf("save offset seen: %w", err)
		}
	}

	s.mu.Lock()
	s.versions[rowKey(name, key)] = next
	s.mu.Unlock()
	return nil
}
