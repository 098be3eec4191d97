// Package sqlitemigrate applies the embedded SQL migrations of the
// journal and offset stores. Each migration file runs at most once, in
// one transaction together with its ledger entry, so a store never
// starts on a half-applied schema.
package sqlitemigrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"
)

const ledgerTable = "schema_migrations"

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// Apply executes every embedded *.sql migration at most once, in
// filename order.
func Apply(sqlDB *sql.DB, migrationFS fs.FS) error {
	if sqlDB == nil {
		return fmt.Errorf("sql db is required")
	}
	if migrationFS == nil {
		return fmt.Errorf("migration fs is required")
	}

	names, err := migrationNames(migrationFS)
	if err != nil {
		return err
	}

	if _, err := sqlDB.Exec(`
CREATE TABLE IF NOT EXISTS ` + ledgerTable + ` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
`); err != nil {
		return fmt.Errorf("ensure migration ledger: %w", err)
	}

	for _, name := range names {
		if err := applyOne(sqlDB, migrationFS, name); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
	}
	return nil
}

func migrationNames(migrationFS fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// applyOne runs one migration's Up section and its ledger entry in a
// single transaction. Already-applied migrations are skipped.
func applyOne(sqlDB *sql.DB, migrationFS fs.FS, name string) error {
	content, err := fs.ReadFile(migrationFS, name)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	upSQL := upSection(string(content))
	if strings.TrimSpace(upSQL) == "" {
		return nil
	}

	tx, err := sqlDB.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var applied int
	row := tx.QueryRow("SELECT COUNT(*) FROM "+ledgerTable+" WHERE name = ?", name)
	if err := row.Scan(&applied); err != nil {
		return fmt.Errorf("check ledger: %w", err)
	}
	if applied > 0 {
		return nil
	}

	if _, err := tx.Exec(upSQL); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO "+ledgerTable+" (name, applied_at) VALUES (?, ?)",
		name,
		time.Now().UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("record in ledger: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// upSection returns the SQL between the Up and Down markers. A file
// without markers applies whole.
func upSection(content string) string {
	upIdx := strings.Index(content, upMarker)
	if upIdx == -1 {
		return content
	}
	rest := content[upIdx+len(upMarker):]
	if downIdx := strings.Index(rest, downMarker); downIdx != -1 {
		return rest[:downIdx]
	}
	return rest
}
