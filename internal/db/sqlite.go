package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver (no CGO required)
)

// migrations are applied in order; applied versions are tracked in
// schema_versions.
var migrations = []struct {
	version int
	sql     string
}{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_versions (
    version     INTEGER PRIMARY KEY,
    applied_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS analyses (
    id           TEXT PRIMARY KEY,
    file_name    TEXT NOT NULL DEFAULT '',
    route        TEXT NOT NULL DEFAULT '',
    rows         INTEGER NOT NULL DEFAULT 0,
    columns      INTEGER NOT NULL DEFAULT 0,
    numeric_cols INTEGER NOT NULL DEFAULT 0,
    status       TEXT NOT NULL DEFAULT 'completed',
    duration_ms  INTEGER NOT NULL DEFAULT 0,
    created_at   DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_analyses_route ON analyses(route);
`,
	},
}

// sqliteStore implements HistoryStore over a SQLite file (or ":memory:").
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the history database and applies
// pending migrations.
func OpenSQLite(path string) (HistoryStore, error) {
	if path == "" {
		path = ":memory:"
	}
	handle, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent requests.
	handle.SetMaxOpenConns(1)

	store := &sqliteStore{db: handle}
	if err := store.migrate(); err != nil {
		handle.Close()
		return nil, err
	}
	return store, nil
}

func (s *sqliteStore) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_versions (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	var current int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_versions`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := s.db.Exec(`INSERT INTO schema_versions (version) VALUES (?)`, m.version); err != nil {
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
	}
	return nil
}

func (s *sqliteStore) SaveAnalysis(ctx context.Context, rec AnalysisRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, file_name, route, rows, columns, numeric_cols, status, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.FileName, rec.Route, rec.Rows, rec.Columns, rec.NumericCols,
		rec.Status, rec.DurationMS, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save analysis %s: %w", rec.ID, err)
	}
	return nil
}

func (s *sqliteStore) ListRecent(ctx context.Context, limit int) ([]AnalysisRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_name, route, rows, columns, numeric_cols, status, duration_ms, created_at
		FROM analyses ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var out []AnalysisRecord
	for rows.Next() {
		var rec AnalysisRecord
		if err := rows.Scan(&rec.ID, &rec.FileName, &rec.Route, &rec.Rows, &rec.Columns,
			&rec.NumericCols, &rec.Status, &rec.DurationMS, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
