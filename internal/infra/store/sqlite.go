package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"newswatch/internal/domain/entity"
)

// SQLiteStore keeps all state records in a single SQLite database. It is an
// alternative to FileStore for deployments that prefer one artifact over a
// directory of JSON files. Records stay in the same JSON shape as the file
// backend, one row per source, so both backends round-trip identically.
type SQLiteStore struct {
	db    *sql.DB
	clock func() time.Time
}

const createStateTable = `
CREATE TABLE IF NOT EXISTS source_state (
	source_id TEXT PRIMARY KEY,
	data      TEXT NOT NULL
)`

// OpenSQLiteStore opens (and if necessary initializes) the database at path.
// Use ":memory:" for an ephemeral store.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state database %s: %w", path, err)
	}
	// modernc.org/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent checks.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createStateTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize state schema: %w", err)
	}

	return &SQLiteStore{db: db, clock: time.Now}, nil
}

// NewSQLiteStore wraps an already-open database handle. The schema must
// exist. Used by tests to inject mock connections.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, clock: time.Now}
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads the state record for a source. A missing row, a query failure
// and a corrupt document all yield the fresh default state.
func (s *SQLiteStore) Load(ctx context.Context, sourceID string) *entity.SourceState {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM source_state WHERE source_id = ?", sourceID).Scan(&data)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("state row unreadable, starting fresh",
				slog.String("source_id", sourceID),
				slog.Any("error", err))
		}
		return entity.NewSourceState(sourceID)
	}

	var state entity.SourceState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		slog.Warn("state row corrupt, starting fresh",
			slog.String("source_id", sourceID),
			slog.Any("error", err))
		return entity.NewSourceState(sourceID)
	}
	if state.SourceID == "" {
		state.SourceID = sourceID
	}

	return &state
}

// Save upserts the state record, refreshing LastChecked to the save time.
func (s *SQLiteStore) Save(ctx context.Context, state *entity.SourceState) error {
	state.LastChecked = s.clock().UTC().Format("2006-01-02T15:04:05Z")

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state for %s: %w", state.SourceID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO source_state (source_id, data) VALUES (?, ?)
		 ON CONFLICT(source_id) DO UPDATE SET data = excluded.data`,
		state.SourceID, string(data))
	if err != nil {
		return fmt.Errorf("write state for %s: %w", state.SourceID, err)
	}

	return nil
}
