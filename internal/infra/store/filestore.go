package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"newswatch/internal/domain/entity"
)

// FileStore keeps one JSON file per source under a state directory. This is
// the default backend; it maps one record to one file so that concurrent
// checks of different sources never touch the same path.
type FileStore struct {
	dir   string
	clock func() time.Time
}

// NewFileStore creates a FileStore rooted at dir, creating the directory if
// needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir, clock: time.Now}, nil
}

func (f *FileStore) path(sourceID string) string {
	return filepath.Join(f.dir, sourceID+".json")
}

// Load reads the state record for a source. Missing and corrupt records both
// yield the fresh default; corruption is logged as a warning, never returned.
func (f *FileStore) Load(ctx context.Context, sourceID string) *entity.SourceState {
	data, err := os.ReadFile(f.path(sourceID))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("state record unreadable, starting fresh",
				slog.String("source_id", sourceID),
				slog.Any("error", err))
		}
		return entity.NewSourceState(sourceID)
	}

	var state entity.SourceState
	if err := json.Unmarshal(data, &state); err != nil {
		slog.Warn("state record corrupt, starting fresh",
			slog.String("source_id", sourceID),
			slog.Any("error", err))
		return entity.NewSourceState(sourceID)
	}
	if state.SourceID == "" {
		state.SourceID = sourceID
	}

	return &state
}

// Save writes the state record, refreshing LastChecked to the save time.
// The write goes through a temp file and rename so a crash mid-write cannot
// leave a truncated record behind.
func (f *FileStore) Save(ctx context.Context, state *entity.SourceState) error {
	state.LastChecked = f.clock().UTC().Format("2006-01-02T15:04:05Z")

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state for %s: %w", state.SourceID, err)
	}

	target := f.path(state.SourceID)
	tmp, err := os.CreateTemp(f.dir, state.SourceID+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file for %s: %w", state.SourceID, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write state for %s: %w", state.SourceID, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close state file for %s: %w", state.SourceID, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace state file for %s: %w", state.SourceID, err)
	}

	return nil
}
