package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"newswatch/internal/domain/entity"
	"newswatch/internal/infra/store"
)

func newTestFileStore(t *testing.T) *store.FileStore {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return s
}

func sampleState() *entity.SourceState {
	return &entity.SourceState{
		SourceID: "jane-doe",
		LastArticle: &entity.Article{
			Title:         "A headline long enough to count",
			URL:           "https://www.nytimes.com/2026/08/30/world/story.html",
			PublishedTime: "2026-08-30T09:00:00Z",
		},
		ETag:         `"abc123"`,
		LastModified: "Sat, 30 Aug 2026 04:00:00 GMT",
		ErrorCount:   2,
		LastError:    "HTTP 503",
	}
}

func TestFileStore_Load_MissingRecordIsFresh(t *testing.T) {
	s := newTestFileStore(t)

	state := s.Load(context.Background(), "never-seen")
	if state.SourceID != "never-seen" {
		t.Errorf("SourceID = %q", state.SourceID)
	}
	if state.LastArticle != nil || state.ErrorCount != 0 {
		t.Errorf("fresh state = %+v, want empty baseline and zero counters", state)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	s := newTestFileStore(t)
	want := sampleState()

	if err := s.Save(context.Background(), want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if want.LastChecked == "" {
		t.Error("Save() must stamp LastChecked")
	}

	got := s.Load(context.Background(), "jane-doe")

	// LastChecked is refreshed at save time; everything else round-trips.
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(entity.SourceState{}, "LastChecked")); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if got.LastChecked != want.LastChecked {
		t.Errorf("LastChecked = %q, want %q", got.LastChecked, want.LastChecked)
	}
}

func TestFileStore_Load_CorruptRecordIsFresh(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	state := s.Load(context.Background(), "broken")
	if state.SourceID != "broken" {
		t.Errorf("SourceID = %q", state.SourceID)
	}
	if state.LastArticle != nil || state.ErrorCount != 0 {
		t.Errorf("corrupt record must load as fresh, got %+v", state)
	}
}

func TestFileStore_Save_Overwrites(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	first := sampleState()
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	second := sampleState()
	second.LastArticle = &entity.Article{
		Title: "A different headline entirely here",
		URL:   "https://www.nytimes.com/2026/08/31/world/next.html",
	}
	second.ErrorCount = 0
	second.LastError = ""
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got := s.Load(ctx, "jane-doe")
	if got.LastArticle == nil || got.LastArticle.URL != second.LastArticle.URL {
		t.Errorf("LastArticle = %+v, want overwritten record", got.LastArticle)
	}
	if got.ErrorCount != 0 || got.LastError != "" {
		t.Errorf("counters = (%d, %q), want reset values persisted", got.ErrorCount, got.LastError)
	}
}
