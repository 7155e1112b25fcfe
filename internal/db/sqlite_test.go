package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLite_SaveAndListRecent(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	older := AnalysisRecord{
		ID:          "id-older",
		FileName:    "a.csv",
		Route:       "eda",
		Rows:        10,
		Columns:     3,
		NumericCols: 1,
		Status:      "completed",
		DurationMS:  120,
		CreatedAt:   base,
	}
	newer := AnalysisRecord{
		ID:          "id-newer",
		FileName:    "b.csv",
		Route:       "ml",
		Rows:        600,
		Columns:     5,
		NumericCols: 4,
		Status:      "completed",
		DurationMS:  950,
		CreatedAt:   base.Add(time.Minute),
	}

	if err := store.SaveAnalysis(ctx, older); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveAnalysis(ctx, newer); err != nil {
		t.Fatal(err)
	}

	records, err := store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "id-newer" || records[1].ID != "id-older" {
		t.Errorf("records not newest-first: %s, %s", records[0].ID, records[1].ID)
	}
	if records[0].Route != "ml" || records[0].Rows != 600 || records[0].DurationMS != 950 {
		t.Errorf("round-trip mismatch: %+v", records[0])
	}
}

func TestSQLite_ListRecentLimit(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := AnalysisRecord{
			ID:        string(rune('a' + i)),
			Status:    "completed",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := store.SaveAnalysis(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.ListRecent(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].ID != "e" {
		t.Errorf("first record = %s, want e (newest)", records[0].ID)
	}

	// non-positive limit falls back to the default
	records, err = store.ListRecent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 5 {
		t.Errorf("default limit returned %d records, want 5", len(records))
	}
}

func TestSQLite_ZeroCreatedAtDefaultsToNow(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.SaveAnalysis(ctx, AnalysisRecord{ID: "x", Status: "failed"}); err != nil {
		t.Fatal(err)
	}
	records, err := store.ListRecent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].CreatedAt.IsZero() {
		t.Errorf("created_at not defaulted: %+v", records)
	}
}

func TestSQLite_FileBackedMigration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveAnalysis(context.Background(), AnalysisRecord{ID: "persisted", Status: "completed"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	// reopening applies no duplicate migrations and sees the row
	store, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	records, err := store.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].ID != "persisted" {
		t.Errorf("unexpected records after reopen: %+v", records)
	}
}
