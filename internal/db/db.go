package db

import (
	"context"
	"time"
)

// Package db persists analysis-run metadata. Datasets and analysis results
// are never stored; the history exists so operators can see what the
// service has been doing, not to replay results.

// AnalysisRecord is one row of run history.
type AnalysisRecord struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	Route       string    `json:"route"`
	Rows        int       `json:"rows"`
	Columns     int       `json:"columns"`
	NumericCols int       `json:"numericCols"`
	Status      string    `json:"status"` // completed | failed
	DurationMS  int64     `json:"durationMs"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HistoryStore records and lists analysis runs.
type HistoryStore interface {
	// SaveAnalysis inserts one run record.
	SaveAnalysis(ctx context.Context, rec AnalysisRecord) error

	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]AnalysisRecord, error)

	// Close releases the underlying database.
	Close() error
}
