package analytics

import (
	"github.com/datasight/datasight-ai/internal/dataset"
)

// Package analytics computes the exploratory (EDA) summary for a dataset.
//
// IMPORTANT: this package uses ONLY pure statistical methods, no machine
// learning. The anomaly/cluster path lives in analytics/ml.
//
// The summary map keeps the legacy wire keys (linhas, colunas, numericas,
// faltantes, duplicados, stats) because downstream workflow consumers bind
// to them; do not rename without versioning the API.

// Summarize computes the descriptive summary. It is a pure function of the
// dataset and never fails: degenerate inputs produce zero counts and an
// empty stats map.
func Summarize(ds *dataset.Dataset) map[string]interface{} {
	numericCols := ds.NumericColumns()

	stats := map[string]map[string]float64{}
	for _, col := range numericCols {
		stats[col] = Describe(ds.NumericValues(col))
	}

	return map[string]interface{}{
		"linhas":     ds.Rows(),
		"colunas":    len(ds.Columns()),
		"numericas":  len(numericCols),
		"faltantes":  ds.MissingCells(),
		"duplicados": ds.DuplicateRows(),
		"stats":      stats,
	}
}
