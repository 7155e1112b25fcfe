package ml

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Package ml implements the anomaly-and-cluster pass over the numeric
// portion of a dataset: a seeded isolation forest flags a fixed prior
// fraction of rows as outliers, then seeded k-means over standardized
// features yields a cluster distribution. Identical input plus an identical
// seed must reproduce identical output; this is a required property of the
// engine, not incidental.

// ErrNoNumericColumns is returned when the ML pass is requested for a
// dataset without numeric columns. Callers degrade to an error-shaped
// summary rather than aborting the request.
var ErrNoNumericColumns = errors.New("no numeric columns")

// Options tunes the detection pass. Zero values fall back to the defaults
// used by DefaultOptions.
type Options struct {
	Seed            int64
	OutlierFraction float64
	RowsPerCluster  int
	MinClusters     int
	MaxClusters     int
	Restarts        int
	MaxIter         int
}

// DefaultOptions mirrors the production configuration: seed 42, a 10%
// outlier prior, k = clamp(rows/25, 2, 4), 10 k-means restarts.
func DefaultOptions() Options {
	return Options{
		Seed:            42,
		OutlierFraction: 0.10,
		RowsPerCluster:  25,
		MinClusters:     2,
		MaxClusters:     4,
		Restarts:        10,
		MaxIter:         300,
	}
}

// withDefaults fills unset fields from DefaultOptions. Seed is left alone:
// zero is a legal seed.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.OutlierFraction == 0 {
		o.OutlierFraction = def.OutlierFraction
	}
	if o.RowsPerCluster <= 0 {
		o.RowsPerCluster = def.RowsPerCluster
	}
	if o.MinClusters <= 0 {
		o.MinClusters = def.MinClusters
	}
	if o.MaxClusters <= 0 {
		o.MaxClusters = def.MaxClusters
	}
	if o.Restarts <= 0 {
		o.Restarts = def.Restarts
	}
	if o.MaxIter <= 0 {
		o.MaxIter = def.MaxIter
	}
	return o
}

// Report is the output of one detection pass.
type Report struct {
	Outliers       int            `json:"outliers"`
	OutlierPercent float64        `json:"outlierPercent"`
	Clusters       int            `json:"clusters"`
	Distribution   map[string]int `json:"distribution"`
}

// ClusterCount returns clamp(rows / rowsPerCluster, min, max). The count is
// volume-driven, not quality-driven: no silhouette or elbow search.
func ClusterCount(rows int, opts Options) int {
	opts = opts.withDefaults()
	k := rows / opts.RowsPerCluster
	if k < opts.MinClusters {
		k = opts.MinClusters
	}
	if k > opts.MaxClusters {
		k = opts.MaxClusters
	}
	return k
}

// Detect runs outlier scoring and clustering over a row-major numeric
// matrix (missing values already imputed as zero by the dataset layer).
func Detect(matrix [][]float64, opts Options) (Report, error) {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return Report{}, ErrNoNumericColumns
	}
	opts = opts.withDefaults()
	n := len(matrix)

	rng := rand.New(rand.NewSource(opts.Seed))

	forest := NewIsolationForest()
	forest.Fit(matrix, rng)
	flagged := TopFraction(forest.Scores(matrix), opts.OutlierFraction)
	outliers := len(flagged)

	k := ClusterCount(n, opts)
	scaled := Standardize(matrix)
	km := NewKMeans(k, opts.MaxIter)
	if err := km.FitBest(scaled, rng, opts.Restarts); err != nil {
		return Report{}, fmt.Errorf("clustering failed: %w", err)
	}
	assign := km.Predict(scaled)

	distribution := make(map[string]int, k)
	for i := 0; i < k; i++ {
		distribution[fmt.Sprintf("C%d", i)] = 0
	}
	for _, c := range assign {
		distribution[fmt.Sprintf("C%d", c)]++
	}

	percent := math.Round(float64(outliers)/float64(n)*100*100) / 100

	return Report{
		Outliers:       outliers,
		OutlierPercent: percent,
		Clusters:       k,
		Distribution:   distribution,
	}, nil
}

// Summary renders the report in the wire shape used by the analyze
// response: outliers, outlierPercent, clusters, distribution.
func (r Report) Summary() map[string]interface{} {
	return map[string]interface{}{
		"outliers":       r.Outliers,
		"outlierPercent": r.OutlierPercent,
		"clusters":       r.Clusters,
		"distribution":   r.Distribution,
	}
}
