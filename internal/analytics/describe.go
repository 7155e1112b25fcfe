package analytics

import (
	"math"
	"sort"
)

// Describe computes the per-column descriptive statistics in the shape of a
// pandas describe() row: count, mean, std, min, 25%, 50%, 75%, max.
// Std is the sample standard deviation (ddof=1). An empty input yields a
// map of zeros with count 0.
func Describe(values []float64) map[string]float64 {
	n := len(values)
	if n == 0 {
		return map[string]float64{
			"count": 0, "mean": 0, "std": 0,
			"min": 0, "25%": 0, "50%": 0, "75%": 0, "max": 0,
		}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return map[string]float64{
		"count": float64(n),
		"mean":  Mean(values),
		"std":   SampleStd(values),
		"min":   sorted[0],
		"25%":   percentileSorted(sorted, 25),
		"50%":   percentileSorted(sorted, 50),
		"75%":   percentileSorted(sorted, 75),
		"max":   sorted[n-1],
	}
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

// SampleStd returns the sample standard deviation (n-1 denominator),
// 0 when fewer than two values exist.
func SampleStd(x []float64) float64 {
	n := len(x)
	if n < 2 {
		return 0
	}
	mean := Mean(x)
	ss := 0.0
	for _, v := range x {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// percentileSorted computes the p-th percentile of an ascending slice using
// linear interpolation between closest ranks (the pandas default).
func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
