package ml

import (
	"errors"
	"math"
	"math/rand"
)

// KMeans partitions data points into K clusters with Lloyd's algorithm and
// k-means++ seeding. All randomness flows through the caller-supplied
// source, so identical data plus an identical seed reproduce identical
// assignments.
type KMeans struct {
	K       int
	MaxIter int

	Centroids [][]float64
	Inertia   float64 // sum of squared distances to the nearest centroid
}

// ErrTooFewPoints is returned when the data has fewer points than K.
var ErrTooFewPoints = errors.New("kmeans: fewer data points than clusters")

// NewKMeans returns a model for k clusters with the given iteration cap.
func NewKMeans(k, maxIter int) *KMeans {
	return &KMeans{K: k, MaxIter: maxIter}
}

// Fit runs Lloyd's algorithm once from a k-means++ initialization drawn
// from rng and records the resulting centroids and inertia.
func (m *KMeans) Fit(x [][]float64, rng *rand.Rand) error {
	n := len(x)
	if n == 0 {
		return errors.New("kmeans: empty input")
	}
	if n < m.K {
		return ErrTooFewPoints
	}
	p := len(x[0])

	m.Centroids = m.initCentroids(x, rng)
	assign := make([]int, n)

	for it := 0; it < m.MaxIter; it++ {
		changed := false

		for i, point := range x {
			best, bestDist := 0, math.MaxFloat64
			for k, c := range m.Centroids {
				if d := squaredDistance(point, c); d < bestDist {
					best, bestDist = k, d
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}

		sums := make([][]float64, m.K)
		counts := make([]int, m.K)
		for k := range sums {
			sums[k] = make([]float64, p)
		}
		for i, point := range x {
			k := assign[i]
			counts[k]++
			for j, v := range point {
				sums[k][j] += v
			}
		}
		for k := range m.Centroids {
			if counts[k] == 0 {
				continue // empty cluster keeps its centroid
			}
			for j := range m.Centroids[k] {
				m.Centroids[k][j] = sums[k][j] / float64(counts[k])
			}
		}

		if !changed && it > 0 {
			break
		}
	}

	m.Inertia = 0
	for i, point := range x {
		m.Inertia += squaredDistance(point, m.Centroids[assign[i]])
	}
	return nil
}

// Predict assigns each point to its nearest centroid.
func (m *KMeans) Predict(x [][]float64) []int {
	assign := make([]int, len(x))
	for i, point := range x {
		best, bestDist := 0, math.MaxFloat64
		for k, c := range m.Centroids {
			if d := squaredDistance(point, c); d < bestDist {
				best, bestDist = k, d
			}
		}
		assign[i] = best
	}
	return assign
}

// initCentroids implements k-means++: the first center is uniform, each
// subsequent center is drawn proportionally to squared distance from the
// nearest chosen center.
func (m *KMeans) initCentroids(x [][]float64, rng *rand.Rand) [][]float64 {
	n := len(x)
	centroids := make([][]float64, 0, m.K)
	centroids = append(centroids, cloneVec(x[rng.Intn(n)]))

	distSq := make([]float64, n)
	for len(centroids) < m.K {
		total := 0.0
		for i, point := range x {
			minDist := math.MaxFloat64
			for _, c := range centroids {
				if d := squaredDistance(point, c); d < minDist {
					minDist = d
				}
			}
			distSq[i] = minDist
			total += minDist
		}

		// All remaining points coincide with chosen centers; fall back to
		// a uniform draw.
		if total == 0 {
			centroids = append(centroids, cloneVec(x[rng.Intn(n)]))
			continue
		}

		r := rng.Float64() * total
		cumulative := 0.0
		picked := n - 1
		for i, d := range distSq {
			cumulative += d
			if cumulative >= r {
				picked = i
				break
			}
		}
		centroids = append(centroids, cloneVec(x[picked]))
	}
	return centroids
}

// FitBest runs Fit restarts times and keeps the run with the lowest
// inertia, mirroring scikit-learn's n_init behavior.
func (m *KMeans) FitBest(x [][]float64, rng *rand.Rand, restarts int) error {
	if restarts < 1 {
		restarts = 1
	}
	var (
		bestCentroids [][]float64
		bestInertia   = math.MaxFloat64
	)
	for r := 0; r < restarts; r++ {
		if err := m.Fit(x, rng); err != nil {
			return err
		}
		if m.Inertia < bestInertia {
			bestInertia = m.Inertia
			bestCentroids = m.Centroids
		}
	}
	m.Centroids = bestCentroids
	m.Inertia = bestInertia
	return nil
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func cloneVec(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
