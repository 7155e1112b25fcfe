package ml

import (
	"math"
	"math/rand"
	"sort"
)

// isolationTree is a single randomized partition tree.
type isolationTree struct {
	splitFeature int
	splitValue   float64
	left         *isolationTree
	right        *isolationTree
	size         int
	isLeaf       bool
}

// IsolationForest scores rows by how quickly random axis-aligned splits
// isolate them. Shorter isolation paths mean higher anomaly scores. All
// randomness flows through the source given to Fit, so the forest is
// reproducible for a fixed seed.
type IsolationForest struct {
	trees         []*isolationTree
	numTrees      int
	subSampleSize int
	maxDepth      int
}

const (
	defaultNumTrees  = 100
	defaultSubSample = 256
)

// NewIsolationForest creates a forest with the standard parameters from the
// original paper: 100 trees over 256-row subsamples, depth capped at
// ceil(log2(subsample)).
func NewIsolationForest() *IsolationForest {
	return &IsolationForest{
		numTrees:      defaultNumTrees,
		subSampleSize: defaultSubSample,
		maxDepth:      int(math.Ceil(math.Log2(defaultSubSample))),
	}
}

// Fit builds the forest over row-major data.
func (f *IsolationForest) Fit(data [][]float64, rng *rand.Rand) {
	f.trees = make([]*isolationTree, 0, f.numTrees)
	if len(data) == 0 {
		return
	}
	for i := 0; i < f.numTrees; i++ {
		sample := f.sample(data, rng)
		f.trees = append(f.trees, f.buildTree(sample, 0, rng))
	}
}

// Score returns the anomaly score in [0, 1] for one row:
// 2^(-avgPathLength / c(subsample)). Higher is more anomalous.
func (f *IsolationForest) Score(point []float64) float64 {
	if len(f.trees) == 0 {
		return 0.5
	}
	total := 0.0
	for _, tree := range f.trees {
		total += f.pathLength(tree, point, 0)
	}
	avg := total / float64(len(f.trees))
	return math.Pow(2, -avg/averagePathLength(f.subSampleSize))
}

// Scores returns per-row anomaly scores.
func (f *IsolationForest) Scores(data [][]float64) []float64 {
	scores := make([]float64, len(data))
	for i, row := range data {
		scores[i] = f.Score(row)
	}
	return scores
}

// TopFraction returns the indices of the round(fraction*n) highest-scoring
// rows. Ties break toward the lower row index so the cut is deterministic.
func TopFraction(scores []float64, fraction float64) []int {
	n := len(scores)
	count := int(math.Round(fraction * float64(n)))
	if count <= 0 {
		return nil
	}
	if count > n {
		count = n
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	flagged := idx[:count]
	sort.Ints(flagged)
	return flagged
}

// sample draws a subsample without replacement via Fisher-Yates.
func (f *IsolationForest) sample(data [][]float64, rng *rand.Rand) [][]float64 {
	size := f.subSampleSize
	if size > len(data) {
		size = len(data)
	}
	shuffled := make([][]float64, len(data))
	copy(shuffled, data)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:size]
}

func (f *IsolationForest) buildTree(data [][]float64, depth int, rng *rand.Rand) *isolationTree {
	if len(data) <= 1 || depth >= f.maxDepth || allIdentical(data) {
		return &isolationTree{size: len(data), isLeaf: true}
	}

	feature := rng.Intn(len(data[0]))
	minVal, maxVal := featureRange(data, feature)
	if minVal == maxVal {
		return &isolationTree{size: len(data), isLeaf: true}
	}
	split := minVal + rng.Float64()*(maxVal-minVal)

	var left, right [][]float64
	for _, row := range data {
		if row[feature] < split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &isolationTree{size: len(data), isLeaf: true}
	}

	return &isolationTree{
		splitFeature: feature,
		splitValue:   split,
		left:         f.buildTree(left, depth+1, rng),
		right:        f.buildTree(right, depth+1, rng),
		size:         len(data),
	}
}

func (f *IsolationForest) pathLength(tree *isolationTree, point []float64, depth int) float64 {
	if tree.isLeaf {
		return float64(depth) + averagePathLength(tree.size)
	}
	if point[tree.splitFeature] < tree.splitValue {
		return f.pathLength(tree.left, point, depth+1)
	}
	return f.pathLength(tree.right, point, depth+1)
}

// averagePathLength is c(n), the expected path length of an unsuccessful
// BST search: 2H(n-1) - 2(n-1)/n.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	h := math.Log(float64(n-1)) + 0.5772156649 // Euler-Mascheroni
	return 2*h - 2*float64(n-1)/float64(n)
}

func allIdentical(data [][]float64) bool {
	first := data[0]
	for _, row := range data[1:] {
		for j := range first {
			if math.Abs(row[j]-first[j]) > 1e-10 {
				return false
			}
		}
	}
	return true
}

func featureRange(data [][]float64, feature int) (float64, float64) {
	minVal, maxVal := data[0][feature], data[0][feature]
	for _, row := range data {
		v := row[feature]
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}
