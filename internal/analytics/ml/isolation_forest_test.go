package ml

import (
	"math/rand"
	"testing"
)

// clusteredData builds n well-behaved rows around the origin plus one far
// outlier at the end.
func clusteredData(n int, rng *rand.Rand) [][]float64 {
	data := make([][]float64, 0, n+1)
	for i := 0; i < n; i++ {
		data = append(data, []float64{rng.NormFloat64(), rng.NormFloat64()})
	}
	data = append(data, []float64{50, 50})
	return data
}

func TestIsolationForest_OutlierScoresHigher(t *testing.T) {
	data := clusteredData(200, rand.New(rand.NewSource(1)))

	forest := NewIsolationForest()
	forest.Fit(data, rand.New(rand.NewSource(42)))
	scores := forest.Scores(data)

	outlierScore := scores[len(scores)-1]
	for i := 0; i < len(scores)-1; i++ {
		if scores[i] >= outlierScore {
			t.Fatalf("inlier %d scored %v, outlier scored %v", i, scores[i], outlierScore)
		}
	}
	if outlierScore <= 0 || outlierScore > 1 {
		t.Errorf("score out of range: %v", outlierScore)
	}
}

func TestIsolationForest_Deterministic(t *testing.T) {
	data := clusteredData(100, rand.New(rand.NewSource(2)))

	a := NewIsolationForest()
	a.Fit(data, rand.New(rand.NewSource(42)))
	b := NewIsolationForest()
	b.Fit(data, rand.New(rand.NewSource(42)))

	sa, sb := a.Scores(data), b.Scores(data)
	for i := range sa {
		if sa[i] != sb[i] {
			t.Fatalf("score %d differs across identical seeds: %v vs %v", i, sa[i], sb[i])
		}
	}
}

func TestIsolationForest_EmptyFit(t *testing.T) {
	forest := NewIsolationForest()
	forest.Fit(nil, rand.New(rand.NewSource(42)))
	if got := forest.Score([]float64{1, 2}); got != 0.5 {
		t.Errorf("unfitted forest score = %v, want 0.5", got)
	}
}

func TestTopFraction(t *testing.T) {
	scores := make([]float64, 100)
	for i := range scores {
		scores[i] = float64(i) / 100
	}

	flagged := TopFraction(scores, 0.1)
	if len(flagged) != 10 {
		t.Fatalf("expected 10 flagged rows, got %d", len(flagged))
	}
	// highest-scoring rows are the last ten, returned in index order
	for i, idx := range flagged {
		if idx != 90+i {
			t.Errorf("flagged[%d] = %d, want %d", i, idx, 90+i)
		}
	}
}

func TestTopFraction_Rounding(t *testing.T) {
	// round(0.1 * 15) = 2, round(0.1 * 16) = 2, round(0.1 * 25) = 3
	cases := []struct {
		n    int
		want int
	}{
		{15, 2},
		{16, 2},
		{25, 3},
		{4, 0},
		{5, 1},
	}
	for _, tc := range cases {
		scores := make([]float64, tc.n)
		if got := len(TopFraction(scores, 0.1)); got != tc.want {
			t.Errorf("n=%d: flagged %d rows, want %d", tc.n, got, tc.want)
		}
	}
}

func TestTopFraction_TiesBreakByIndex(t *testing.T) {
	scores := []float64{0.9, 0.9, 0.9, 0.1}
	flagged := TopFraction(scores, 0.5)
	if len(flagged) != 2 || flagged[0] != 0 || flagged[1] != 1 {
		t.Errorf("ties should resolve to lower indices, got %v", flagged)
	}
}
