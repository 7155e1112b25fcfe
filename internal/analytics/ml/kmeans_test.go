package ml

import (
	"math/rand"
	"testing"
)

// twoBlobs builds two well-separated groups of points.
func twoBlobs(perBlob int, rng *rand.Rand) [][]float64 {
	data := make([][]float64, 0, 2*perBlob)
	for i := 0; i < perBlob; i++ {
		data = append(data, []float64{rng.NormFloat64(), rng.NormFloat64()})
	}
	for i := 0; i < perBlob; i++ {
		data = append(data, []float64{20 + rng.NormFloat64(), 20 + rng.NormFloat64()})
	}
	return data
}

func TestKMeans_SeparatesBlobs(t *testing.T) {
	data := twoBlobs(50, rand.New(rand.NewSource(3)))

	km := NewKMeans(2, 300)
	if err := km.FitBest(data, rand.New(rand.NewSource(42)), 10); err != nil {
		t.Fatal(err)
	}
	assign := km.Predict(data)

	// every point in a blob shares its blob's cluster
	first, second := assign[0], assign[50]
	if first == second {
		t.Fatalf("blobs assigned to the same cluster")
	}
	for i := 0; i < 50; i++ {
		if assign[i] != first {
			t.Errorf("blob 1 point %d in cluster %d, want %d", i, assign[i], first)
		}
		if assign[50+i] != second {
			t.Errorf("blob 2 point %d in cluster %d, want %d", i, assign[50+i], second)
		}
	}
}

func TestKMeans_Deterministic(t *testing.T) {
	data := twoBlobs(30, rand.New(rand.NewSource(4)))

	a := NewKMeans(2, 300)
	if err := a.FitBest(data, rand.New(rand.NewSource(42)), 10); err != nil {
		t.Fatal(err)
	}
	b := NewKMeans(2, 300)
	if err := b.FitBest(data, rand.New(rand.NewSource(42)), 10); err != nil {
		t.Fatal(err)
	}

	if a.Inertia != b.Inertia {
		t.Fatalf("inertia differs across identical seeds: %v vs %v", a.Inertia, b.Inertia)
	}
	pa, pb := a.Predict(data), b.Predict(data)
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("assignment %d differs: %d vs %d", i, pa[i], pb[i])
		}
	}
}

func TestKMeans_TooFewPoints(t *testing.T) {
	km := NewKMeans(4, 300)
	err := km.Fit([][]float64{{1, 2}, {3, 4}}, rand.New(rand.NewSource(42)))
	if err != ErrTooFewPoints {
		t.Errorf("expected ErrTooFewPoints, got %v", err)
	}
}

func TestKMeans_EmptyInput(t *testing.T) {
	km := NewKMeans(2, 300)
	if err := km.Fit(nil, rand.New(rand.NewSource(42))); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestKMeans_IdenticalPoints(t *testing.T) {
	data := [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}}
	km := NewKMeans(2, 300)
	if err := km.Fit(data, rand.New(rand.NewSource(42))); err != nil {
		t.Fatal(err)
	}
	if km.Inertia != 0 {
		t.Errorf("inertia over identical points = %v, want 0", km.Inertia)
	}
}

func TestStandardize(t *testing.T) {
	x := [][]float64{{1, 5}, {2, 5}, {3, 5}}
	scaled := Standardize(x)

	// column 0: mean 2, population std sqrt(2/3)
	if scaled[1][0] != 0 {
		t.Errorf("mean row not scaled to 0: %v", scaled[1][0])
	}
	if scaled[0][0] >= 0 || scaled[2][0] <= 0 {
		t.Errorf("scaling lost ordering: %v", scaled)
	}
	// zero-variance column maps to zero
	for i := range scaled {
		if scaled[i][1] != 0 {
			t.Errorf("constant column not zeroed: row %d = %v", i, scaled[i][1])
		}
	}
	// input untouched
	if x[0][0] != 1 {
		t.Errorf("Standardize mutated its input: %v", x)
	}
}
