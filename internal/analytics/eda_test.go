package analytics

import (
	"math"
	"testing"

	"github.com/datasight/datasight-ai/internal/dataset"
)

func TestSummarize_Counts(t *testing.T) {
	ds := dataset.FromRows([]map[string]interface{}{
		{"age": 30.0, "city": "porto"},
		{"age": 40.0, "city": "lisboa"},
		{"age": 40.0, "city": "lisboa"},
		{"age": nil, "city": "braga"},
	})

	summary := Summarize(ds)

	if got := summary["linhas"].(int); got != 4 {
		t.Errorf("linhas = %d, want 4", got)
	}
	if got := summary["colunas"].(int); got != 2 {
		t.Errorf("colunas = %d, want 2", got)
	}
	if got := summary["numericas"].(int); got != 1 {
		t.Errorf("numericas = %d, want 1", got)
	}
	if got := summary["faltantes"].(int); got != 1 {
		t.Errorf("faltantes = %d, want 1", got)
	}
	if got := summary["duplicados"].(int); got != 1 {
		t.Errorf("duplicados = %d, want 1", got)
	}

	stats := summary["stats"].(map[string]map[string]float64)
	if _, ok := stats["age"]; !ok {
		t.Fatalf("expected stats for 'age', got %v", stats)
	}
	if got := stats["age"]["count"]; got != 3 {
		t.Errorf("age count = %v, want 3 (nulls excluded)", got)
	}
}

func TestSummarize_NoNumericColumns(t *testing.T) {
	ds := dataset.FromRows([]map[string]interface{}{
		{"city": "porto"},
		{"city": "lisboa"},
	})

	summary := Summarize(ds)

	if got := summary["numericas"].(int); got != 0 {
		t.Errorf("numericas = %d, want 0", got)
	}
	stats := summary["stats"].(map[string]map[string]float64)
	if len(stats) != 0 {
		t.Errorf("expected empty stats map, got %v", stats)
	}
}

func TestSummarize_EmptyDataset(t *testing.T) {
	summary := Summarize(dataset.FromRows(nil))
	if got := summary["linhas"].(int); got != 0 {
		t.Errorf("linhas = %d, want 0", got)
	}
	if got := summary["faltantes"].(int); got != 0 {
		t.Errorf("faltantes = %d, want 0", got)
	}
}

func TestDescribe_KnownValues(t *testing.T) {
	d := Describe([]float64{4, 1, 3, 2})

	want := map[string]float64{
		"count": 4,
		"mean":  2.5,
		"std":   math.Sqrt(5.0 / 3.0),
		"min":   1,
		"25%":   1.75,
		"50%":   2.5,
		"75%":   3.25,
		"max":   4,
	}
	for key, expected := range want {
		if got := d[key]; math.Abs(got-expected) > 1e-9 {
			t.Errorf("%s = %v, want %v", key, got, expected)
		}
	}
}

func TestDescribe_SingleValue(t *testing.T) {
	d := Describe([]float64{7})
	if d["count"] != 1 || d["mean"] != 7 || d["std"] != 0 {
		t.Errorf("unexpected describe for single value: %v", d)
	}
	if d["25%"] != 7 || d["50%"] != 7 || d["75%"] != 7 {
		t.Errorf("quartiles of a single value should all equal it: %v", d)
	}
}

func TestDescribe_Empty(t *testing.T) {
	d := Describe(nil)
	if d["count"] != 0 {
		t.Errorf("count = %v, want 0", d["count"])
	}
}
