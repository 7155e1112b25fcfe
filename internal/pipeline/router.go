package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/datasight/datasight-ai/internal/llm/adapter"
	"github.com/datasight/datasight-ai/internal/llm/types"
)

// DatasetShape is the routing input: the few numbers the decision rule
// needs, not the data itself.
type DatasetShape struct {
	Rows        int
	Columns     int
	NumericCols int
}

// NumericFraction returns numeric columns over total columns.
func (s DatasetShape) NumericFraction() float64 {
	if s.Columns == 0 {
		return 0
	}
	return float64(s.NumericCols) / float64(s.Columns)
}

// Classifier decides whether a dataset takes the ML path or the EDA path.
type Classifier interface {
	Classify(ctx context.Context, shape DatasetShape) (Route, error)
}

// RuleClassifier applies the routing rule directly: ML when the dataset has
// more than 500 rows AND a numeric-column fraction above one half. Used in
// tests and whenever no completion provider is configured.
type RuleClassifier struct{}

func (RuleClassifier) Classify(_ context.Context, shape DatasetShape) (Route, error) {
	if shape.Rows > 500 && shape.NumericFraction() > 0.5 {
		return RouteML, nil
	}
	return RouteEDA, nil
}

// LLMClassifier delegates the same rule to the completion service as a
// strict instruction and parses the short categorical answer. The decision
// is nominally deterministic but actually made by a non-deterministic
// external model, so callers near the threshold must tolerate occasional
// misclassification. Any failure or unrecognized answer falls back to EDA,
// the cheaper path. No retry.
type LLMClassifier struct {
	Completer adapter.Completer
}

func (c LLMClassifier) Classify(ctx context.Context, shape DatasetShape) (Route, error) {
	prompt := fmt.Sprintf(`Dataset:
- Rows: %d
- Columns: %d
- Numeric: %d

ML if >500 rows AND >50%% numeric columns, otherwise EDA.
Answer: ML or EDA`, shape.Rows, shape.Columns, shape.NumericCols)

	resp, err := c.Completer.Complete(ctx, types.CompletionRequest{
		Messages: []types.Message{
			{Role: "system", Content: "Answer ONLY: ML or EDA"},
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
	})
	if err != nil {
		return RouteEDA, nil
	}
	return parseRoute(resp.Content), nil
}

// parseRoute maps any answer containing "ML" (case-insensitive) to the ML
// route; everything else, including failure text, is EDA.
func parseRoute(answer string) Route {
	if strings.Contains(strings.ToUpper(answer), "ML") {
		return RouteML
	}
	return RouteEDA
}
