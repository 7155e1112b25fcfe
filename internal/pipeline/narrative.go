package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/datasight/datasight-ai/internal/llm/adapter"
	"github.com/datasight/datasight-ai/internal/llm/types"
)

// Narrative text contract with the completion service. The model is asked
// to emit:
//
//	INSIGHTS:
//	- insight 1
//	- insight 2
//
//	RECOMMENDATION:
//	text
//
// and the parser below turns that free text back into structure. The
// parser must never fail on malformed text; it degrades to the fallback
// values instead.
const (
	insightsLabel        = "INSIGHTS:"
	recommendationMarker = "RECOMMENDATION:"

	fallbackRecommendation = "analysis complete"
	fallbackInsight        = "dataset processed"

	narrativeTemperature = 0.7
)

// Narrative is the parsed output of the insight-generation call.
type Narrative struct {
	Insights       []string
	Recommendation string
}

// generateNarrative runs the insight-generation call over the route, the
// analysis results and a small preview of the data. Sampling temperature is
// nonzero by design: wording may vary across identical calls.
func generateNarrative(
	ctx context.Context,
	completer adapter.Completer,
	route Route,
	analysis map[string]interface{},
	preview []map[string]interface{},
) (Narrative, error) {
	resp, err := completer.Complete(ctx, types.CompletionRequest{
		Messages: []types.Message{
			{Role: "system", Content: "You are an objective data analyst. Be concise."},
			{Role: "user", Content: buildInsightPrompt(route, analysis, preview)},
		},
		Temperature: narrativeTemperature,
	})
	if err != nil {
		return Narrative{}, err
	}
	return ParseNarrative(resp.Content), nil
}

// buildInsightPrompt embeds the analysis context as formatted text.
func buildInsightPrompt(route Route, analysis map[string]interface{}, preview []map[string]interface{}) string {
	analysisJSON, _ := json.Marshal(analysis)
	previewJSON, _ := json.Marshal(preview)

	return fmt.Sprintf(`Analysis: %s
Results: %s
Preview: %s

Produce:
INSIGHTS:
- insight 1
- insight 2

RECOMMENDATION:
text`, strings.ToUpper(string(route)), analysisJSON, previewJSON)
}

// ParseNarrative splits the completion text on the RECOMMENDATION: marker.
// Text before it, with the INSIGHTS: label stripped, is scanned line by
// line for dash-prefixed insight lines; text after it is the
// recommendation. A missing marker yields the fallback recommendation; no
// dash lines yield a single fallback insight.
func ParseNarrative(text string) Narrative {
	insightsBlock := text
	recommendation := fallbackRecommendation

	if before, after, found := strings.Cut(text, recommendationMarker); found {
		insightsBlock = before
		if trimmed := strings.TrimSpace(after); trimmed != "" {
			recommendation = trimmed
		}
	}
	insightsBlock = strings.TrimSpace(strings.ReplaceAll(insightsBlock, insightsLabel, ""))

	var insights []string
	for _, line := range strings.Split(insightsBlock, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-") {
			continue
		}
		if item := strings.TrimSpace(strings.TrimLeft(line, "- ")); item != "" {
			insights = append(insights, item)
		}
	}
	if len(insights) == 0 {
		insights = []string{fallbackInsight}
	}

	return Narrative{Insights: insights, Recommendation: recommendation}
}

// defaultNarrative is the degraded-mode narrative used when no completion
// provider is configured.
func defaultNarrative() Narrative {
	return Narrative{
		Insights:       []string{fallbackInsight},
		Recommendation: fallbackRecommendation,
	}
}
