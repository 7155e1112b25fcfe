package adapter

import (
	"context"
	"time"

	"github.com/datasight/datasight-ai/internal/llm/types"
	"github.com/datasight/datasight-ai/internal/metrics"
)

// metered wraps a provider client and records request count, latency and
// token usage per provider/model.
type metered struct {
	provider string
	model    string
	inner    Completer
}

func newMetered(provider, model string, inner Completer) Completer {
	return &metered{provider: provider, model: model, inner: inner}
}

func (m *metered) Complete(ctx context.Context, req types.CompletionRequest) (types.CompletionResponse, error) {
	start := time.Now()
	resp, err := m.inner.Complete(ctx, req)
	metrics.LLMRequestDuration.WithLabelValues(m.provider, m.model).Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.LLMRequestsTotal.WithLabelValues(m.provider, m.model, status).Inc()

	if err == nil {
		metrics.LLMTokensUsed.WithLabelValues(m.provider, m.model, "input").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(m.provider, m.model, "output").Add(float64(resp.Usage.CompletionTokens))
	}
	return resp, err
}
