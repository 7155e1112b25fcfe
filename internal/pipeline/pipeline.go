package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/datasight/datasight-ai/internal/analytics"
	"github.com/datasight/datasight-ai/internal/analytics/ml"
	"github.com/datasight/datasight-ai/internal/dataset"
	"github.com/datasight/datasight-ai/internal/llm/adapter"
)

// Package pipeline orchestrates one dataset analysis: route decision, the
// chosen analysis engine, narrative generation, result packaging. One
// pipeline value is safe for concurrent use; every Run threads its own
// state and nothing is shared across requests.

// Options tunes one pipeline instance.
type Options struct {
	// Detection parameters for the ML path.
	Detection ml.Options

	// LLMTimeout bounds each completion call. Zero means no deadline
	// beyond the provider client's own.
	LLMTimeout time.Duration
}

// DefaultOptions returns production defaults.
func DefaultOptions() Options {
	return Options{
		Detection:  ml.DefaultOptions(),
		LLMTimeout: 60 * time.Second,
	}
}

// Pipeline sequences the analysis stages.
type Pipeline struct {
	completer adapter.Completer // nil = degraded mode
	opts      Options
	logger    *zap.Logger
}

// New creates a pipeline. completer may be nil: routing then uses the
// deterministic rule and the narrative falls back to defaults.
func New(completer adapter.Completer, opts Options, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{completer: completer, opts: opts, logger: logger}
}

// Run executes the full pipeline over a cleaned dataset. Any unhandled
// stage failure aborts the run; no partial results are returned.
func (p *Pipeline) Run(ctx context.Context, ds *dataset.Dataset) (Result, error) {
	if ds.Rows() == 0 {
		return Result{}, ErrEmptyDataset
	}

	st := State{Dataset: ds, Stage: StageInit}

	st, err := p.route(ctx, st)
	if err != nil {
		return Result{}, err
	}

	st, err = p.analyze(ctx, st)
	if err != nil {
		return Result{}, err
	}

	st, err = p.narrate(ctx, st)
	if err != nil {
		return Result{}, err
	}

	st.Stage = StageDone
	return Result{
		DatasetID:      uuid.NewString(),
		Route:          st.Route,
		Summary:        st.Analysis,
		Insights:       st.Insights,
		Recommendation: st.Recommendation,
	}, nil
}

// route runs the INIT → ROUTED transition.
func (p *Pipeline) route(ctx context.Context, st State) (State, error) {
	shape := DatasetShape{
		Rows:        st.Dataset.Rows(),
		Columns:     len(st.Dataset.Columns()),
		NumericCols: len(st.Dataset.NumericColumns()),
	}

	var classifier Classifier = RuleClassifier{}
	if p.completer != nil {
		classifier = LLMClassifier{Completer: p.completer}
	}

	callCtx, cancel := p.callContext(ctx)
	defer cancel()

	route, err := classifier.Classify(callCtx, shape)
	if err != nil {
		// Fail-safe toward the cheaper path.
		route = RouteEDA
	}

	p.logger.Debug("dataset routed",
		zap.String("route", string(route)),
		zap.Int("rows", shape.Rows),
		zap.Int("numeric_cols", shape.NumericCols))

	next := st
	next.Stage = StageRouted
	next.Route = route
	return next, nil
}

// analyze runs the ROUTED → ANALYZED transition, dispatching on the route.
func (p *Pipeline) analyze(_ context.Context, st State) (State, error) {
	next := st
	next.Stage = StageAnalyzed

	switch st.Route {
	case RouteML:
		matrix, _ := st.Dataset.NumericMatrix()
		report, err := ml.Detect(matrix, p.opts.Detection)
		if errors.Is(err, ml.ErrNoNumericColumns) {
			// Degrade to an error-shaped summary and keep going; the
			// narrative still gets generated over it.
			next.Analysis = map[string]interface{}{"error": "no numeric columns"}
			return next, nil
		}
		if err != nil {
			return State{}, err
		}
		next.Analysis = report.Summary()

	default:
		next.Analysis = analytics.Summarize(st.Dataset)
	}
	return next, nil
}

// narrate runs the ANALYZED → NARRATED transition.
func (p *Pipeline) narrate(ctx context.Context, st State) (State, error) {
	next := st
	next.Stage = StageNarrated

	if p.completer == nil {
		n := defaultNarrative()
		next.Insights = n.Insights
		next.Recommendation = n.Recommendation
		return next, nil
	}

	callCtx, cancel := p.callContext(ctx)
	defer cancel()

	narrative, err := generateNarrative(callCtx, p.completer, st.Route, st.Analysis, st.Dataset.Preview(3))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return State{}, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return State{}, fmt.Errorf("%w: %v", ErrUpstreamService, err)
	}

	next.Insights = narrative.Insights
	next.Recommendation = narrative.Recommendation
	return next, nil
}

// callContext derives the per-call deadline for external completions.
func (p *Pipeline) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.opts.LLMTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.opts.LLMTimeout)
}
