package pipeline

import (
	"github.com/datasight/datasight-ai/internal/dataset"
)

// Route labels the two analysis strategies.
type Route string

const (
	RouteML  Route = "ml"
	RouteEDA Route = "eda"
)

// Stage tracks pipeline progress. Transitions are strictly forward; there
// are no retries and no branching back.
type Stage string

const (
	StageInit     Stage = "INIT"
	StageRouted   Stage = "ROUTED"
	StageAnalyzed Stage = "ANALYZED"
	StageNarrated Stage = "NARRATED"
	StageDone     Stage = "DONE"
)

// State is the record threaded through the pipeline for one request. Each
// stage receives the prior record and returns a new one with only its own
// fields populated; no stage reads a field written by a later stage.
type State struct {
	Dataset        *dataset.Dataset
	Stage          Stage
	Route          Route
	Analysis       map[string]interface{}
	Insights       []string
	Recommendation string
}

// Result is the response payload for one analysis. Created once, never
// mutated, never stored.
type Result struct {
	DatasetID      string                 `json:"datasetId"`
	Route          Route                  `json:"route"`
	Summary        map[string]interface{} `json:"summary"`
	Insights       []string               `json:"insights"`
	Recommendation string                 `json:"recommendation"`
}
