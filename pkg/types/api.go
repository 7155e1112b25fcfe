package types

// Wire types for the public HTTP API.

// AnalyzeRequest is the body of POST /api/analyze. Rows carry arbitrary
// string keys with scalar or null values; nested list/object fields are
// discarded during cleaning. TotalRows is informational only.
type AnalyzeRequest struct {
	FileName  string                   `json:"fileName"`
	TotalRows int                      `json:"totalRows"`
	Rows      []map[string]interface{} `json:"rows"`
	UserEmail string                   `json:"userEmail,omitempty"`
}

// AnalyzeResponse is the body of a successful analysis. Summary is
// engine-specific: the ML route yields outliers/outlierPercent/clusters/
// distribution, the EDA route yields the legacy descriptive keys.
type AnalyzeResponse struct {
	DatasetID      string                 `json:"datasetId"`
	Route          string                 `json:"route"`
	Summary        map[string]interface{} `json:"summary"`
	Insights       []string               `json:"insights"`
	Recommendation string                 `json:"recommendation"`
}

// ErrorResponse is the single error shape for all failures.
type ErrorResponse struct {
	Error string `json:"error"`
}
