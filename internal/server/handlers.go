package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/datasight/datasight-ai/internal/dataset"
	"github.com/datasight/datasight-ai/internal/db"
	"github.com/datasight/datasight-ai/internal/metrics"
	"github.com/datasight/datasight-ai/internal/pipeline"
	"github.com/datasight/datasight-ai/pkg/types"
)

// ─── Analysis endpoints ──────────────────────────────────────────────────────
//
// POST /api/analyze              — run the full analysis pipeline
// GET  /api/v1/analyses/recent   — recent run history (metadata only)

// maxHistoryLimit caps the history page size a client can request.
const maxHistoryLimit = 500

// handleAnalyze — POST /api/analyze
//
// Accepts the dataset payload, runs route → analysis → narrative, and
// returns the packaged result. Failures return a single error response:
// 400 for an empty dataset, 500 for everything else.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req types.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	ds := dataset.FromRows(req.Rows)
	s.logger.AnalysisStarted(req.FileName, ds.Rows(), len(ds.Columns()))
	metrics.DatasetRows.Observe(float64(ds.Rows()))

	start := time.Now()
	result, err := s.pipeline.Run(r.Context(), ds)
	elapsed := time.Since(start)

	if err != nil {
		s.logger.AnalysisFailed(req.FileName, err)
		s.recordHistory(r, req.FileName, "", "failed", ds, elapsed, "")

		if errors.Is(err, pipeline.ErrEmptyDataset) {
			metrics.AnalysesTotal.WithLabelValues("none", "client_error").Inc()
			writeJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
			return
		}
		metrics.AnalysesTotal.WithLabelValues("none", "error").Inc()
		writeJSON(w, http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	route := string(result.Route)
	metrics.AnalysesTotal.WithLabelValues(route, "ok").Inc()
	metrics.AnalysisDuration.WithLabelValues(route).Observe(elapsed.Seconds())
	s.logger.AnalysisCompleted(result.DatasetID, req.FileName, route, elapsed)
	s.recordHistory(r, req.FileName, route, "completed", ds, elapsed, result.DatasetID)

	writeJSON(w, http.StatusOK, types.AnalyzeResponse{
		DatasetID:      result.DatasetID,
		Route:          route,
		Summary:        result.Summary,
		Insights:       result.Insights,
		Recommendation: result.Recommendation,
	})
}

// handleRecentAnalyses — GET /api/v1/analyses/recent
//
//	Query params:
//	  limit — max results (default 50, capped at 500)
func (s *Server) handleRecentAnalyses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.history == nil {
		jsonOK(w, map[string]interface{}{
			"analyses": []interface{}{},
			"total":    0,
			"note":     "history store not initialised",
		})
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := s.history.ListRecent(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []db.AnalysisRecord{}
	}

	jsonOK(w, map[string]interface{}{
		"analyses": records,
		"total":    len(records),
	})
}

// recordHistory persists run metadata; history failures are logged, never
// surfaced to the client.
func (s *Server) recordHistory(r *http.Request, fileName, route, status string, ds *dataset.Dataset, elapsed time.Duration, datasetID string) {
	if s.history == nil {
		return
	}
	if datasetID == "" {
		datasetID = "failed-" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	rec := db.AnalysisRecord{
		ID:          datasetID,
		FileName:    fileName,
		Route:       route,
		Rows:        ds.Rows(),
		Columns:     len(ds.Columns()),
		NumericCols: len(ds.NumericColumns()),
		Status:      status,
		DurationMS:  elapsed.Milliseconds(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.history.SaveAnalysis(r.Context(), rec); err != nil {
		s.logger.App().Warn("failed to record analysis history", zap.Error(err))
	}
}

// ─── Liveness and info ───────────────────────────────────────────────────────

// handleHealth serves the legacy root probe and /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/health" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonOK(w, map[string]interface{}{"status": "online"})
}

// handleReady reports readiness.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.IsRunning() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "not_ready"})
		return
	}
	jsonOK(w, map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleInfo lists the supported paths.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonOK(w, map[string]interface{}{
		"name":         "datasight-ai",
		"version":      "0.1.0",
		"llm_provider": s.config.LLM.Provider,
		"paths": []string{
			"GET /",
			"GET /health",
			"GET /ready",
			"GET /info",
			"GET /metrics",
			"POST /api/analyze",
			"GET /api/v1/analyses/recent",
		},
	})
}

// ─── JSON helpers ────────────────────────────────────────────────────────────

// jsonOK writes v as a 200 JSON response.
func jsonOK(w http.ResponseWriter, v interface{}) {
	writeJSON(w, http.StatusOK, v)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
