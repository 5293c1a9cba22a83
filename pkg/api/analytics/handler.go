package analytics

import (
	"encoding/json"
	"fmt"
	"net/http"

	"bizsight/pkg/core/dataset"
	"bizsight/pkg/core/metrics"
	"bizsight/pkg/core/risk"
	"bizsight/pkg/core/session"
	"bizsight/pkg/core/trend"
)

var thresholds = risk.DefaultThresholds()

// InitHandler installs the rule thresholds loaded at startup.
func InitHandler(th risk.Thresholds) {
	thresholds = th
}

// HandleMetrics returns the aggregate and per-product metric summary.
func HandleMetrics(w http.ResponseWriter, r *http.Request) {
	ds, ok := sessionDataset(w, r)
	if !ok {
		return
	}
	respondJSON(w, metrics.AllMetrics(ds))
}

// HandleTrends returns the full trend report.
func HandleTrends(w http.ResponseWriter, r *http.Request) {
	ds, ok := sessionDataset(w, r)
	if !ok {
		return
	}
	respondJSON(w, trend.AllTrends(ds))
}

// HandleRisks returns the five rule findings and their summary.
func HandleRisks(w http.ResponseWriter, r *http.Request) {
	ds, ok := sessionDataset(w, r)
	if !ok {
		return
	}
	respondJSON(w, risk.AllRisksWith(ds, thresholds))
}

// sessionDataset resolves ?session_id= to the session's dataset, writing
// the error response itself when resolution fails.
func sessionDataset(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, bool) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return nil, false
	}

	id := r.URL.Query().Get("session_id")
	if id == "" {
		http.Error(w, "session_id query parameter is required", http.StatusBadRequest)
		return nil, false
	}
	s, ok := session.GetManager().Get(id)
	if !ok {
		http.Error(w, fmt.Sprintf("session not found: %s", id), http.StatusNotFound)
		return nil, false
	}
	if s.Dataset.Empty() {
		http.Error(w, "no dataset loaded for this session", http.StatusBadRequest)
		return nil, false
	}
	return s.Dataset, true
}

func respondJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
