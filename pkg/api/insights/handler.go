package insights

import (
	"encoding/json"
	"fmt"
	"net/http"

	"bizsight/pkg/core/agent"
	"bizsight/pkg/core/insight"
	"bizsight/pkg/core/session"
)

var generator *insight.Generator

// InitHandler wires the LLM provider manager into the insight endpoints.
func InitHandler(mgr *agent.Manager) {
	generator = insight.NewGenerator(mgr)
}

type insightRequest struct {
	SessionID  string `json:"session_id"`
	Structured bool   `json:"structured"`
}

// HandleInsights runs the full three-section insight pass. A failed or
// unavailable AI call is still a 200: the status field tells the client
// what happened, and the analytics remain usable either way.
func HandleInsights(w http.ResponseWriter, r *http.Request) {
	s, ok := resolveSession(w, r)
	if !ok {
		return
	}

	// Body is optional: no body means the plaintext pass.
	var req insightRequest
	json.NewDecoder(r.Body).Decode(&req)

	var res insight.Result
	if req.Structured {
		res = generator.StructuredInsights(r.Context(), s.Dataset)
	} else {
		res = generator.BusinessInsights(r.Context(), s.Dataset)
	}
	session.GetManager().RecordInsight(s.ID, res)

	fmt.Printf("[INSIGHT] session %s: status=%s\n", s.ID, res.Status)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// HandleQuickSummary returns the two-sentence performance summary.
func HandleQuickSummary(w http.ResponseWriter, r *http.Request) {
	s, ok := resolveSession(w, r)
	if !ok {
		return
	}

	res := generator.QuickSummary(r.Context(), s.Dataset)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func resolveSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return nil, false
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}
	if generator == nil {
		http.Error(w, "insight generator not initialized", http.StatusInternalServerError)
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
	return s, true
}
