package simulation

import (
	"encoding/json"
	"fmt"
	"net/http"

	"bizsight/pkg/core/metrics"
	"bizsight/pkg/core/session"
	"bizsight/pkg/core/simulate"
)

type simulateRequest struct {
	SessionID        string  `json:"session_id"`
	RevenueChangePct float64 `json:"revenue_change_pct"`
	CostChangePct    float64 `json:"cost_change_pct"`
}

type simulateResponse struct {
	Comparison simulate.ProfitComparison `json:"comparison"`
	Simulated  metrics.Summary           `json:"simulated_metrics"`
}

// HandleSimulate applies a what-if percentage change to the session's
// dataset and returns the profit comparison. The session's dataset is
// never modified; only the comparison is cached on the session.
func HandleSimulate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mgr := session.GetManager()
	s, ok := mgr.Get(req.SessionID)
	if !ok {
		http.Error(w, fmt.Sprintf("session not found: %s", req.SessionID), http.StatusNotFound)
		return
	}
	if s.Dataset.Empty() {
		http.Error(w, "no dataset loaded for this session", http.StatusBadRequest)
		return
	}

	simulated := simulate.Changes(s.Dataset, req.RevenueChangePct, req.CostChangePct)
	cmp := simulate.CompareProfit(s.Dataset, simulated)
	mgr.RecordSimulation(req.SessionID, cmp)

	fmt.Printf("[SIMULATE] session %s: revenue %+g%% cost %+g%% -> profit %+.2f\n",
		req.SessionID, req.RevenueChangePct, req.CostChangePct, cmp.Difference)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(simulateResponse{
		Comparison: cmp,
		Simulated:  metrics.AllMetrics(simulated),
	})
}
