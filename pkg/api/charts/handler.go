package charts

import (
	"encoding/json"
	"fmt"
	"net/http"

	"bizsight/pkg/core/chartdata"
	"bizsight/pkg/core/session"
)

// HandleChartData returns every series the dashboard draws in a single
// payload. The simulation series is present only after a what-if run.
func HandleChartData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	id := r.URL.Query().Get("session_id")
	if id == "" {
		http.Error(w, "session_id query parameter is required", http.StatusBadRequest)
		return
	}
	s, ok := session.GetManager().Get(id)
	if !ok {
		http.Error(w, fmt.Sprintf("session not found: %s", id), http.StatusNotFound)
		return
	}
	if s.Dataset.Empty() {
		http.Error(w, "no dataset loaded for this session", http.StatusBadRequest)
		return
	}

	payload := map[string]interface{}{
		"daily_revenue":   chartdata.DailyRevenue(s.Dataset),
		"daily_profit":    chartdata.DailyProfit(s.Dataset),
		"product_revenue": chartdata.ProductRevenue(s.Dataset),
	}
	if s.LastSimulation != nil {
		payload["simulation"] = chartdata.SimulationComparison(*s.LastSimulation)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}
