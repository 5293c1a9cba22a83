package reports

import (
	"encoding/json"
	"fmt"
	"net/http"

	"bizsight/pkg/core/report"
	"bizsight/pkg/core/session"
	"bizsight/pkg/core/store"
)

// HandleReport renders the flat text report for a session. The AI block
// comes from the session's cached insight result when one exists.
func HandleReport(w http.ResponseWriter, r *http.Request) {
	s, ok := resolveSession(w, r)
	if !ok {
		return
	}

	text := report.Build(s.Dataset, s.LastInsight)
	fmt.Printf("[REPORT] session %s: %d bytes (text)\n", s.ID, len(text))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}

// HandleReportHTML renders the markdown report and converts it to HTML.
func HandleReportHTML(w http.ResponseWriter, r *http.Request) {
	s, ok := resolveSession(w, r)
	if !ok {
		return
	}

	md := report.BuildMarkdown(s.Dataset, s.LastInsight)
	html, err := report.RenderHTML(md)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	fmt.Printf("[REPORT] session %s: %d bytes (html)\n", s.ID, len(html))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// HandleArchive stores the session's current text report under the
// session's username. Requires a configured database.
func HandleArchive(w http.ResponseWriter, r *http.Request) {
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
	if !store.Enabled() {
		http.Error(w, "report archive requires a configured database", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s, ok := session.GetManager().Get(req.SessionID)
	if !ok {
		http.Error(w, fmt.Sprintf("session not found: %s", req.SessionID), http.StatusNotFound)
		return
	}
	if s.Dataset.Empty() {
		http.Error(w, "no dataset loaded for this session", http.StatusBadRequest)
		return
	}

	text := report.Build(s.Dataset, s.LastInsight)
	id, err := store.NewReportRepo().Save(r.Context(), s.Username, s.SourceFilename, text)
	if err != nil {
		fmt.Printf("[REPORT] archive failed for session %s: %v\n", s.ID, err)
		http.Error(w, "failed to archive report", http.StatusInternalServerError)
		return
	}

	fmt.Printf("[REPORT] archived %s for user %q\n", id, s.Username)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"report_id": id})
}

// HandleListArchive returns a user's archived reports, newest first.
func HandleListArchive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if !store.Enabled() {
		http.Error(w, "report archive requires a configured database", http.StatusServiceUnavailable)
		return
	}

	username := r.URL.Query().Get("username")
	if username == "" {
		http.Error(w, "username query parameter is required", http.StatusBadRequest)
		return
	}

	list, err := store.NewReportRepo().ListByUser(r.Context(), username)
	if err != nil {
		fmt.Printf("[REPORT] list failed for user %q: %v\n", username, err)
		http.Error(w, "failed to list reports", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"reports": list})
}

func resolveSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
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
	return s, true
}
