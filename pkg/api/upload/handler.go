package upload

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"bizsight/pkg/core/dataset"
	"bizsight/pkg/core/session"
)

type uploadResponse struct {
	SessionID string   `json:"session_id"`
	Rows      int      `json:"rows"`
	Columns   []string `json:"columns"`
	Filename  string   `json:"filename"`
}

// HandleUpload ingests a CSV or XLSX file, runs it through the schema
// mapper and validator, and binds the resulting dataset to a session.
// Structural problems (unreadable file, empty upload, unusable schema)
// are 400s; bad individual rows are silently dropped by the validator.
func HandleUpload(w http.ResponseWriter, r *http.Request) {
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

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "upload requires a 'file' form field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	table, err := dataset.ReadTable(file, header.Filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mapped := dataset.MapToSchema(table)
	ds, err := dataset.Validate(mapped)
	if err != nil {
		var schemaErr *dataset.SchemaError
		if errors.As(err, &schemaErr) {
			http.Error(w, schemaErr.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if ds.Empty() {
		http.Error(w, "no valid rows after validation", http.StatusBadRequest)
		return
	}

	mgr := session.GetManager()
	sessionID := r.FormValue("session_id")
	var s *session.Session
	if sessionID != "" {
		var ok bool
		s, ok = mgr.AttachDataset(sessionID, ds, header.Filename)
		if !ok {
			http.Error(w, fmt.Sprintf("session not found: %s", sessionID), http.StatusNotFound)
			return
		}
	} else {
		s = mgr.Create(r.FormValue("username"))
		s, _ = mgr.AttachDataset(s.ID, ds, header.Filename)
	}

	fmt.Printf("[UPLOAD] %s: %d valid rows (session %s)\n", header.Filename, ds.Len(), s.ID)

	columns := make([]string, 0, len(ds.Columns()))
	for _, f := range ds.Columns() {
		columns = append(columns, string(f))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(uploadResponse{
		SessionID: s.ID,
		Rows:      ds.Len(),
		Columns:   columns,
		Filename:  header.Filename,
	})
}

// HandleReset clears a session's dataset and cached results.
func HandleReset(w http.ResponseWriter, r *http.Request) {
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

	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !session.GetManager().Reset(req.SessionID) {
		http.Error(w, fmt.Sprintf("session not found: %s", req.SessionID), http.StatusNotFound)
		return
	}

	fmt.Printf("[SESSION] Reset %s\n", req.SessionID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "reset"})
}
