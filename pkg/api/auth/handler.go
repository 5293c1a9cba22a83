package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bizsight/pkg/core/store"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleSignup registers a new user. Requires a configured database.
func HandleSignup(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	err := store.NewUserRepo().Create(r.Context(), creds.Username, creds.Password)
	if errors.Is(err, store.ErrUserExists) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		fmt.Printf("[AUTH] signup failed for %q: %v\n", creds.Username, err)
		http.Error(w, "signup failed", http.StatusInternalServerError)
		return
	}

	fmt.Printf("[AUTH] new user %q\n", creds.Username)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "created"})
}

// HandleLogin checks a username/password pair. Both a missing user and a
// wrong password are a plain 401.
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	valid, err := store.NewUserRepo().Authenticate(r.Context(), creds.Username, creds.Password)
	if err != nil {
		fmt.Printf("[AUTH] login failed for %q: %v\n", creds.Username, err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}
	if !valid {
		http.Error(w, "invalid username or password", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "username": creds.Username})
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return credentials{}, false
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return credentials{}, false
	}
	if !store.Enabled() {
		http.Error(w, "accounts require a configured database", http.StatusServiceUnavailable)
		return credentials{}, false
	}

	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return credentials{}, false
	}
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return credentials{}, false
	}
	return creds, true
}
