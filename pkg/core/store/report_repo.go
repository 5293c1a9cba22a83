package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ArchivedReport is one generated report kept for later download.
type ArchivedReport struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Filename  string    `json:"filename"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportRepo archives generated reports per user.
//
// Schema assumption:
//
//	CREATE TABLE IF NOT EXISTS reports (
//	  id UUID PRIMARY KEY,
//	  username TEXT NOT NULL,
//	  report_json JSONB NOT NULL,
//	  created_at TIMESTAMPTZ NOT NULL
//	);
type ReportRepo struct{}

// NewReportRepo creates a new repository instance.
func NewReportRepo() *ReportRepo {
	return &ReportRepo{}
}

// Save archives one report and returns its id.
func (r *ReportRepo) Save(ctx context.Context, username, filename, text string) (string, error) {
	pool := GetPool()
	if pool == nil {
		return "", fmt.Errorf("database pool not initialized")
	}

	rec := ArchivedReport{
		ID:        uuid.New().String(),
		Username:  username,
		Filename:  filename,
		Text:      text,
		CreatedAt: time.Now(),
	}

	jsonData, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO reports (id, username, report_json, created_at) VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.Username, jsonData, rec.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}
	return rec.ID, nil
}

// ListByUser returns a user's archived reports, newest first.
func (r *ReportRepo) ListByUser(ctx context.Context, username string) ([]ArchivedReport, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx,
		`SELECT report_json FROM reports WHERE username = $1 ORDER BY created_at DESC`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var out []ArchivedReport
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		var rec ArchivedReport
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode report: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
