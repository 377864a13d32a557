package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SyncStatus is the lifecycle state of a recorded clone or update.
type SyncStatus string

const (
	SyncStatusRunning   SyncStatus = "running"
	SyncStatusSucceeded SyncStatus = "succeeded"
	SyncStatusFailed    SyncStatus = "failed"
)

// SyncRecord is one clone or update run kept in the sync history.
type SyncRecord struct {
	ID           uuid.UUID  `json:"id"`
	Operation    string     `json:"operation"`
	RepoURL      string     `json:"repo_url"`
	Branch       string     `json:"branch"`
	LocalPath    string     `json:"local_path"`
	Status       SyncStatus `json:"status"`
	FromVersion  string     `json:"from_version"`
	ToVersion    string     `json:"to_version,omitempty"`
	Error        string     `json:"error,omitempty"`
	TotalObjects int64      `json:"total_objects"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	DurationMs   int64      `json:"duration_ms"`
}

// Finish stamps the record with its outcome.
func (r *SyncRecord) Finish(status SyncStatus, finishedAt time.Time, err error) {
	r.Status = status
	r.FinishedAt = &finishedAt
	r.DurationMs = finishedAt.Sub(r.StartedAt).Milliseconds()
	if err != nil {
		r.Error = err.Error()
	}
}

// String returns the JSON string representation of the record
func (r *SyncRecord) String() string {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal sync record: %v"}`, err)
	}
	return string(data)
}
