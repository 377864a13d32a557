package api

import (
	"time"

	"github.com/Kamar-Folarin/game-updater/internal/models"
)

// ErrorResponse represents an API error
// @Description Error response from the API
type ErrorResponse struct {
	// Always "error"
	Status string `json:"status" example:"error"`
	// Error message
	Error string `json:"error" example:"game not installed at /games/example"`
	// Error category
	Type string `json:"type" example:"NOT_FOUND"`
}

// HealthResponse reports that the service is up
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Timestamp string `json:"timestamp" example:"2024-03-20T00:00:00Z"`
}

// SetGamePathRequest selects a new install directory
type SetGamePathRequest struct {
	Path string `json:"path" binding:"required" example:"/games/example"`
}

// GamePathResponse echoes the stored install directory
type GamePathResponse struct {
	Status   string `json:"status" example:"ok"`
	GamePath string `json:"gamePath" example:"/games/example"`
}

// SyncHistoryResponse lists recent clone and update runs
// @Description Clone and update runs, newest first
type SyncHistoryResponse struct {
	Status  string               `json:"status" example:"ok"`
	Records []*models.SyncRecord `json:"records"`
	Count   int                  `json:"count" example:"1"`
}

func newHealthResponse(now time.Time) HealthResponse {
	return HealthResponse{Status: models.StatusOK, Timestamp: now.UTC().Format(time.RFC3339)}
}
