package models

import "time"

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// VersionCheck compares the installed version with the published one.
type VersionCheck struct {
	Status         string    `json:"status"`
	CurrentVersion string    `json:"currentVersion"`
	RemoteVersion  string    `json:"remoteVersion"`
	NeedsUpdate    bool      `json:"needsUpdate"`
	GameExists     bool      `json:"gameExists"`
	GamePath       string    `json:"gamePath"`
	CheckedAt      time.Time `json:"checkedAt"`
}

// SyncOutcome is the result of a clone or update request.
type SyncOutcome struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Version     string `json:"version"`
	OperationID string `json:"operationId,omitempty"`
	UpToDate    bool   `json:"upToDate,omitempty"`
}

// LaunchResult describes a started game process.
type LaunchResult struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	LauncherPath string `json:"launcherPath"`
	PID          int    `json:"pid"`
}
