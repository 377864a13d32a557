package launcher

import (
	"context"
	"time"

	"github.com/Kamar-Folarin/game-updater/internal/gitsync"
	"github.com/Kamar-Folarin/game-updater/internal/models"
	"github.com/Kamar-Folarin/game-updater/internal/progress"
)

// GameService defines the operations exposed to the HTTP and CLI front ends
type GameService interface {
	// CheckVersion compares the installed version with the published one
	CheckVersion(ctx context.Context) (*models.VersionCheck, error)

	// Clone installs the game and blocks until the transfer ends
	Clone(ctx context.Context) (*models.SyncOutcome, error)

	// Update brings an existing install up to date and blocks until done
	Update(ctx context.Context) (*models.SyncOutcome, error)

	// StartClone starts a clone in the background
	StartClone(ctx context.Context) (*models.SyncOutcome, error)

	// StartUpdate starts an update in the background when one is needed
	StartUpdate(ctx context.Context) (*models.SyncOutcome, error)

	// Launch starts the game
	Launch(ctx context.Context) (*models.LaunchResult, error)

	// Progress returns the snapshot of the latest clone or update
	Progress() progress.Snapshot

	// History lists recent clone and update runs, newest first
	History(ctx context.Context, limit int) ([]*models.SyncRecord, error)

	// SetGamePath changes where the game is installed
	SetGamePath(ctx context.Context, path string) (string, error)
}

// Installation is the local install record the service works against
type Installation interface {
	CurrentVersion() string
	SetCurrentVersion(version string) error
	SetLastCheckTime(t time.Time) error
	GamePath() string
	SetGamePath(path string) error
	LauncherPath() string
	LaunchArgs() []string
	Exists() bool
	GitConfig() (gitsync.Config, error)
}

// Syncer runs tracked clone and update transfers
type Syncer interface {
	Begin(kind string) *progress.State
	Clone(ctx context.Context, cfg gitsync.Config, state *progress.State) (*gitsync.Result, error)
	Update(ctx context.Context, cfg gitsync.Config, state *progress.State) (*gitsync.Result, error)
	Tracker() *progress.Tracker
}
