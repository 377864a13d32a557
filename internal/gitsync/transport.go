package gitsync

import (
	"context"
	"os/exec"

	"github.com/Kamar-Folarin/game-updater/internal/progress"
)

// Sink receives progress events. Transports call it synchronously from the
// goroutine running the transfer.
type Sink func(progress.Event)

// Transport moves files between a remote branch and a local directory.
type Transport interface {
	// Clone copies cfg.Branch of cfg.RemoteURL into cfg.LocalPath.
	Clone(ctx context.Context, cfg Config, sink Sink) error
	// Update checks out cfg.Branch in cfg.LocalPath and fast-forwards it.
	Update(ctx context.Context, cfg Config, sink Sink) error
	Name() string
}

const (
	TransportGoGit = "gogit"
	TransportCLI   = "cli"
	TransportAuto  = "auto"
)

// NewTransport picks a transport by name. "auto" prefers the git binary,
// whose progress output includes the receive phase, and falls back to go-git.
func NewTransport(name, token string) Transport {
	switch name {
	case TransportCLI:
		return NewCLITransport("", token)
	case TransportGoGit:
		return NewGoGitTransport(token)
	default:
		if path, err := exec.LookPath("git"); err == nil {
			return NewCLITransport(path, token)
		}
		return NewGoGitTransport(token)
	}
}
