package gitsync

import (
	"strings"

	"github.com/Kamar-Folarin/game-updater/internal/errors"
)

// DefaultBranch is used when no branch is configured.
const DefaultBranch = "main"

// Config describes one remote branch and where its files live locally.
type Config struct {
	RemoteURL string `json:"repo_url"`
	Branch    string `json:"branch"`
	LocalPath string `json:"local_path"`
}

// NewConfig builds a validated Config. An empty branch means DefaultBranch.
func NewConfig(remoteURL, branch, localPath string) (Config, error) {
	cfg := Config{
		RemoteURL: strings.TrimSpace(remoteURL),
		Branch:    strings.TrimSpace(branch),
		LocalPath: strings.TrimSpace(localPath),
	}
	if cfg.Branch == "" {
		cfg.Branch = DefaultBranch
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the config names both ends of the transfer.
func (c Config) Validate() error {
	if c.RemoteURL == "" {
		return errors.NewValidationError("repository URL cannot be empty", nil)
	}
	if c.LocalPath == "" {
		return errors.NewValidationError("local path cannot be empty", nil)
	}
	if c.Branch == "" {
		return errors.NewValidationError("branch cannot be empty", nil)
	}
	return nil
}
