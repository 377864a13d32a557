// Package install persists what the launcher knows about the local game
// install: where it lives, which version it is and where it comes from.
package install

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/game-updater/internal/gitsync"
)

const (
	DefaultVersion     = "0.0.0"
	DefaultLauncherExe = "Plain Craft Launcher 2.exe"
	configDirName      = ".game-updater"
	configFileName     = "config.json"
)

// Settings is the on-disk layout of the install file.
type Settings struct {
	Version VersionSettings `json:"version"`
	Game    GameSettings    `json:"game"`
	Git     GitSettings     `json:"git"`
}

type VersionSettings struct {
	CurrentVersion string     `json:"current_version"`
	LastCheckTime  *time.Time `json:"last_check_time"`
}

type GameSettings struct {
	GamePath    string   `json:"game_path"`
	LauncherExe string   `json:"launcher_exe"`
	LaunchArgs  []string `json:"launch_args,omitempty"`
}

type GitSettings struct {
	RepoURL string `json:"repo_url"`
	Branch  string `json:"branch"`
}

// Defaults seed a missing or partial install file.
type Defaults struct {
	GamePath string
	RepoURL  string
	Branch   string
}

// DefaultPath returns ~/.game-updater/config.json, or a path in the working
// directory when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(configDirName, configFileName)
	}
	return filepath.Join(home, configDirName, configFileName)
}

// DefaultGamePath returns the directory games are installed to by default.
func DefaultGamePath() string {
	return filepath.Join(filepath.Dir(DefaultPath()), "game")
}

func defaultSettings(d Defaults) Settings {
	return Settings{
		Version: VersionSettings{CurrentVersion: DefaultVersion},
		Game:    GameSettings{GamePath: d.GamePath, LauncherExe: DefaultLauncherExe},
		Git:     GitSettings{RepoURL: d.RepoURL, Branch: d.Branch},
	}
}

// Store is a JSON backed install record safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	path     string
	settings Settings
	logger   *logrus.Logger
}

// Open loads the install file at path. A missing or unreadable file yields
// the defaults; it is written on the first change.
func Open(path string, defaults Defaults, logger *logrus.Logger) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	if defaults.GamePath == "" {
		defaults.GamePath = DefaultGamePath()
	}
	if defaults.Branch == "" {
		defaults.Branch = gitsync.DefaultBranch
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Store{path: path, settings: defaultSettings(defaults), logger: logger}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logger.WithField("path", path).Info("Install file not found, using defaults")
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read install file %s: %w", path, err)
	}

	loaded := s.settings
	if err := json.Unmarshal(data, &loaded); err != nil {
		logger.WithError(err).WithField("path", path).Warn("Install file is corrupted, using defaults")
		return s, nil
	}
	fillDefaults(&loaded, s.settings)
	s.settings = loaded
	logger.WithField("path", path).Info("Loaded install file")
	return s, nil
}

func fillDefaults(s *Settings, d Settings) {
	if s.Version.CurrentVersion == "" {
		s.Version.CurrentVersion = d.Version.CurrentVersion
	}
	if s.Game.GamePath == "" {
		s.Game.GamePath = d.Game.GamePath
	}
	if s.Game.LauncherExe == "" {
		s.Game.LauncherExe = d.Game.LauncherExe
	}
	if s.Git.RepoURL == "" {
		s.Git.RepoURL = d.Git.RepoURL
	}
	if s.Git.Branch == "" {
		s.Git.Branch = d.Git.Branch
	}
}

// Path returns the location of the install file.
func (s *Store) Path() string {
	return s.path
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.settings
	c.Game.LaunchArgs = append([]string(nil), s.settings.Game.LaunchArgs...)
	return c
}

func (s *Store) CurrentVersion() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Version.CurrentVersion
}

// SetCurrentVersion records the installed version and saves the file.
func (s *Store) SetCurrentVersion(version string) error {
	return s.update(func(st *Settings) {
		st.Version.CurrentVersion = strings.TrimSpace(version)
	})
}

func (s *Store) LastCheckTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings.Version.LastCheckTime == nil {
		return nil
	}
	t := *s.settings.Version.LastCheckTime
	return &t
}

// SetLastCheckTime records when the remote version was last checked.
func (s *Store) SetLastCheckTime(t time.Time) error {
	return s.update(func(st *Settings) {
		utc := t.UTC()
		st.Version.LastCheckTime = &utc
	})
}

func (s *Store) GamePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Game.GamePath
}

// SetGamePath moves the install location. Existing files are not moved.
func (s *Store) SetGamePath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("game path cannot be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve game path: %w", err)
	}
	return s.update(func(st *Settings) {
		st.Game.GamePath = abs
	})
}

// LauncherPath returns the full path of the game's launcher executable.
func (s *Store) LauncherPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filepath.Join(s.settings.Game.GamePath, s.settings.Game.LauncherExe)
}

func (s *Store) LaunchArgs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.settings.Game.LaunchArgs...)
}

// Exists reports whether the launcher executable is present on disk.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.LauncherPath())
	return err == nil && !info.IsDir()
}

// GitConfig builds the transfer config for the install.
func (s *Store) GitConfig() (gitsync.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return gitsync.NewConfig(s.settings.Git.RepoURL, s.settings.Git.Branch, s.settings.Game.GamePath)
}

func (s *Store) update(fn func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	fn(&next)
	if err := save(s.path, next); err != nil {
		s.logger.WithError(err).WithField("path", s.path).Error("Failed to save install file")
		return err
	}
	s.settings = next
	return nil
}

// save writes settings to a temporary file and renames it into place.
func save(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create install directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal install file: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temporary install file: %w", err)
	}

	file, err := os.Open(tempFile)
	if err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to open temp file for sync: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
