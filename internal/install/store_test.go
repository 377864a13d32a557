package install

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))
	return logger
}

func openTestStore(t *testing.T) (*Store, string) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg", "config.json")
	store, err := Open(path, Defaults{
		GamePath: filepath.Join(dir, "game"),
		RepoURL:  "https://example.com/game.git",
	}, testLogger())
	require.NoError(t, err)
	return store, dir
}

func TestOpen_Defaults(t *testing.T) {
	store, dir := openTestStore(t)

	assert.Equal(t, DefaultVersion, store.CurrentVersion())
	assert.Nil(t, store.LastCheckTime())
	assert.Equal(t, filepath.Join(dir, "game"), store.GamePath())
	assert.Equal(t, filepath.Join(dir, "game", DefaultLauncherExe), store.LauncherPath())
	assert.False(t, store.Exists())
	assert.NoFileExists(t, store.Path())

	cfg, err := store.GitConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/game.git", cfg.RemoteURL)
	assert.Equal(t, "main", cfg.Branch)
	assert.Equal(t, filepath.Join(dir, "game"), cfg.LocalPath)
}

func TestStore_PersistsChanges(t *testing.T) {
	store, dir := openTestStore(t)

	checked := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.SetCurrentVersion(" 1.2.0\n"))
	require.NoError(t, store.SetLastCheckTime(checked))
	require.NoError(t, store.SetGamePath(filepath.Join(dir, "elsewhere")))

	assert.FileExists(t, store.Path())
	assert.NoFileExists(t, store.Path()+".tmp")

	reopened, err := Open(store.Path(), Defaults{}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", reopened.CurrentVersion())
	require.NotNil(t, reopened.LastCheckTime())
	assert.True(t, checked.Equal(*reopened.LastCheckTime()))
	assert.Equal(t, filepath.Join(dir, "elsewhere"), reopened.GamePath())
	assert.Equal(t, "https://example.com/game.git", reopened.Settings().Git.RepoURL)
}

func TestStore_ReadsPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	raw, err := json.Marshal(map[string]any{
		"version": map[string]any{"current_version": "2.0.1"},
		"game":    map[string]any{"game_path": dir, "launch_args": []string{"--fullscreen"}},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	store, err := Open(path, Defaults{RepoURL: "https://example.com/game.git"}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, "2.0.1", store.CurrentVersion())
	assert.Equal(t, DefaultLauncherExe, store.Settings().Game.LauncherExe)
	assert.Equal(t, []string{"--fullscreen"}, store.LaunchArgs())
	assert.Equal(t, "main", store.Settings().Git.Branch)
	assert.Equal(t, "https://example.com/game.git", store.Settings().Git.RepoURL)
}

func TestStore_CorruptedFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := Open(path, Defaults{}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultVersion, store.CurrentVersion())
}

func TestStore_ExistsWhenLauncherPresent(t *testing.T) {
	store, _ := openTestStore(t)

	require.NoError(t, os.MkdirAll(store.GamePath(), 0o755))
	assert.False(t, store.Exists())

	require.NoError(t, os.WriteFile(store.LauncherPath(), []byte("MZ"), 0o755))
	assert.True(t, store.Exists())
}

func TestStore_SetGamePathRejectsEmpty(t *testing.T) {
	store, _ := openTestStore(t)
	assert.Error(t, store.SetGamePath("  "))
}
