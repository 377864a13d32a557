package process

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCommand(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		wine     string
		expected Command
	}{
		{
			name: "windows runs directly",
			goos: "windows",
			expected: Command{
				Binary:  `C:\game\launcher.exe`,
				Args:    []string{"--offline"},
				WorkDir: `C:\game`,
			},
		},
		{
			name: "linux goes through wine",
			goos: "linux",
			expected: Command{
				Binary:  "wine",
				Args:    []string{`C:\game\launcher.exe`, "--offline"},
				WorkDir: `C:\game`,
			},
		},
		{
			name: "custom wine binary",
			goos: "darwin",
			wine: "/opt/wine/bin/wine64",
			expected: Command{
				Binary:  "/opt/wine/bin/wine64",
				Args:    []string{`C:\game\launcher.exe`, "--offline"},
				WorkDir: `C:\game`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildCommand(tt.goos, tt.wine, `C:\game\launcher.exe`, `C:\game`, []string{"--offline"})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLocalStarter_Start(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))
	starter := NewLocalStarter(logger)

	dir := t.TempDir()
	logPath := filepath.Join(dir, "game.log")
	pid, err := starter.Start(Command{
		Binary:  sh,
		Args:    []string{"-c", "pwd"},
		WorkDir: dir,
		LogPath: logPath,
	})
	require.NoError(t, err)
	assert.Greater(t, pid, 0)

	assert.Eventually(t, func() bool {
		data, err := os.ReadFile(logPath)
		return err == nil && len(bytes.TrimSpace(data)) > 0
	}, 5*time.Second, 20*time.Millisecond)
}

func TestLocalStarter_Errors(t *testing.T) {
	starter := NewLocalStarter(nil)

	_, err := starter.Start(Command{Binary: "sh", WorkDir: filepath.Join(t.TempDir(), "missing")})
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Contains(t, execErr.Message, "work directory not found")

	_, err = starter.Start(Command{Binary: filepath.Join(t.TempDir(), "no-such-binary")})
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "start", execErr.Operation)
}
