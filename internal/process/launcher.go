// Package process starts the installed game.
package process

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/sirupsen/logrus"
)

// DefaultWineBinary runs Windows launchers on other platforms.
const DefaultWineBinary = "wine"

// Command is a fully resolved process to start.
type Command struct {
	Binary  string
	Args    []string
	WorkDir string
	LogPath string
}

// BuildCommand resolves how to run launcherPath on goos. Windows runs the
// executable directly; other systems run it through wineBinary.
func BuildCommand(goos, wineBinary, launcherPath, workDir string, args []string) Command {
	if goos == "windows" {
		return Command{Binary: launcherPath, Args: append([]string(nil), args...), WorkDir: workDir}
	}
	if wineBinary == "" {
		wineBinary = DefaultWineBinary
	}
	return Command{
		Binary:  wineBinary,
		Args:    append([]string{launcherPath}, args...),
		WorkDir: workDir,
	}
}

// HostCommand is BuildCommand for the running platform.
func HostCommand(wineBinary, launcherPath, workDir string, args []string) Command {
	return BuildCommand(runtime.GOOS, wineBinary, launcherPath, workDir, args)
}

// ExecutionError reports a process that could not be started.
type ExecutionError struct {
	Operation string
	Message   string
	Err       error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Starter starts processes that outlive the caller.
type Starter interface {
	Start(cmd Command) (int, error)
}

// LocalStarter starts processes on this machine and reaps them when they
// exit.
type LocalStarter struct {
	logger *logrus.Logger
}

func NewLocalStarter(logger *logrus.Logger) *LocalStarter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LocalStarter{logger: logger}
}

// Start launches cmd and returns its pid without waiting for it to exit.
func (s *LocalStarter) Start(cmd Command) (int, error) {
	if cmd.WorkDir != "" {
		if info, err := os.Stat(cmd.WorkDir); err != nil || !info.IsDir() {
			return 0, &ExecutionError{Operation: "start", Message: fmt.Sprintf("work directory not found: %s", cmd.WorkDir), Err: err}
		}
	}

	execCmd := exec.Command(cmd.Binary, cmd.Args...)
	execCmd.Dir = cmd.WorkDir

	var logFile *os.File
	if cmd.LogPath != "" {
		f, err := os.OpenFile(cmd.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return 0, &ExecutionError{Operation: "start", Message: "failed to open log file", Err: err}
		}
		logFile = f
		execCmd.Stdout = f
		execCmd.Stderr = f
	}

	if err := execCmd.Start(); err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return 0, &ExecutionError{Operation: "start", Message: fmt.Sprintf("failed to start %s", cmd.Binary), Err: err}
	}

	pid := execCmd.Process.Pid
	logger := s.logger.WithFields(logrus.Fields{"pid": pid, "binary": cmd.Binary})
	logger.Info("Game process started")

	go func() {
		err := execCmd.Wait()
		if logFile != nil {
			logFile.Close()
		}
		if err != nil {
			logger.WithError(err).Warn("Game process exited with error")
			return
		}
		logger.Info("Game process exited")
	}()

	return pid, nil
}
