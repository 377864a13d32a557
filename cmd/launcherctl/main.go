package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Kamar-Folarin/game-updater/internal/app"
	"github.com/Kamar-Folarin/game-updater/internal/config"
	"github.com/Kamar-Folarin/game-updater/internal/errors"
)

var (
	version  = "dev"
	jsonMode bool
	verbose  bool
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "launcherctl",
		Short: "Install, update and launch the game from the command line",
		Long: `launcherctl drives the game launcher without the HTTP server.

It reads the same environment variables as the server (GIT_REPO_URL,
VERSION_URL, LAUNCHER_CONFIG_PATH, ...) and the same install file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&jsonMode, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show log output")

	rootCmd.AddCommand(
		newCheckCmd(),
		newCloneCmd(),
		newUpdateCmd(),
		newLaunchCmd(),
		newHistoryCmd(),
		newSetPathCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("Error:"), errors.MessageOf(err))
		os.Exit(exitCode(err))
	}
}

// loadApp builds the launcher from the environment. Logs go to stderr so they
// never mix with command output.
func loadApp() (*app.App, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return app.New(cfg, logger)
}

func exitCode(err error) int {
	switch errors.TypeOf(err) {
	case errors.ErrInvalidInput:
		return 2
	case errors.ErrNotFound:
		return 3
	case errors.ErrAlreadyExists, errors.ErrSyncInProgress:
		return 4
	case errors.ErrNetwork, errors.ErrUnauthorized:
		return 5
	default:
		return 1
	}
}
