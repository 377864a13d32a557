// Package app wires the launcher's components from configuration. Both the
// HTTP server and the command line tool start from here.
package app

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/game-updater/internal/config"
	"github.com/Kamar-Folarin/game-updater/internal/db"
	"github.com/Kamar-Folarin/game-updater/internal/gitsync"
	"github.com/Kamar-Folarin/game-updater/internal/install"
	"github.com/Kamar-Folarin/game-updater/internal/launcher"
	"github.com/Kamar-Folarin/game-updater/internal/process"
	"github.com/Kamar-Folarin/game-updater/internal/progress"
	"github.com/Kamar-Folarin/game-updater/internal/remote"
	"github.com/Kamar-Folarin/game-updater/internal/utils"
)

type App struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Install *install.Store
	History db.Store
	Service *launcher.Service
}

// New builds the launcher service and its dependencies.
func New(cfg *config.Config, logger *logrus.Logger) (*App, error) {
	installStore, err := install.Open(cfg.LauncherConfigPath, install.Defaults{
		RepoURL: cfg.GitRepoURL,
		Branch:  cfg.GitBranch,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open install file: %w", err)
	}

	history, err := openHistory(cfg, logger)
	if err != nil {
		return nil, err
	}

	versions := remote.NewClient(cfg.VersionURL, logger,
		remote.WithTimeout(cfg.RemoteTimeout),
		remote.WithToken(cfg.GitToken),
	)

	transport := gitsync.NewTransport(cfg.GitTransport, cfg.GitToken)
	tracker := progress.NewTracker(progress.WithThresholds(cfg.Progress.Thresholds()))
	operation := gitsync.NewOperation(transport, tracker, logger)

	service := launcher.NewService(
		installStore,
		versions,
		operation,
		history,
		process.NewLocalStarter(logger),
		logger,
		launcher.WithWineBinary(cfg.WineBinary),
	)

	logger.WithFields(logrus.Fields{
		"install_file": installStore.Path(),
		"game_path":    installStore.GamePath(),
		"transport":    transport.Name(),
		"version_url":  utils.RedactURL(cfg.VersionURL),
	}).Info("Launcher initialized")

	return &App{
		Config:  cfg,
		Logger:  logger,
		Install: installStore,
		History: history,
		Service: service,
	}, nil
}

// Close stops background work and releases the history store.
func (a *App) Close() error {
	a.Service.StopWatching()
	a.Service.Wait()
	return a.History.Close()
}

func openHistory(cfg *config.Config, logger *logrus.Logger) (db.Store, error) {
	if cfg.DBConnectionString == "" {
		logger.Info("DB_CONNECTION_STRING not set, keeping sync history in memory")
		return db.NewMemoryStore(), nil
	}

	var store *db.PostgresStore
	if err := retry(cfg.Retry, logger, "connect to database", func() error {
		var err error
		store, err = db.NewPostgresStore(cfg.DBConnectionString)
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := retry(cfg.Retry, logger, "run migrations", store.Migrate); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to run migrations after retries: %w", err)
	}
	return store, nil
}

// retry calls fn until it succeeds or the configured attempts run out.
func retry(cfg *config.RetryConfig, logger *logrus.Logger, action string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == cfg.MaxAttempts {
			break
		}
		wait := cfg.Backoff(attempt)
		logger.WithError(err).WithFields(logrus.Fields{
			"action":  action,
			"attempt": attempt,
			"wait":    wait.String(),
		}).Warn("Retrying")
		time.Sleep(wait)
	}
	return err
}
