// Package launcher ties the install record, the remote version marker and the
// tracked git transfers together into the operations the launcher exposes.
package launcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/hashicorp/go-version"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/game-updater/internal/db"
	"github.com/Kamar-Folarin/game-updater/internal/errors"
	"github.com/Kamar-Folarin/game-updater/internal/gitsync"
	"github.com/Kamar-Folarin/game-updater/internal/models"
	"github.com/Kamar-Folarin/game-updater/internal/process"
	"github.com/Kamar-Folarin/game-updater/internal/progress"
	"github.com/Kamar-Folarin/game-updater/internal/remote"
	"github.com/Kamar-Folarin/game-updater/internal/utils"
)

const (
	// DefaultSyncTimeout bounds background clones and updates.
	DefaultSyncTimeout = 30 * time.Minute

	// LaunchLogName is the file in the game directory that collects the
	// launched game's output.
	LaunchLogName = "launcher.log"

	operationLaunch     = "launch"
	operationPathChange = "game path change"
)

type Service struct {
	install  Installation
	versions remote.VersionSource
	syncer   Syncer
	store    db.Store
	starter  process.Starter
	logger   *logrus.Logger

	wineBinary  string
	syncTimeout time.Duration
	now         func() time.Time

	mu        sync.Mutex
	active    string
	wg        sync.WaitGroup
	scheduler *gocron.Scheduler
}

type Option func(*Service)

// WithWineBinary sets the program used to run the game on non-Windows hosts.
func WithWineBinary(binary string) Option {
	return func(s *Service) {
		if binary != "" {
			s.wineBinary = binary
		}
	}
}

// WithSyncTimeout bounds background transfers.
func WithSyncTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.syncTimeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new launcher service
func NewService(
	install Installation,
	versions remote.VersionSource,
	syncer Syncer,
	store db.Store,
	starter process.Starter,
	logger *logrus.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Service{
		install:     install,
		versions:    versions,
		syncer:      syncer,
		store:       store,
		starter:     starter,
		logger:      logger,
		wineBinary:  "wine",
		syncTimeout: DefaultSyncTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NeedsUpdate reports whether published names a different version than
// current. An empty published version never requires an update.
func NeedsUpdate(current, published string) bool {
	published = strings.TrimSpace(published)
	if published == "" {
		return false
	}
	return !sameVersion(strings.TrimSpace(current), published)
}

func sameVersion(a, b string) bool {
	va, errA := version.NewVersion(a)
	vb, errB := version.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Equal(vb)
	}
	return a == b
}

// CheckVersion fetches the published version and records the check time
func (s *Service) CheckVersion(ctx context.Context) (*models.VersionCheck, error) {
	current := s.install.CurrentVersion()
	remoteVersion := s.versions.FetchVersion(ctx)
	checkedAt := s.now().UTC()

	if err := s.install.SetLastCheckTime(checkedAt); err != nil {
		s.logger.WithError(err).Warn("Failed to record version check time")
	}

	check := &models.VersionCheck{
		Status:         models.StatusOK,
		CurrentVersion: current,
		RemoteVersion:  remoteVersion,
		NeedsUpdate:    NeedsUpdate(current, remoteVersion),
		GameExists:     s.install.Exists(),
		GamePath:       s.install.GamePath(),
		CheckedAt:      checkedAt,
	}

	s.logger.WithFields(logrus.Fields{
		"current_version": check.CurrentVersion,
		"remote_version":  check.RemoteVersion,
		"needs_update":    check.NeedsUpdate,
		"game_exists":     check.GameExists,
	}).Info("Version check completed")

	return check, nil
}

func (s *Service) Clone(ctx context.Context) (*models.SyncOutcome, error) {
	cfg, err := s.prepareClone()
	if err != nil {
		return nil, err
	}
	defer s.release()
	return s.runSync(ctx, gitsync.OperationClone, s.syncer.Begin(gitsync.OperationClone), cfg, "")
}

func (s *Service) StartClone(ctx context.Context) (*models.SyncOutcome, error) {
	cfg, err := s.prepareClone()
	if err != nil {
		return nil, err
	}
	// The record is begun here so pollers see the new transfer as soon as
	// this returns.
	state := s.syncer.Begin(gitsync.OperationClone)
	s.background(gitsync.OperationClone, func(ctx context.Context) error {
		_, err := s.runSync(ctx, gitsync.OperationClone, state, cfg, "")
		return err
	})
	return &models.SyncOutcome{
		Status:      models.StatusOK,
		Message:     "clone started",
		Version:     s.install.CurrentVersion(),
		OperationID: state.ID(),
	}, nil
}

func (s *Service) Update(ctx context.Context) (*models.SyncOutcome, error) {
	cfg, check, err := s.prepareUpdate(ctx)
	if err != nil {
		return nil, err
	}
	if !check.NeedsUpdate {
		return upToDate(check), nil
	}
	defer s.release()
	return s.runSync(ctx, gitsync.OperationUpdate, s.syncer.Begin(gitsync.OperationUpdate), cfg, check.RemoteVersion)
}

func (s *Service) StartUpdate(ctx context.Context) (*models.SyncOutcome, error) {
	cfg, check, err := s.prepareUpdate(ctx)
	if err != nil {
		return nil, err
	}
	if !check.NeedsUpdate {
		return upToDate(check), nil
	}
	state := s.syncer.Begin(gitsync.OperationUpdate)
	s.background(gitsync.OperationUpdate, func(ctx context.Context) error {
		_, err := s.runSync(ctx, gitsync.OperationUpdate, state, cfg, check.RemoteVersion)
		return err
	})
	return &models.SyncOutcome{
		Status:      models.StatusOK,
		Message:     "update started",
		Version:     check.CurrentVersion,
		OperationID: state.ID(),
	}, nil
}

// Launch starts the installed game without waiting for it to exit
func (s *Service) Launch(ctx context.Context) (*models.LaunchResult, error) {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if active != "" {
		return nil, errors.NewSyncInProgressError(active)
	}

	if !s.install.Exists() {
		return nil, errors.NewNotFoundError(fmt.Sprintf("game not installed at %s", s.install.GamePath()), nil)
	}

	launcherPath := s.install.LauncherPath()
	gamePath := s.install.GamePath()
	cmd := process.HostCommand(s.wineBinary, launcherPath, gamePath, s.install.LaunchArgs())
	cmd.LogPath = filepath.Join(gamePath, LaunchLogName)
	logger := s.logger.WithFields(logrus.Fields{
		"operation": operationLaunch,
		"binary":    cmd.Binary,
		"launcher":  launcherPath,
		"log_path":  cmd.LogPath,
	})

	pid, err := s.starter.Start(cmd)
	if err != nil {
		logger.WithError(err).Error("Failed to launch game")
		return nil, errors.NewInternalError("failed to launch game", err)
	}

	logger.WithField("pid", pid).Info("Game launched")
	return &models.LaunchResult{
		Status:       models.StatusOK,
		Message:      "game launched",
		LauncherPath: launcherPath,
		PID:          pid,
	}, nil
}

func (s *Service) Progress() progress.Snapshot {
	return s.syncer.Tracker().Snapshot()
}

func (s *Service) History(ctx context.Context, limit int) ([]*models.SyncRecord, error) {
	if limit < 0 {
		return nil, errors.NewValidationError("limit cannot be negative", nil)
	}
	records, err := s.store.ListSyncRecords(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync history: %w", err)
	}
	return records, nil
}

// SetGamePath moves the install location. It is refused while a transfer
// runs.
func (s *Service) SetGamePath(ctx context.Context, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.NewValidationError("game path cannot be empty", nil)
	}

	if err := s.acquire(operationPathChange); err != nil {
		return "", err
	}
	defer s.release()

	if err := s.install.SetGamePath(path); err != nil {
		return "", errors.NewInternalError("failed to save game path", err)
	}

	gamePath := s.install.GamePath()
	s.logger.WithField("game_path", gamePath).Info("Game path updated")
	return gamePath, nil
}

// Wait blocks until background transfers have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) prepareClone() (gitsync.Config, error) {
	if err := s.acquire(gitsync.OperationClone); err != nil {
		return gitsync.Config{}, err
	}
	if s.install.Exists() {
		s.release()
		return gitsync.Config{}, errors.NewAlreadyExistsError(
			fmt.Sprintf("game already installed at %s", s.install.GamePath()), nil)
	}
	cfg, err := s.install.GitConfig()
	if err != nil {
		s.release()
		return gitsync.Config{}, err
	}
	return cfg, nil
}

// prepareUpdate holds the transfer slot on return only when an update is
// needed.
func (s *Service) prepareUpdate(ctx context.Context) (gitsync.Config, *models.VersionCheck, error) {
	if err := s.acquire(gitsync.OperationUpdate); err != nil {
		return gitsync.Config{}, nil, err
	}
	if !s.install.Exists() {
		s.release()
		return gitsync.Config{}, nil, errors.NewNotFoundError(
			fmt.Sprintf("game not installed at %s", s.install.GamePath()), nil)
	}

	check, err := s.CheckVersion(ctx)
	if err != nil {
		s.release()
		return gitsync.Config{}, nil, err
	}
	if !check.NeedsUpdate {
		s.release()
		return gitsync.Config{}, check, nil
	}

	cfg, err := s.install.GitConfig()
	if err != nil {
		s.release()
		return gitsync.Config{}, nil, err
	}
	return cfg, check, nil
}

func upToDate(check *models.VersionCheck) *models.SyncOutcome {
	return &models.SyncOutcome{
		Status:   models.StatusOK,
		Message:  "already up to date",
		Version:  check.CurrentVersion,
		UpToDate: true,
	}
}

// runSync performs the transfer into the begun state and records it in the
// history. target is the version the install will be at afterwards; clones
// look it up once the files are in place.
func (s *Service) runSync(ctx context.Context, kind string, state *progress.State, cfg gitsync.Config, target string) (*models.SyncOutcome, error) {
	record := &models.SyncRecord{
		ID:          uuid.New(),
		Operation:   kind,
		RepoURL:     utils.RedactURL(cfg.RemoteURL),
		Branch:      cfg.Branch,
		LocalPath:   cfg.LocalPath,
		Status:      models.SyncStatusRunning,
		FromVersion: s.install.CurrentVersion(),
		StartedAt:   s.now().UTC(),
	}
	s.saveRecord(ctx, record)

	var (
		result *gitsync.Result
		err    error
	)
	if kind == gitsync.OperationClone {
		result, err = s.syncer.Clone(ctx, cfg, state)
	} else {
		result, err = s.syncer.Update(ctx, cfg, state)
	}
	if result != nil {
		record.TotalObjects = result.Snapshot.TotalObjects
	}

	if err != nil {
		record.Finish(models.SyncStatusFailed, s.now().UTC(), err)
		s.saveRecord(context.WithoutCancel(ctx), record)
		return nil, err
	}

	if kind == gitsync.OperationClone {
		target = s.versions.FetchVersion(ctx)
	}
	if target != "" {
		if err := s.install.SetCurrentVersion(target); err != nil {
			s.logger.WithError(err).WithField("version", target).Error("Failed to store installed version")
		}
	}

	installed := s.install.CurrentVersion()
	record.ToVersion = installed
	record.Finish(models.SyncStatusSucceeded, s.now().UTC(), nil)
	s.saveRecord(ctx, record)

	message := "game cloned"
	if kind == gitsync.OperationUpdate {
		message = "game updated"
	}
	return &models.SyncOutcome{
		Status:      models.StatusOK,
		Message:     message,
		Version:     installed,
		OperationID: result.ID,
	}, nil
}

func (s *Service) saveRecord(ctx context.Context, record *models.SyncRecord) {
	if err := s.store.SaveSyncRecord(ctx, record); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"record_id": record.ID,
			"operation": record.Operation,
		}).Warn("Failed to save sync record")
	}
}

func (s *Service) background(kind string, fn func(context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.release()

		ctx, cancel := context.WithTimeout(context.Background(), s.syncTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.logger.WithError(err).WithField("operation", kind).Error("Background transfer failed")
		}
	}()
}

func (s *Service) acquire(kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != "" {
		return errors.NewSyncInProgressError(s.active)
	}
	s.active = kind
	return nil
}

func (s *Service) release() {
	s.mu.Lock()
	s.active = ""
	s.mu.Unlock()
}
