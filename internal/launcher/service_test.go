package launcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Kamar-Folarin/game-updater/internal/db"
	apperrors "github.com/Kamar-Folarin/game-updater/internal/errors"
	"github.com/Kamar-Folarin/game-updater/internal/gitsync"
	"github.com/Kamar-Folarin/game-updater/internal/install"
	"github.com/Kamar-Folarin/game-updater/internal/models"
	"github.com/Kamar-Folarin/game-updater/internal/process"
	"github.com/Kamar-Folarin/game-updater/internal/progress"
)

const testRepoURL = "https://example.com/game.git"

type mockVersions struct {
	mock.Mock
}

func (m *mockVersions) FetchVersion(ctx context.Context) string {
	args := m.Called(ctx)
	return args.String(0)
}

// mockSyncer begins records on a real tracker and mocks the transfers.
type mockSyncer struct {
	mock.Mock
	tracker *progress.Tracker
}

func (m *mockSyncer) Begin(kind string) *progress.State {
	return m.tracker.Begin(kind, uuid.NewString())
}

func (m *mockSyncer) Clone(ctx context.Context, cfg gitsync.Config, state *progress.State) (*gitsync.Result, error) {
	args := m.Called(ctx, cfg)
	return resultArg(args), args.Error(1)
}

func (m *mockSyncer) Update(ctx context.Context, cfg gitsync.Config, state *progress.State) (*gitsync.Result, error) {
	args := m.Called(ctx, cfg)
	return resultArg(args), args.Error(1)
}

func (m *mockSyncer) Tracker() *progress.Tracker {
	return m.tracker
}

// blockingStore holds every save until release is closed.
type blockingStore struct {
	*db.MemoryStore
	release chan struct{}
}

func (b *blockingStore) SaveSyncRecord(ctx context.Context, record *models.SyncRecord) error {
	<-b.release
	return b.MemoryStore.SaveSyncRecord(ctx, record)
}

func resultArg(args mock.Arguments) *gitsync.Result {
	if v := args.Get(0); v != nil {
		return v.(*gitsync.Result)
	}
	return nil
}

type mockStarter struct {
	mock.Mock
}

func (m *mockStarter) Start(cmd process.Command) (int, error) {
	args := m.Called(cmd)
	return args.Int(0), args.Error(1)
}

type fixture struct {
	svc      *Service
	install  *install.Store
	history  *db.MemoryStore
	versions *mockVersions
	syncer   *mockSyncer
	starter  *mockStarter
	gamePath string
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	dir := t.TempDir()
	gamePath := filepath.Join(dir, "game")
	store, err := install.Open(filepath.Join(dir, "config.json"), install.Defaults{
		GamePath: gamePath,
		RepoURL:  testRepoURL,
	}, logger)
	require.NoError(t, err)

	f := &fixture{
		install:  store,
		history:  db.NewMemoryStore(),
		versions: &mockVersions{},
		syncer:   &mockSyncer{tracker: progress.NewTracker()},
		starter:  &mockStarter{},
		gamePath: gamePath,
		now:      time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.install, f.versions, f.syncer, f.history, f.starter, logger,
		WithClock(func() time.Time { return f.now }),
		WithWineBinary("wine64"),
	)
	return f
}

// installGame puts the launcher executable in place.
func (f *fixture) installGame(t *testing.T, version string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(f.gamePath, 0o755))
	require.NoError(t, os.WriteFile(f.install.LauncherPath(), []byte("exe"), 0o755))
	require.NoError(t, f.install.SetCurrentVersion(version))
}

func TestNeedsUpdate(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		published string
		want      bool
	}{
		{"same version", "1.0.0", "1.0.0", false},
		{"semantically equal", "1.0", "1.0.0", false},
		{"newer published", "1.0.0", "1.1.0", true},
		{"older published", "1.1.0", "1.0.0", true},
		{"no published version", "1.0.0", "", false},
		{"whitespace around marker", "1.0.0", " 1.0.0\n", false},
		{"non semantic equal", "build-a", "build-a", false},
		{"non semantic different", "build-a", "build-b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsUpdate(tt.current, tt.published))
		})
	}
}

func TestService_CheckVersion(t *testing.T) {
	f := newFixture(t)
	f.versions.On("FetchVersion", mock.Anything).Return("1.2.0")

	check, err := f.svc.CheckVersion(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.StatusOK, check.Status)
	assert.Equal(t, install.DefaultVersion, check.CurrentVersion)
	assert.Equal(t, "1.2.0", check.RemoteVersion)
	assert.True(t, check.NeedsUpdate)
	assert.False(t, check.GameExists)
	assert.Equal(t, f.gamePath, check.GamePath)
	assert.Equal(t, f.now, check.CheckedAt)

	last := f.install.LastCheckTime()
	require.NotNil(t, last)
	assert.True(t, f.now.Equal(*last))
}

func TestService_CheckVersion_RemoteUnavailable(t *testing.T) {
	f := newFixture(t)
	f.installGame(t, "1.0.0")
	f.versions.On("FetchVersion", mock.Anything).Return("")

	check, err := f.svc.CheckVersion(context.Background())
	require.NoError(t, err)
	assert.False(t, check.NeedsUpdate)
	assert.True(t, check.GameExists)
}

func TestService_Clone(t *testing.T) {
	ctx := context.Background()

	t.Run("success stores version and history", func(t *testing.T) {
		f := newFixture(t)
		f.syncer.On("Clone", mock.Anything, mock.MatchedBy(func(cfg gitsync.Config) bool {
			return cfg.LocalPath == f.gamePath && cfg.RemoteURL == testRepoURL && cfg.Branch == gitsync.DefaultBranch
		})).Return(&gitsync.Result{ID: "op-1", Snapshot: progress.Snapshot{TotalObjects: 10}}, nil)
		f.versions.On("FetchVersion", mock.Anything).Return("1.2.0")

		outcome, err := f.svc.Clone(ctx)
		require.NoError(t, err)
		assert.Equal(t, "1.2.0", outcome.Version)
		assert.Equal(t, "op-1", outcome.OperationID)
		assert.Equal(t, "1.2.0", f.install.CurrentVersion())

		records, err := f.svc.History(ctx, 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, models.SyncStatusSucceeded, records[0].Status)
		assert.Equal(t, install.DefaultVersion, records[0].FromVersion)
		assert.Equal(t, "1.2.0", records[0].ToVersion)
		assert.Equal(t, int64(10), records[0].TotalObjects)
		f.syncer.AssertExpectations(t)
	})

	t.Run("already installed", func(t *testing.T) {
		f := newFixture(t)
		f.installGame(t, "1.0.0")

		_, err := f.svc.Clone(ctx)
		assert.True(t, apperrors.IsAlreadyExists(err))
		f.syncer.AssertNotCalled(t, "Clone", mock.Anything, mock.Anything)
	})

	t.Run("transfer failure is recorded", func(t *testing.T) {
		f := newFixture(t)
		f.syncer.On("Clone", mock.Anything, mock.Anything).
			Return(&gitsync.Result{ID: "op-2"}, apperrors.NewNetworkError("clone failed: connection reset", nil))

		_, err := f.svc.Clone(ctx)
		assert.True(t, apperrors.IsNetwork(err))
		assert.Equal(t, install.DefaultVersion, f.install.CurrentVersion())

		records, err := f.svc.History(ctx, 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, models.SyncStatusFailed, records[0].Status)
		assert.Contains(t, records[0].Error, "connection reset")
		f.versions.AssertNotCalled(t, "FetchVersion", mock.Anything)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("not installed", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Update(ctx)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("already up to date", func(t *testing.T) {
		f := newFixture(t)
		f.installGame(t, "1.2.0")
		f.versions.On("FetchVersion", mock.Anything).Return("1.2.0")

		outcome, err := f.svc.Update(ctx)
		require.NoError(t, err)
		assert.True(t, outcome.UpToDate)
		assert.Equal(t, "already up to date", outcome.Message)
		assert.Equal(t, "1.2.0", outcome.Version)
		f.syncer.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("updates to published version", func(t *testing.T) {
		f := newFixture(t)
		f.installGame(t, "1.2.0")
		f.versions.On("FetchVersion", mock.Anything).Return("1.3.0")
		f.syncer.On("Update", mock.Anything, mock.Anything).Return(&gitsync.Result{ID: "op-3"}, nil)

		outcome, err := f.svc.Update(ctx)
		require.NoError(t, err)
		assert.False(t, outcome.UpToDate)
		assert.Equal(t, "1.3.0", outcome.Version)
		assert.Equal(t, "1.3.0", f.install.CurrentVersion())

		records, err := f.svc.History(ctx, 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, gitsync.OperationUpdate, records[0].Operation)
		assert.Equal(t, "1.2.0", records[0].FromVersion)
		assert.Equal(t, "1.3.0", records[0].ToVersion)
	})
}

func TestService_StartUpdate_Background(t *testing.T) {
	f := newFixture(t)
	f.installGame(t, "1.0.0")
	f.versions.On("FetchVersion", mock.Anything).Return("2.0.0")
	f.syncer.On("Update", mock.Anything, mock.Anything).Return(&gitsync.Result{ID: "op-4"}, nil)

	outcome, err := f.svc.StartUpdate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "update started", outcome.Message)
	assert.Equal(t, "1.0.0", outcome.Version)
	assert.NotEmpty(t, outcome.OperationID)

	f.svc.Wait()
	assert.Equal(t, "2.0.0", f.install.CurrentVersion())
}

func TestService_StartReplacesProgressBeforeReturning(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	dir := t.TempDir()
	gamePath := filepath.Join(dir, "game")
	installStore, err := install.Open(filepath.Join(dir, "config.json"), install.Defaults{
		GamePath: gamePath,
		RepoURL:  testRepoURL,
	}, logger)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(gamePath, 0o755))
	require.NoError(t, os.WriteFile(installStore.LauncherPath(), []byte("exe"), 0o755))
	require.NoError(t, installStore.SetCurrentVersion("1.0.0"))

	versions := &mockVersions{}
	versions.On("FetchVersion", mock.Anything).Return("2.0.0")
	syncer := &mockSyncer{tracker: progress.NewTracker()}
	syncer.On("Update", mock.Anything, mock.Anything).Return(&gitsync.Result{ID: "op-6"}, nil)
	history := &blockingStore{MemoryStore: db.NewMemoryStore(), release: make(chan struct{})}

	previous := syncer.Begin(gitsync.OperationClone)
	previous.Finalize()

	svc := NewService(installStore, versions, syncer, history, &mockStarter{}, logger)
	outcome, err := svc.StartUpdate(context.Background())
	require.NoError(t, err)

	snap := svc.Progress()
	assert.Equal(t, outcome.OperationID, snap.OperationID)
	assert.NotEqual(t, previous.ID(), snap.OperationID)
	assert.Equal(t, gitsync.OperationUpdate, snap.Operation)
	assert.False(t, snap.Complete)
	assert.Equal(t, progress.StagePreparing, snap.Stage)

	close(history.release)
	svc.Wait()
	assert.Equal(t, "2.0.0", installStore.CurrentVersion())
}

func TestService_TransferInProgress(t *testing.T) {
	f := newFixture(t)
	unblock := make(chan struct{})
	f.syncer.On("Clone", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-unblock }).
		Return(&gitsync.Result{ID: "op-5"}, nil)
	f.versions.On("FetchVersion", mock.Anything).Return("1.0.0")

	_, err := f.svc.StartClone(context.Background())
	require.NoError(t, err)

	_, err = f.svc.StartClone(context.Background())
	assert.True(t, apperrors.IsSyncInProgress(err))
	_, err = f.svc.Update(context.Background())
	assert.True(t, apperrors.IsSyncInProgress(err))
	_, err = f.svc.Launch(context.Background())
	assert.True(t, apperrors.IsSyncInProgress(err))
	_, err = f.svc.SetGamePath(context.Background(), t.TempDir())
	assert.True(t, apperrors.IsSyncInProgress(err))

	close(unblock)
	f.svc.Wait()

	_, err = f.svc.SetGamePath(context.Background(), t.TempDir())
	assert.NoError(t, err)
}

func TestService_Launch(t *testing.T) {
	ctx := context.Background()

	t.Run("not installed", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Launch(ctx)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("starts launcher in game directory", func(t *testing.T) {
		f := newFixture(t)
		f.installGame(t, "1.0.0")
		f.starter.On("Start", mock.MatchedBy(func(cmd process.Command) bool {
			return cmd.WorkDir == f.gamePath && cmd.LogPath == filepath.Join(f.gamePath, LaunchLogName)
		})).Return(4242, nil)

		result, err := f.svc.Launch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4242, result.PID)
		assert.Equal(t, f.install.LauncherPath(), result.LauncherPath)
		f.starter.AssertExpectations(t)
	})

	t.Run("start failure", func(t *testing.T) {
		f := newFixture(t)
		f.installGame(t, "1.0.0")
		f.starter.On("Start", mock.Anything).Return(0, &process.ExecutionError{Operation: "start", Message: "no wine"})

		_, err := f.svc.Launch(ctx)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrInternal, apperrors.TypeOf(err))
	})
}

func TestService_Progress(t *testing.T) {
	f := newFixture(t)

	snapshot := f.svc.Progress()
	assert.Equal(t, progress.StagePreparing, snapshot.Stage)
	assert.Equal(t, 0, snapshot.Percentage)
}

func TestService_History_InvalidLimit(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.History(context.Background(), -1)
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestService_SetGamePath(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SetGamePath(context.Background(), "  ")
	assert.True(t, apperrors.IsInvalidInput(err))

	target := filepath.Join(t.TempDir(), "elsewhere")
	got, err := f.svc.SetGamePath(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, target, got)
	assert.Equal(t, target, f.install.GamePath())
}

func TestService_WatchVersions(t *testing.T) {
	f := newFixture(t)
	f.versions.On("FetchVersion", mock.Anything).Return("3.0.0")

	require.NoError(t, f.svc.WatchVersions(0))
	assert.Nil(t, f.install.LastCheckTime())

	require.NoError(t, f.svc.WatchVersions(50*time.Millisecond))
	defer f.svc.StopWatching()

	assert.Eventually(t, func() bool {
		return f.install.LastCheckTime() != nil
	}, 2*time.Second, 10*time.Millisecond)
}
