// Package gitsync clones and fast-forwards a single branch of a remote
// repository while feeding transfer progress into a progress.Tracker.
package gitsync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/game-updater/internal/errors"
	"github.com/Kamar-Folarin/game-updater/internal/progress"
	"github.com/Kamar-Folarin/game-updater/internal/utils"
)

const (
	OperationClone  = "clone"
	OperationUpdate = "update"
)

// Result describes a finished clone or update.
type Result struct {
	ID        string            `json:"id"`
	Operation string            `json:"operation"`
	Config    Config            `json:"config"`
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration"`
	Snapshot  progress.Snapshot `json:"snapshot"`
}

// Operation runs clones and updates through a transport. Each run replaces
// the tracker's current record, so pollers always see the latest transfer.
type Operation struct {
	transport Transport
	tracker   *progress.Tracker
	logger    *logrus.Logger
}

// NewOperation creates an Operation.
func NewOperation(transport Transport, tracker *progress.Tracker, logger *logrus.Logger) *Operation {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Operation{
		transport: transport,
		tracker:   tracker,
		logger:    logger,
	}
}

// Tracker returns the tracker runs report into.
func (o *Operation) Tracker() *progress.Tracker {
	return o.tracker
}

// Begin makes a fresh record for kind the tracker's current one. Handing it to
// Clone or Update publishes the transfer to pollers before any work starts.
func (o *Operation) Begin(kind string) *progress.State {
	return o.tracker.Begin(kind, uuid.NewString())
}

// Clone copies the configured branch into cfg.LocalPath, creating parent
// directories as needed. It blocks until the transfer ends. A nil state
// begins a new record.
func (o *Operation) Clone(ctx context.Context, cfg Config, state *progress.State) (*Result, error) {
	return o.run(ctx, OperationClone, cfg, state, func(ctx context.Context, sink Sink) error {
		if err := os.MkdirAll(filepath.Dir(filepath.Clean(cfg.LocalPath)), 0o755); err != nil {
			return errors.NewInternalError(fmt.Sprintf("failed to create parent of %s", cfg.LocalPath), err)
		}
		return o.transport.Clone(ctx, cfg, sink)
	})
}

// Update checks out the configured branch and fast-forwards it. A branch that
// is already current counts as success.
func (o *Operation) Update(ctx context.Context, cfg Config, state *progress.State) (*Result, error) {
	return o.run(ctx, OperationUpdate, cfg, state, func(ctx context.Context, sink Sink) error {
		return o.transport.Update(ctx, cfg, sink)
	})
}

func (o *Operation) run(ctx context.Context, kind string, cfg Config, state *progress.State, transfer func(context.Context, Sink) error) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		if state != nil {
			state.Fail(err)
		}
		return nil, err
	}

	if state == nil {
		state = o.Begin(kind)
	}
	id := state.ID()
	logger := o.logger.WithFields(logrus.Fields{
		"operation":    kind,
		"operation_id": id,
		"repository":   utils.RedactURL(cfg.RemoteURL),
		"repo_name":    utils.RepoName(cfg.RemoteURL),
		"branch":       cfg.Branch,
		"path":         cfg.LocalPath,
		"transport":    o.transport.Name(),
	})
	logger.Info("Starting transfer")

	result := &Result{ID: id, Operation: kind, Config: cfg, StartedAt: time.Now()}
	err := transfer(ctx, o.sink(state, logger))
	result.Duration = time.Since(result.StartedAt)

	if err != nil {
		appErr := Classify(kind, err)
		state.Fail(appErr)
		result.Snapshot = state.Snapshot()
		logger.WithError(err).WithField("error_type", appErr.Type).Error("Transfer failed")
		return result, appErr
	}

	state.Finalize()
	result.Snapshot = state.Snapshot()
	logger.WithFields(logrus.Fields{
		"duration":      result.Duration.String(),
		"total_objects": result.Snapshot.TotalObjects,
	}).Info("Transfer completed")
	return result, nil
}

func (o *Operation) sink(state *progress.State, logger *logrus.Entry) Sink {
	return func(ev progress.Event) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithField("panic", r).Warn("Dropped progress event")
			}
		}()
		state.Apply(ev)
		logger.WithFields(logrus.Fields{
			"phase":   ev.Phase.String(),
			"current": ev.Current,
			"max":     ev.Max,
		}).Debug(ev.Message)
	}
}
