package launcher

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// WatchVersions checks the published version every interval until
// StopWatching is called. A non-positive interval disables the watch.
func (s *Service) WatchVersions(interval time.Duration) error {
	if interval <= 0 {
		return nil
	}

	s.StopWatching()

	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Every(interval).SingletonMode().Do(s.watchOnce); err != nil {
		return err
	}
	scheduler.StartAsync()

	s.mu.Lock()
	s.scheduler = scheduler
	s.mu.Unlock()

	s.logger.WithField("interval", interval.String()).Info("Version watch started")
	return nil
}

func (s *Service) StopWatching() {
	s.mu.Lock()
	scheduler := s.scheduler
	s.scheduler = nil
	s.mu.Unlock()

	if scheduler != nil {
		scheduler.Stop()
		s.logger.Info("Version watch stopped")
	}
}

func (s *Service) watchOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	check, err := s.CheckVersion(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Scheduled version check failed")
		return
	}
	if check.NeedsUpdate {
		s.logger.WithFields(logrus.Fields{
			"current_version": check.CurrentVersion,
			"remote_version":  check.RemoteVersion,
		}).Info("Game update available")
	}
}
