package config

import (
	"time"

	"github.com/Kamar-Folarin/game-updater/internal/progress"
)

// ProgressConfig holds the timing thresholds used when reporting progress
type ProgressConfig struct {
	// Grace is how long a fresh operation reports a minimal percentage
	// before any counts arrive.
	Grace time.Duration
	// StallAfter and Silence together decide when a quiet transfer is
	// reported as finished.
	StallAfter time.Duration
	Silence    time.Duration
}

// DefaultProgressConfig returns the default progress configuration
func DefaultProgressConfig() *ProgressConfig {
	d := progress.DefaultThresholds()
	return &ProgressConfig{
		Grace:      d.Grace,
		StallAfter: d.StallAfter,
		Silence:    d.Silence,
	}
}

func (c *ProgressConfig) Thresholds() progress.Thresholds {
	return progress.Thresholds{
		Grace:      c.Grace,
		StallAfter: c.StallAfter,
		Silence:    c.Silence,
	}
}
