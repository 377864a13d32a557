package progress

import (
	"fmt"
	"math"
	"time"
)

const (
	receiveWeight = 0.7
	indexWeight   = 0.3

	// MaxRunningFraction caps the fraction of a transfer that has not finished.
	MaxRunningFraction = 0.99

	creepStart  = 0.1
	creepEnd    = 0.5
	creepWindow = 300 * time.Second

	minSampleInterval = 500 * time.Millisecond
	speedAlpha        = 0.3
)

// EstimateFraction blends object counts into a completion fraction. Without a
// known total it falls back to the last transfer counter, and without that to
// a slow creep driven by elapsed time.
func EstimateFraction(total, received, indexed, current, max int64, elapsed time.Duration) float64 {
	if total > 0 {
		recv := math.Min(float64(received)/float64(total), 1)
		var idx float64
		if indexed > 0 {
			idx = math.Min(float64(indexed)/float64(total), 1)
		}
		return math.Min(receiveWeight*recv+indexWeight*idx, MaxRunningFraction)
	}
	if max > 0 {
		return math.Min(float64(current)/float64(max), MaxRunningFraction)
	}
	if elapsed < 0 {
		elapsed = 0
	}
	ratio := math.Min(elapsed.Seconds()/creepWindow.Seconds(), 1)
	return creepStart + (creepEnd-creepStart)*ratio
}

// Sample is the throughput reference point an ETA is measured from.
type Sample struct {
	At       time.Time
	Received int64
}

// EstimateETA derives the seconds remaining from the receive rate since prev.
// It reports ok=false, and the caller keeps its previous ETA, when the window
// is shorter than half a second or nothing new arrived in it.
func EstimateETA(prev Sample, received, total int64, now time.Time) (eta float64, next Sample, ok bool) {
	if received <= 0 || total <= 0 {
		return 0, prev, false
	}
	window := now.Sub(prev.At)
	if window < minSampleInterval {
		return 0, prev, false
	}
	delta := received - prev.Received
	if delta <= 0 {
		return 0, prev, false
	}
	rate := float64(delta) / window.Seconds()
	remaining := total - received
	if remaining < 0 {
		remaining = 0
	}
	return float64(remaining) / rate, Sample{At: now, Received: received}, true
}

// SmoothSpeed folds a new speed reading into the running average.
func SmoothSpeed(prev, sample float64, seeded bool) float64 {
	if !seeded {
		return sample
	}
	return speedAlpha*sample + (1-speedAlpha)*prev
}

// FormatETA renders seconds as "~Ns", "~Nm" or "~Nh Mm". Non-positive values
// render as the empty string.
func FormatETA(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return ""
	}
	s := int64(seconds)
	switch {
	case s < 60:
		return fmt.Sprintf("~%ds", s)
	case s < 3600:
		return fmt.Sprintf("~%dm", s/60)
	default:
		return fmt.Sprintf("~%dh %dm", s/3600, (s%3600)/60)
	}
}
