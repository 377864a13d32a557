package config

import "time"

// RetryConfig holds retry settings for startup dependencies
type RetryConfig struct {
	MaxAttempts     int
	InitialBackoff  time.Duration
	MaxBackoff      time.Duration
	RetryMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:     3,
		InitialBackoff:  5 * time.Second,
		MaxBackoff:      30 * time.Second,
		RetryMultiplier: 2.0,
	}
}

// Backoff returns the delay before the given retry, starting at 1.
func (c *RetryConfig) Backoff(attempt int) time.Duration {
	d := c.InitialBackoff
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * c.RetryMultiplier)
		if d >= c.MaxBackoff {
			return c.MaxBackoff
		}
	}
	return d
}
