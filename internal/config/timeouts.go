package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the deadlines and retry settings for engine operations.
// These values can be customized via environment variables.
type Timeouts struct {
	Preview           time.Duration // Deadline for a preview
	Up                time.Duration // Deadline for an update
	Destroy           time.Duration // Deadline for a destroy
	Refresh           time.Duration // Deadline for a refresh
	RetryMaxAttempts  int           // Retries when the stack is locked by another update
	RetryInitialDelay time.Duration // Initial delay between those retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - PSCLINK_TIMEOUT_PREVIEW (default: 10m)
//   - PSCLINK_TIMEOUT_UP (default: 45m)
//   - PSCLINK_TIMEOUT_DESTROY (default: 30m)
//   - PSCLINK_TIMEOUT_REFRESH (default: 10m)
//   - PSCLINK_RETRY_MAX_ATTEMPTS (default: 3)
//   - PSCLINK_RETRY_INITIAL_DELAY (default: 15s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Preview:           parseDuration("PSCLINK_TIMEOUT_PREVIEW", 10*time.Minute),
		Up:                parseDuration("PSCLINK_TIMEOUT_UP", 45*time.Minute),
		Destroy:           parseDuration("PSCLINK_TIMEOUT_DESTROY", 30*time.Minute),
		Refresh:           parseDuration("PSCLINK_TIMEOUT_REFRESH", 10*time.Minute),
		RetryMaxAttempts:  parseInt("PSCLINK_RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay: parseDuration("PSCLINK_RETRY_INITIAL_DELAY", 15*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}

	return i
}
