// Package timeouts centralizes the context deadlines handlers apply around
// store calls.
//
// Tiers:
//   - Ping: connectivity checks
//   - Short: single-document reads
//   - Medium: list queries and simple writes
//   - Long: writes touching multiple collections (the variety cascade)
package timeouts

import (
	"os"
	"sync"
	"time"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

var (
	mu     sync.RWMutex
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	long   = DefaultLong
)

// Ping returns the timeout for connectivity checks.
func Ping() time.Duration { mu.RLock(); defer mu.RUnlock(); return ping }

// Short returns the timeout for single-document reads.
func Short() time.Duration { mu.RLock(); defer mu.RUnlock(); return short }

// Medium returns the timeout for list queries and simple writes.
func Medium() time.Duration { mu.RLock(); defer mu.RUnlock(); return medium }

// Long returns the timeout for multi-collection writes.
func Long() time.Duration { mu.RLock(); defer mu.RUnlock(); return long }

// ConfigureFromEnv overrides tiers from TIMEOUT_PING, TIMEOUT_SHORT,
// TIMEOUT_MEDIUM, and TIMEOUT_LONG when set to valid durations. Call once
// during startup.
func ConfigureFromEnv() {
	mu.Lock()
	defer mu.Unlock()
	if d := fromEnv("TIMEOUT_PING"); d > 0 {
		ping = d
	}
	if d := fromEnv("TIMEOUT_SHORT"); d > 0 {
		short = d
	}
	if d := fromEnv("TIMEOUT_MEDIUM"); d > 0 {
		medium = d
	}
	if d := fromEnv("TIMEOUT_LONG"); d > 0 {
		long = d
	}
}

// Reset restores defaults. Useful for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping, short, medium, long = DefaultPing, DefaultShort, DefaultMedium, DefaultLong
}

func fromEnv(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}
