// Package biztime centralizes the clock. All storage and transport use UTC.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

var (
	clockMu sync.RWMutex
	clock   = time.Now
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	clockMu.RLock()
	defer clockMu.RUnlock()
	return clock().UTC()
}

// SetClock replaces the time source and returns a function restoring the
// previous one. Intended for tests.
func SetClock(now func() time.Time) (restore func()) {
	clockMu.Lock()
	prev := clock
	clock = now
	clockMu.Unlock()

	return func() {
		clockMu.Lock()
		clock = prev
		clockMu.Unlock()
	}
}

// FormatMetadataTime formats a UTC time for storage in metadata using RFC3339 format.
func FormatMetadataTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseMetadataTime is the counterpart to FormatMetadataTime.
func ParseMetadataTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid metadata timestamp format %q: %w", s, err)
	}
	return t, nil
}
