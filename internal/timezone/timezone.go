package timezone

import (
	"sync"
	"time"
)

var (
	mu              sync.RWMutex
	defaultTimezone = "Asia/Jerusalem"
)

// SetDefault changes the zone used when a business has none configured.
// Invalid names are ignored.
func SetDefault(tz string) {
	if !IsValid(tz) {
		return
	}
	mu.Lock()
	defaultTimezone = tz
	mu.Unlock()
}

func Default() string {
	mu.RLock()
	defer mu.RUnlock()
	return defaultTimezone
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if loc, err := time.LoadLocation(tz); err == nil && tz != "" {
		return loc
	}

	loc, err := time.LoadLocation(Default())
	if err != nil {
		return time.UTC
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(Default()))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}
