// Package lock serializes booking writers of the same business and day
// before they reach the database. Correctness does not depend on it.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNotAcquired = errors.New("lock: not acquired")

// Locker hands out exclusive locks by key. The returned release function
// must be called exactly once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// BookingKey groups bookings per business and the local calendar day of
// their start. It only thins out contention: two bookings around midnight
// can overlap under different keys, so the overlap check and exclusion
// constraint in the repository remain the enforcement point.
func BookingKey(businessID uint, day time.Time) string {
	return fmt.Sprintf("booking:%d:%s", businessID, day.Format("2006-01-02"))
}
