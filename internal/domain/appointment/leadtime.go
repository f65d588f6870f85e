package appointment

import "time"

// CheckLeadTime rejects a cancellation when start is closer to now than lead.
func CheckLeadTime(start, now time.Time, lead time.Duration) error {
	if start.Sub(now) < lead {
		return ErrLeadTimeViolation
	}
	return nil
}

func LeadTime(hours int) time.Duration {
	if hours < 0 {
		hours = 0
	}
	return time.Duration(hours) * time.Hour
}
