package appointment

import (
	"time"

	"github.com/BruksfildServices01/booking-saas/internal/models"
)

// WindowFor returns the bookable window of day. Without enforcement, or
// when the weekday has no configuration, the whole day is open; an inactive
// weekday is closed.
func WindowFor(day time.Time, wh *models.WorkingHours, enforce bool) (Window, error) {
	full := FullDay(day)
	if !enforce || wh == nil {
		return full, nil
	}
	if !wh.Active {
		return Window{Start: full.Start, End: full.Start, Closed: true}, nil
	}

	start, err := clock(full.Start, wh.StartTime)
	if err != nil {
		return Window{}, err
	}
	end, err := clock(full.Start, wh.EndTime)
	if err != nil {
		return Window{}, err
	}
	if !start.Before(end) {
		return Window{}, ErrInvalidWorkingHours
	}

	w := Window{Start: start, End: end}

	if wh.BreakStart != "" && wh.BreakEnd != "" {
		bs, err := clock(full.Start, wh.BreakStart)
		if err != nil {
			return Window{}, err
		}
		be, err := clock(full.Start, wh.BreakEnd)
		if err != nil {
			return Window{}, err
		}
		if bs.Before(be) {
			w.Breaks = append(w.Breaks, Span{Start: bs, End: be})
		}
	}

	return w, nil
}

// ValidateWorkingHours checks one row as submitted from settings.
func ValidateWorkingHours(wh models.WorkingHours) error {
	if wh.Weekday < 0 || wh.Weekday > 6 {
		return ErrInvalidWorkingHours
	}
	if !wh.Active {
		return nil
	}

	ref := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	start, err := clock(ref, wh.StartTime)
	if err != nil {
		return err
	}
	end, err := clock(ref, wh.EndTime)
	if err != nil {
		return err
	}
	if !start.Before(end) {
		return ErrInvalidWorkingHours
	}

	if (wh.BreakStart == "") != (wh.BreakEnd == "") {
		return ErrInvalidWorkingHours
	}
	if wh.BreakStart != "" {
		bs, err := clock(ref, wh.BreakStart)
		if err != nil {
			return err
		}
		be, err := clock(ref, wh.BreakEnd)
		if err != nil {
			return err
		}
		if !bs.Before(be) || bs.Before(start) || be.After(end) {
			return ErrInvalidWorkingHours
		}
	}
	return nil
}

func clock(midnight time.Time, hm string) (time.Time, error) {
	y, m, d := midnight.Date()
	if hm == "24:00" {
		return time.Date(y, m, d+1, 0, 0, 0, 0, midnight.Location()), nil
	}

	t, err := time.Parse(SlotLayout, hm)
	if err != nil {
		return time.Time{}, ErrInvalidWorkingHours
	}
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, midnight.Location()), nil
}
