package appointment

import (
	"strings"
	"time"
)

const (
	SlotStep   = 30 * time.Minute
	DayLayout  = "2006-01-02"
	SlotLayout = "15:04"
)

// Span is a half-open time interval [Start, End).
type Span struct {
	Start time.Time
	End   time.Time
}

func (s Span) Overlaps(o Span) bool {
	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

// Window bounds the candidate start times of a day. Breaks are treated as
// busy time.
type Window struct {
	Start  time.Time
	End    time.Time
	Breaks []Span
	Closed bool
}

// Admits reports whether a booking of span fits the window: it must start
// inside it and may not overlap a break.
func (w Window) Admits(span Span) bool {
	if w.Closed {
		return false
	}
	if span.Start.Before(w.Start) || !span.Start.Before(w.End) {
		return false
	}
	for _, b := range w.Breaks {
		if span.Overlaps(b) {
			return false
		}
	}
	return true
}

// ParseDay parses YYYY-MM-DD as midnight in loc.
func ParseDay(raw string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DayLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

var startLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
}

// ParseStart accepts an RFC 3339 instant or a local date-time in loc.
func ParseStart(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// FullDay spans local midnight to the next local midnight, so DST days are
// 23 or 25 hours long.
func FullDay(day time.Time) Window {
	y, m, d := day.Date()
	loc := day.Location()
	return Window{
		Start: time.Date(y, m, d, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, d+1, 0, 0, 0, 0, loc),
	}
}

type SlotQuery struct {
	DurationMinutes int
	Window          Window
	Busy            []Span
	Now             time.Time
}

// AvailableSlots lists the start times ("HH:MM", window-local) at which a
// booking of the given duration overlaps nothing busy. Candidates step by
// SlotStep from the window start while before the window end; candidates
// earlier than Now are skipped.
func AvailableSlots(q SlotQuery) ([]string, error) {
	if q.DurationMinutes <= 0 {
		return nil, ErrInvalidService
	}

	slots := []string{}
	if q.Window.Closed {
		return slots, nil
	}

	duration := time.Duration(q.DurationMinutes) * time.Minute
	loc := q.Window.Start.Location()

	busy := make([]Span, 0, len(q.Busy)+len(q.Window.Breaks))
	busy = append(busy, q.Busy...)
	busy = append(busy, q.Window.Breaks...)

	seen := make(map[string]struct{})

	for cur := q.Window.Start; cur.Before(q.Window.End); cur = cur.Add(SlotStep) {
		if !q.Now.IsZero() && cur.Before(q.Now) {
			continue
		}

		candidate := Span{Start: cur, End: cur.Add(duration)}
		if overlapsAny(candidate, busy) {
			continue
		}

		label := cur.In(loc).Format(SlotLayout)
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		slots = append(slots, label)
	}

	return slots, nil
}

func overlapsAny(s Span, busy []Span) bool {
	for _, b := range busy {
		if s.Overlaps(b) {
			return true
		}
	}
	return false
}
