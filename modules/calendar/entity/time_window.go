package entity

import "time"

// BusyWindow is one busy range reported by the calendar provider.
type BusyWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Interval is a candidate time range checked for availability. ID lets
// callers map results back to whatever the interval represents (an event, a
// negotiation slot).
type Interval struct {
	ID    string    `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether the interval overlaps the busy window, half-open:
// touching boundaries do not overlap.
func (i Interval) Overlaps(w BusyWindow) bool {
	return i.Start.Before(w.End) && w.Start.Before(i.End)
}
