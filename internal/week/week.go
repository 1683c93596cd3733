package week

import "time"

// Window is a Monday-aligned [Start, End) span of seven days.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the date-only value falls inside the window.
func (w Window) Contains(date time.Time) bool {
	return !date.Before(w.Start) && date.Before(w.End)
}

// StartOf truncates date to the Monday 00:00 opening its ISO week.
func StartOf(date time.Time) time.Time {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	// time.Weekday puts Sunday at 0; shift so Monday is 0.
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WindowOf returns the week window containing date.
func WindowOf(date time.Time) Window {
	start := StartOf(date)
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}

// MaxEntries is the hard cap of timesheet entries per student per week; it
// follows from one-entry-per-day but is enforced independently at creation.
const MaxEntries = 7
