// Package deadline holds the due-date arithmetic shared by the scanners and
// the inbox deadline check. Everything here is pure: callers supply the
// reference day and get dates back, no clocks and no storage.
package deadline

import "time"

// Window is the resolved notification window for one item under one rule.
type Window struct {
	DueDate    time.Time
	NotifyFrom time.Time
}

// Compute derives the due date and notify-window start from an item's creation
// time and the rule's lead days. Times are truncated to calendar days; the
// clock component of createdAt never shifts the due date.
func Compute(createdAt time.Time, executionLeadDays, notifyBeforeDays int) Window {
	due := DayOf(createdAt).AddDate(0, 0, executionLeadDays)
	return Window{
		DueDate:    due,
		NotifyFrom: due.AddDate(0, 0, -notifyBeforeDays),
	}
}

// Eligible reports whether today falls inside [NotifyFrom, DueDate). The upper
// bound is strict: the day an item becomes due it stops generating upcoming
// notices.
func (w Window) Eligible(today time.Time) bool {
	day := DayOf(today)
	return !day.Before(w.NotifyFrom) && day.Before(w.DueDate)
}

// DaysRemaining returns the whole calendar days between today and the due
// date. Negative values mean the item is already past due.
func (w Window) DaysRemaining(today time.Time) int {
	return DaysBetween(DayOf(today), w.DueDate)
}

// DayOf truncates a timestamp to its calendar day, preserving the location.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from one day-truncated time to another.
// The count runs on date components, so a DST transition inside the window
// cannot shave hours off and shift the result.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f) / (24 * time.Hour))
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}
