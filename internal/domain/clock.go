package domain

import "time"

// DayLayout formats calendar days used as ledger keys.
const DayLayout = time.DateOnly

// CalendarDay truncates t to midnight of its calendar day in loc. A nil loc
// means UTC.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DayKey renders the calendar day of t as "YYYY-MM-DD" in t's own location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}
