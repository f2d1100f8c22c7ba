package coach

import "time"

// StartOfWeek returns Monday 00:00 of the week containing t, in t's location.
func StartOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}

// NextWeekStart is the Monday of the calendar week after now.
func NextWeekStart(now time.Time) time.Time {
	return StartOfWeek(now.AddDate(0, 0, 7))
}

// WeekLabel renders "Week of Jan 13".
func WeekLabel(weekStart time.Time) string {
	return "Week of " + weekStart.Format("Jan 2")
}
