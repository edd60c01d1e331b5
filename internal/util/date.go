package util

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string into a UTC midnight time.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// AddMonths returns the date n calendar months after t, preserving the
// day-of-month where possible. When the target month is shorter the day is
// clamped to its last day (Jan 31 + 1 month = Feb 28/29), so schedules never
// spill into the following month the way time.AddDate would.
func AddMonths(t time.Time, n int) time.Time {
	year := t.Year()
	month := int(t.Month()) + n
	year += (month - 1) / 12
	month = (month-1)%12 + 1

	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, t.Location()).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, t.Location())
}
