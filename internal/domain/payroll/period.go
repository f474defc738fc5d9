package payroll

import "time"

// WeekdayCount counts Monday-Friday days in [start, end], date-only.
func WeekdayCount(start, end time.Time) int {
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
	}
	return count
}

// PeriodBounds returns the first and last day of a calendar month in loc.
func PeriodBounds(month, year int, loc *time.Location) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end = start.AddDate(0, 1, -1)
	return start, end
}
