package period

import "time"

// CalendarFacts are the derived day counts for one calendar month.
// Sundays count as weekends; holidays start at zero and are adjusted by the
// admin after creation, since the holiday calendar is not consulted here.
type CalendarFacts struct {
	StartDate   time.Time
	EndDate     time.Time
	WorkingDays int
	Weekends    int
}

// BuildCalendar walks every day of the month and classifies it.
func BuildCalendar(month, year int) CalendarFacts {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	facts := CalendarFacts{StartDate: start, EndDate: end}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday {
			facts.Weekends++
		} else {
			facts.WorkingDays++
		}
	}
	return facts
}
