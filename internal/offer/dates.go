package offer

import "time"

const (
	// Tours depart every StepDays days, starting FirstOffsetDays from today,
	// up to HorizonDays ahead.
	FirstOffsetDays = 7
	StepDays        = 7
	HorizonDays     = 179
)

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EligibleDates lists every selectable start date relative to today.
func EligibleDates(today time.Time) []time.Time {
	base := Day(today)
	out := make([]time.Time, 0, HorizonDays/StepDays)
	for offset := FirstOffsetDays; offset <= HorizonDays; offset += StepDays {
		out = append(out, base.AddDate(0, 0, offset))
	}
	return out
}

// IsEligible reports whether date is one of EligibleDates(today).
func IsEligible(today, date time.Time) bool {
	base := Day(today)
	d := Day(date.In(base.Location()))
	if d.Before(base) {
		return false
	}
	offset := daysBetween(base, d)
	return offset >= FirstOffsetDays && offset <= HorizonDays && (offset-FirstOffsetDays)%StepDays == 0
}

// daysBetween counts calendar days, so DST shifts do not skew the result.
func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// CalendarDay is one cell of a month grid. Padding cells before the
// first of the month have Day == 0 and are never selectable.
type CalendarDay struct {
	Date       string `json:"date,omitempty"`
	Day        int    `json:"day"`
	Selectable bool   `json:"selectable"`
}

type Calendar struct {
	Month string        `json:"month"`
	Cells []CalendarDay `json:"cells"`
}

// MonthCalendar lays out a Sunday-first month grid with selectable start dates marked.
func MonthCalendar(today time.Time, year int, month time.Month) Calendar {
	loc := today.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	cells := make([]CalendarDay, 0, int(first.Weekday())+daysInMonth)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, CalendarDay{})
	}
	for d := 1; d <= daysInMonth; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, loc)
		cells = append(cells, CalendarDay{
			Date:       date.Format(DateLayout),
			Day:        d,
			Selectable: IsEligible(today, date),
		})
	}
	return Calendar{Month: first.Format("2006-01"), Cells: cells}
}

const DateLayout = "2006-01-02"
