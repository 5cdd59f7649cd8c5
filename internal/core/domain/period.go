package domain

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Period is a half-open day range [Start, End) used for interest accrual.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod truncates both bounds to UTC midnight and checks ordering.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: StartOfDay(start), End: StartOfDay(end)}
	if !p.End.After(p.Start) {
		return Period{}, fmt.Errorf("period end %s must be after start %s", p.End.Format(dateLayout), p.Start.Format(dateLayout))
	}
	return p, nil
}

// MonthPeriod returns the calendar month containing t.
func MonthPeriod(t time.Time) Period {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// PreviousMonthPeriod returns the calendar month before the one containing t.
func PreviousMonthPeriod(t time.Time) Period {
	current := MonthPeriod(t)
	return Period{Start: current.Start.AddDate(0, -1, 0), End: current.Start}
}

// Key is the stable identifier used for idempotent postings, e.g. "2026-09-01/2026-10-01".
func (p Period) Key() string {
	return p.Start.Format(dateLayout) + "/" + p.End.Format(dateLayout)
}

// Days counts whole days in the period.
func (p Period) Days() int {
	return DaysBetween(p.Start, p.End)
}

// Overlaps reports whether the two periods share at least one day.
func (p Period) Overlaps(other Period) bool {
	return p.Start.Before(other.End) && other.Start.Before(p.End)
}

// ClampStart moves the start forward to from when from falls inside the period.
func (p Period) ClampStart(from time.Time) Period {
	from = StartOfDay(from)
	if from.After(p.Start) {
		p.Start = from
	}
	return p
}

// StartOfDay returns midnight UTC of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar days from a to b. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24)
}

// AddMonths adds n calendar months, clamping to the last day of the target
// month (Jan 31 + 1 month = Feb 28/29).
func AddMonths(t time.Time, n int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()).AddDate(0, n, 0)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// WholeMonthsBetween counts complete calendar months elapsed from start to end.
func WholeMonthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()-start.Month())
	if months > 0 && AddMonths(start, months).After(end) {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
