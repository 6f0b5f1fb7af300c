// Package reporting implements the dashboard aggregation pipeline: period
// resolution, revenue/expense summaries with prior-period comparisons,
// category breakdowns, monthly series, and recent activity. All functions are
// pure and operate on in-memory transaction slices; amounts are int64 minor
// units (cents) throughout.
package reporting

import "time"

// PeriodKey is a symbolic reporting period selector.
type PeriodKey string

const (
	PeriodOneMonth   PeriodKey = "1m"
	PeriodThreeMonth PeriodKey = "3m"
	PeriodSixMonth   PeriodKey = "6m"
	PeriodYearToDate PeriodKey = "ytd"
	PeriodAll        PeriodKey = "all"
)

// ParsePeriodKey validates a period key string.
func ParsePeriodKey(s string) (PeriodKey, bool) {
	switch PeriodKey(s) {
	case PeriodOneMonth, PeriodThreeMonth, PeriodSixMonth, PeriodYearToDate, PeriodAll:
		return PeriodKey(s), true
	}
	return "", false
}

// Period holds the resolved current-period and comparison-period boundaries.
// When HasPrevious is false (the "all" period) no comparison window exists
// and percentage deltas are reported as not applicable.
type Period struct {
	Start       time.Time
	End         time.Time
	PrevStart   time.Time
	PrevEnd     time.Time
	HasPrevious bool
}

// ResolvePeriod computes period boundaries for a key relative to now.
//   - 1m/3m/6m: the window is now minus 1/3/6 calendar months (day-of-month
//     clamped) through end-of-day now; the comparison window is the
//     same-length window immediately preceding it.
//   - ytd: January 1 of the current year through now; the comparison window
//     is the entire prior calendar year.
//   - all: unbounded start, no comparison window.
func ResolvePeriod(key PeriodKey, now time.Time) Period {
	end := endOfDay(now)

	switch key {
	case PeriodYearToDate:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return Period{
			Start:       start,
			End:         end,
			PrevStart:   time.Date(now.Year()-1, 1, 1, 0, 0, 0, 0, now.Location()),
			PrevEnd:     time.Date(now.Year()-1, 12, 31, 23, 59, 59, 999999999, now.Location()),
			HasPrevious: true,
		}
	case PeriodAll:
		return Period{Start: time.Time{}, End: end, HasPrevious: false}
	}

	months := 1
	switch key {
	case PeriodThreeMonth:
		months = 3
	case PeriodSixMonth:
		months = 6
	}

	start := startOfDay(addMonthsClamped(now, -months))
	prevEnd := start.Add(-time.Millisecond)
	prevStart := startOfDay(addMonthsClamped(prevEnd, -months))
	return Period{
		Start:       start,
		End:         end,
		PrevStart:   prevStart,
		PrevEnd:     prevEnd,
		HasPrevious: true,
	}
}

// Contains reports whether t falls inside the current period (inclusive).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// ContainsPrevious reports whether t falls inside the comparison period.
func (p Period) ContainsPrevious(t time.Time) bool {
	return p.HasPrevious && !t.Before(p.PrevStart) && !t.After(p.PrevEnd)
}

// addMonthsClamped shifts t by the given number of calendar months, clamping
// the day-of-month to the target month's length. time.AddDate alone would
// normalize Jan 31 minus one month to Jan 2/3 instead of Dec 31.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	shifted := first.AddDate(0, months, 0)
	if last := daysIn(shifted.Year(), shifted.Month()); day > last {
		day = last
	}
	return time.Date(shifted.Year(), shifted.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}
