/*
Package hours computes worked and expected durations from punch records.

PURPOSE:
  Pure functions over punch.EmployeeRecord. Nothing here touches
  storage: callers read a record through records.Store and pass it in.

WEEKLY POLICY:
  Expected seconds depend only on the day of week and whether the
  employee has at least one punch pair that day:

    Sunday .. Thursday   7h   always
    Saturday             3h   only if attended, else 0
    Friday               0    rest day

  Saturday is optional: expectation accrues retroactively once
  attendance is observed. "Attended" means the day has at least one
  pair, even one whose sides are both absent.

WORKED TIME:
  Each pair contributes max(0, out - in). A missing side is replaced by
  the current wall-clock HH:MM, so an open pair keeps growing until it
  is closed and a pair with no in collapses toward zero.

RANGES:
  Range functions iterate every calendar day from start to end
  inclusive. Time-of-day is ignored. start after end is an empty range.

SEE ALSO:
  - accrual.go: range aggregation
  - summary.go: decimal-hour summaries for display and export
*/
package hours

import (
	"time"

	"github.com/warp/punchclock/punch"
)

// =============================================================================
// WEEKLY POLICY TABLE
// =============================================================================

const (
	// FullDaySeconds is the expectation for Sunday through Thursday.
	FullDaySeconds int64 = 7 * 3600

	// SaturdaySeconds is the expectation for an attended Saturday.
	SaturdaySeconds int64 = 3 * 3600
)

// ExpectedSecondsForDay returns the target worked duration for day.
func ExpectedSecondsForDay(day punch.Day, hasPunch bool) int64 {
	switch day.Weekday() {
	case time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday:
		return FullDaySeconds
	case time.Saturday:
		if hasPunch {
			return SaturdaySeconds
		}
		return 0
	default: // Friday
		return 0
	}
}

// ExpectedSecondsForDate applies the weekly table to the local calendar
// date of t.
func ExpectedSecondsForDate(t time.Time, hasPunch bool) int64 {
	return ExpectedSecondsForDay(punch.DayOf(t), hasPunch)
}

// =============================================================================
// CALCULATOR - Worked time with an injectable clock
// =============================================================================

// Calculator evaluates worked time against a wall clock.
// The zero value uses time.Now.
type Calculator struct {
	Now func() time.Time
}

var defaultCalculator = Calculator{}

func (c Calculator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// SumPunchedSeconds totals max(0, out-in) over pairs. Missing sides are
// taken as the current HH:MM.
func (c Calculator) SumPunchedSeconds(pairs []punch.Pair) int64 {
	if len(pairs) == 0 {
		return 0
	}
	nowSec := punch.TimeToSeconds(punch.NowAsHHMM(c.now()))

	var total int64
	for _, p := range pairs {
		in, out := nowSec, nowSec
		if p.In != "" {
			in = punch.TimeToSeconds(p.In)
		}
		if p.Out != "" {
			out = punch.TimeToSeconds(p.Out)
		}
		if d := out - in; d > 0 {
			total += d
		}
	}
	return total
}

// SumPunchedSeconds uses the system clock.
func SumPunchedSeconds(pairs []punch.Pair) int64 {
	return defaultCalculator.SumPunchedSeconds(pairs)
}
