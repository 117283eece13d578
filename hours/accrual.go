package hours

import (
	"fmt"
	"time"

	"github.com/warp/punchclock/punch"
)

// =============================================================================
// RANGE - Inclusive span of calendar days
// =============================================================================

// Range is an inclusive span of calendar days.
type Range struct {
	Start punch.Day
	End   punch.Day
}

// RangeOf converts two instants into their local calendar dates.
func RangeOf(start, end time.Time) Range {
	return Range{Start: punch.DayOf(start), End: punch.DayOf(end)}
}

// Days returns every day in the range, empty when Start is after End.
func (r Range) Days() []punch.Day {
	days := make([]punch.Day, 0, r.Len())
	for cur := r.Start; cur.BeforeOrEqual(r.End); cur = cur.AddDays(1) {
		days = append(days, cur)
	}
	return days
}

// DefaultMaxRangeDays bounds report ranges coming from requests.
const DefaultMaxRangeDays = 366

// Len is the number of days in the range, 0 when Start is after End.
func (r Range) Len() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return punch.DaysBetween(r.Start, r.End) + 1
}

// Validate rejects a range that ends before it starts or covers more
// than maxDays days. maxDays <= 0 means DefaultMaxRangeDays.
func (r Range) Validate(maxDays int) error {
	if maxDays <= 0 {
		maxDays = DefaultMaxRangeDays
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("%w: %s ends before it starts", punch.ErrInvalidRange, r)
	}
	if n := r.Len(); n > maxDays {
		return fmt.Errorf("%w: %s spans %d days, limit is %d", punch.ErrInvalidRange, r, n, maxDays)
	}
	return nil
}

func (r Range) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}

// =============================================================================
// RANGE AGGREGATION
// =============================================================================

// RangeWorked sums worked seconds for every day in r.
func (c Calculator) RangeWorked(rec punch.EmployeeRecord, r Range) int64 {
	var total int64
	for day := r.Start; day.BeforeOrEqual(r.End); day = day.AddDays(1) {
		total += c.SumPunchedSeconds(rec.PairsOn(day))
	}
	return total
}

// RangeExpected sums expected seconds for every day in r.
func (c Calculator) RangeExpected(rec punch.EmployeeRecord, r Range) int64 {
	var total int64
	for day := r.Start; day.BeforeOrEqual(r.End); day = day.AddDays(1) {
		total += ExpectedSecondsForDay(day, rec.HasPunchOn(day))
	}
	return total
}

// ComputeRangeWorked sums worked seconds over the calendar days of
// [start, end] inclusive.
func (c Calculator) ComputeRangeWorked(rec punch.EmployeeRecord, start, end time.Time) int64 {
	return c.RangeWorked(rec, RangeOf(start, end))
}

// ComputeRangeExpected sums expected seconds over the calendar days of
// [start, end] inclusive.
func (c Calculator) ComputeRangeExpected(rec punch.EmployeeRecord, start, end time.Time) int64 {
	return c.RangeExpected(rec, RangeOf(start, end))
}

// ComputeRangeWorked uses the system clock.
func ComputeRangeWorked(rec punch.EmployeeRecord, start, end time.Time) int64 {
	return defaultCalculator.ComputeRangeWorked(rec, start, end)
}

// ComputeRangeExpected does not depend on the clock.
func ComputeRangeExpected(rec punch.EmployeeRecord, start, end time.Time) int64 {
	return defaultCalculator.ComputeRangeExpected(rec, start, end)
}
