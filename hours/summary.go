package hours

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/punchclock/punch"
)

// =============================================================================
// SUMMARY - Worked vs expected for a range
// =============================================================================

// Summary compares worked and expected time for one employee over a range.
type Summary struct {
	EmployeeID      string
	Name            string
	Range           Range
	WorkedSeconds   int64
	ExpectedSeconds int64
}

// BalanceSeconds is worked minus expected; negative means a shortfall.
func (s Summary) BalanceSeconds() int64 { return s.WorkedSeconds - s.ExpectedSeconds }

func (s Summary) WorkedHours() decimal.Decimal   { return ToHours(s.WorkedSeconds) }
func (s Summary) ExpectedHours() decimal.Decimal { return ToHours(s.ExpectedSeconds) }
func (s Summary) BalanceHours() decimal.Decimal  { return ToHours(s.BalanceSeconds()) }

// ToHours converts seconds to hours rounded to two places.
func ToHours(sec int64) decimal.Decimal {
	return decimal.NewFromInt(sec).Div(decimal.NewFromInt(3600)).Round(2)
}

// Summarize computes the summary for one employee.
func (c Calculator) Summarize(id string, rec punch.EmployeeRecord, r Range) Summary {
	return Summary{
		EmployeeID:      id,
		Name:            rec.Name,
		Range:           r,
		WorkedSeconds:   c.RangeWorked(rec, r),
		ExpectedSeconds: c.RangeExpected(rec, r),
	}
}

// SummarizeAll computes summaries for every employee in db, ordered by id.
func (c Calculator) SummarizeAll(db punch.Database, r Range) []Summary {
	ids := db.IDs()
	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.Summarize(id, db[id], r))
	}
	return out
}

// =============================================================================
// DAILY BREAKDOWN
// =============================================================================

// DayReport is one day of an employee's breakdown.
type DayReport struct {
	Day             punch.Day
	Pairs           []punch.Pair
	WorkedSeconds   int64
	ExpectedSeconds int64
}

// PairsText renders the day's pairs as "08:00-16:00; 17:00-".
func (d DayReport) PairsText() string {
	parts := make([]string, 0, len(d.Pairs))
	for _, p := range d.Pairs {
		parts = append(parts, p.In+"-"+p.Out)
	}
	return strings.Join(parts, "; ")
}

// Daily returns one DayReport per day in r.
func (c Calculator) Daily(rec punch.EmployeeRecord, r Range) []DayReport {
	days := r.Days()
	out := make([]DayReport, 0, len(days))
	for _, day := range days {
		pairs := rec.PairsOn(day)
		out = append(out, DayReport{
			Day:             day,
			Pairs:           pairs,
			WorkedSeconds:   c.SumPunchedSeconds(pairs),
			ExpectedSeconds: ExpectedSecondsForDay(day, len(pairs) > 0),
		})
	}
	return out
}

// CurrentWeek is Sunday of now's week through now's date.
func (c Calculator) CurrentWeek() Range {
	today := punch.DayOf(c.now())
	return Range{Start: today.StartOfWeek(), End: today}
}

// Clock returns the calculator's current instant.
func (c Calculator) Clock() time.Time { return c.now() }
