package punch

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// DAY - Civil calendar date (the key of DailyPunches)
// =============================================================================

// DateLayout is the persisted day key format.
const DateLayout = "2006-01-02"

// Day is a calendar date with no time-of-day or zone. Internally it is
// midnight UTC of that date so that arithmetic never crosses a DST edge.
type Day struct {
	t time.Time
}

// NewDay builds a Day from its parts.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf returns the calendar date of t as seen in t's own location.
func DayOf(t time.Time) Day {
	return NewDay(t.Year(), t.Month(), t.Day())
}

// ParseDay parses a "YYYY-MM-DD" key.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Day{t: t}, nil
}

func (d Day) Before(o Day) bool        { return d.t.Before(o.t) }
func (d Day) BeforeOrEqual(o Day) bool { return !d.t.After(o.t) }

func (d Day) AddDays(n int) Day { return Day{t: d.t.AddDate(0, 0, n)} }

func (d Day) Weekday() time.Weekday { return d.t.Weekday() }
func (d Day) Key() string           { return d.t.Format(DateLayout) }
func (d Day) String() string        { return d.Key() }

// StartOfWeek returns the Sunday on or before d.
func (d Day) StartOfWeek() Day {
	return d.AddDays(-int(d.Weekday()))
}

// DaysBetween counts whole days from a to b (negative when b is before a).
func DaysBetween(a, b Day) int { return int((b.t.Unix() - a.t.Unix()) / 86400) }

// =============================================================================
// CLOCK HELPERS
// =============================================================================

// DateToKey formats t's local calendar date as "YYYY-MM-DD".
func DateToKey(t time.Time) string { return DayOf(t).Key() }

// NowAsHHMM formats the wall-clock time of now as "HH:MM".
func NowAsHHMM(now time.Time) string {
	return fmt.Sprintf("%02d:%02d", now.Hour(), now.Minute())
}

// ParseClock parses "HH:MM" into seconds after midnight.
// Hours are not capped at 23 so that stored late-night values still count.
func ParseClock(hhmm string) (int64, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, hhmm)
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, hhmm)
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, hhmm)
	}
	return int64(hours)*3600 + int64(minutes)*60, nil
}

// TimeToSeconds converts "HH:MM" to seconds after midnight.
// Empty or malformed input counts as 0.
func TimeToSeconds(hhmm string) int64 {
	if hhmm == "" {
		return 0
	}
	sec, err := ParseClock(hhmm)
	if err != nil {
		return 0
	}
	return sec
}

// SecondsToHHMM renders a duration as "HH:MM", clamping negatives to zero.
// Hours grow past two digits for long ranges.
func SecondsToHHMM(sec int64) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d", sec/3600, (sec%3600)/60)
}

// FormatSignedHHMM renders a balance, prefixing "-" when negative.
func FormatSignedHHMM(sec int64) string {
	if sec < 0 {
		return "-" + SecondsToHHMM(-sec)
	}
	return SecondsToHHMM(sec)
}
