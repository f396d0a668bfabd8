/*
Package dates provides calendar-day and calendar-month values.

PURPOSE:
  Every schedule and billing record in the console is keyed by a plain
  calendar day ("2025-08-14") or month ("2025-08"), with no time zone and
  no clock component. Day and Month are string-backed so that ordering,
  range checks, and month membership are exact lexicographic operations,
  which is the contract the roster and billing engines rely on.

KEY TYPES:
  Day:   ISO calendar day, yyyy-mm-dd
  Month: ISO calendar month, yyyy-mm
  Week:  Seven consecutive days starting on a Monday

SEE ALSO:
  - roster: week windows, availability intervals
  - billing: month bucketing of invoice items
*/
package dates

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is an ISO calendar day (yyyy-mm-dd). The zero value is "no day".
// Comparison operators on the underlying string give calendar ordering.
type Day string

// Month is an ISO calendar month (yyyy-mm).
type Month string

// DayOf truncates a wall-clock time to its calendar day.
func DayOf(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

// Today returns the current calendar day.
func Today() Day {
	return DayOf(time.Now())
}

// ParseDay validates a yyyy-mm-dd string.
func ParseDay(s string) (Day, error) {
	if _, err := time.Parse(dayLayout, s); err != nil {
		return "", fmt.Errorf("invalid day %q: %w", s, err)
	}
	return Day(s), nil
}

func (d Day) IsZero() bool { return d == "" }

func (d Day) String() string { return string(d) }

// Time returns the day at midnight UTC. Zero days map to the zero time.
func (d Day) Time() time.Time {
	t, err := time.Parse(dayLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays shifts the day by n calendar days.
func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

// Before/After/Between compare at day granularity.
func (d Day) Before(o Day) bool { return d < o }
func (d Day) After(o Day) bool  { return d > o }

// Between reports from <= d <= to, both ends inclusive.
func (d Day) Between(from, to Day) bool { return from <= d && d <= to }

// Month returns the month the day falls in.
func (d Day) Month() Month {
	if len(d) < 7 {
		return ""
	}
	return Month(d[:7])
}

// Weekday returns the day of week.
func (d Day) Weekday() time.Weekday { return d.Time().Weekday() }

// MonthOf truncates a wall-clock time to its calendar month.
func MonthOf(t time.Time) Month {
	return Month(t.Format("2006-01"))
}

// ThisMonth returns the current calendar month.
func ThisMonth() Month { return MonthOf(time.Now()) }

// Contains reports whether the day falls in the month. Matching is done
// on the yyyy-mm prefix, so a zero day never matches.
func (m Month) Contains(d Day) bool { return m != "" && d.Month() == m }

func (m Month) String() string { return string(m) }

// Day returns the given day-of-month within m, zero padded.
func (m Month) Day(day int) Day {
	return Day(fmt.Sprintf("%s-%02d", m, day))
}

// Week is a seven-day planning window in display order.
type Week [7]Day

// WeekOf returns the Monday-aligned week containing d.
func WeekOf(d Day) Week {
	t := d.Time()
	shift := (int(t.Weekday()) + 6) % 7 // Monday = 0
	monday := DayOf(t.AddDate(0, 0, -shift))

	var w Week
	for i := range w {
		w[i] = monday.AddDays(i)
	}
	return w
}

// ThisWeek returns the week containing today.
func ThisWeek() Week { return WeekOf(Today()) }

// Start returns the Monday of the week.
func (w Week) Start() Day { return w[0] }

// Days returns the week as a slice in display order.
func (w Week) Days() []Day { return w[:] }

// Index returns the zero-based position of d within the week, or -1.
// The position feeds the round-robin phase in roster auto-planning.
func (w Week) Index(d Day) int {
	for i, day := range w {
		if day == d {
			return i
		}
	}
	return -1
}

// Contains reports whether d falls inside the week window.
func (w Week) Contains(d Day) bool { return w.Index(d) >= 0 }

// Next returns the following week.
func (w Week) Next() Week { return WeekOf(w[0].AddDays(7)) }

// Prev returns the preceding week.
func (w Week) Prev() Week { return WeekOf(w[0].AddDays(-7)) }
