package model

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar-day value (no time-of-day, no location). Deadlines and
// "due today" checks compare Date values directly instead of raw strings, so
// timezone and midnight edge cases are confined to the Clock that produced
// the value.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate accepts strict YYYY-MM-DD only. Anything else (wrong separators,
// missing zero padding, out-of-range days like 2024-02-30) is rejected.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	// time.Parse normalizes overflow (2024-02-30 -> 2024-03-01); round-trip to
	// catch it.
	if t.Format("2006-01-02") != s {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}, nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Before reports whether d is an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Clock supplies the wall-clock time for "due today" computations. Injected
// so tests (and anything else that cares about midnight behavior) can pin it.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Today is the clock's local calendar day, computed per call. A long-running
// process crossing midnight sees the new day on the next call.
func Today(clk Clock) Date {
	if clk == nil {
		clk = SystemClock{}
	}
	y, m, d := clk.Now().Date()
	return Date{Year: y, Month: m, Day: d}
}
