package finance

import (
	"strings"
	"time"
)

const (
	// YMLayout is the calendar-month key format
	YMLayout = "2006-01"
	// DateLayout is the format of day-precision dates such as inactive dates
	DateLayout = "2006-01-02"
)

// ParseYM parses a "YYYY-MM" key. A full "YYYY-MM-DD" date is accepted and
// truncated to its month.
func ParseYM(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) == len(DateLayout) {
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC), true
	}
	t, err := time.Parse(YMLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NormalizeDate returns s in canonical "YYYY-MM-DD" form
func NormalizeDate(s string) (string, bool) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return d.Format(DateLayout), true
}

// NormalizeYM returns s in canonical "YYYY-MM" form
func NormalizeYM(s string) (string, bool) {
	t, ok := ParseYM(s)
	if !ok {
		return "", false
	}
	return t.Format(YMLayout), true
}

// AddMonths advances ym by n calendar months, carrying into the year
func AddMonths(ym string, n int) (string, bool) {
	t, ok := ParseYM(ym)
	if !ok {
		return "", false
	}
	return t.AddDate(0, n, 0).Format(YMLayout), true
}

// MonthLabel renders ym for display, e.g. "Nov 2024"
func MonthLabel(ym string) string {
	t, ok := ParseYM(ym)
	if !ok {
		return ym
	}
	return t.Format("Jan 2006")
}

// Range is an inclusive calendar-month window. An empty or malformed bound is open.
type Range struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Contains reports whether the canonical month key ym falls inside r
func (r Range) Contains(ym string) bool {
	if start, ok := NormalizeYM(r.Start); ok && ym < start {
		return false
	}
	if end, ok := NormalizeYM(r.End); ok && ym > end {
		return false
	}
	return true
}

// projectMonthKeys maps each month position of a project to its calendar key.
// Positions outside r, or every position when the start month is malformed, map to "".
func projectMonthKeys(start string, n int, r Range) []string {
	keys := make([]string, n)
	t, ok := ParseYM(start)
	if !ok {
		return keys
	}
	for i := range keys {
		ym := t.AddDate(0, i, 0).Format(YMLayout)
		if r.Contains(ym) {
			keys[i] = ym
		}
	}
	return keys
}
