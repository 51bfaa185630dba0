// Package period provides month-granularity time buckets used for capacity accounting.
package period

import (
	"fmt"
	"strings"
	"time"
)

// KeyLayout is the year-month layout used as the canonical period key.
const KeyLayout = "2006-01"

// Normalize returns the first instant of t's month in UTC.
func Normalize(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Key returns the "YYYY-MM" key of t's month.
func Key(t time.Time) string {
	return Normalize(t).Format(KeyLayout)
}

// Parse accepts "YYYY-MM", "YYYY-MM-DD" or RFC3339 and returns the normalized month.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{KeyLayout, time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return Normalize(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid period %q (expected YYYY-MM)", s)
}

// Add returns the month n months after t's month (n may be negative).
func Add(t time.Time, n int) time.Time {
	return Normalize(t).AddDate(0, n, 0)
}

// Next returns the first day of the month following t.
func Next(t time.Time) time.Time {
	return Add(t, 1)
}
