package util

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD calendar date in UTC.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return t.UTC(), nil
}

// ParseDayDefault parses a day or returns the default when empty or invalid.
func ParseDayDefault(s string, def time.Time) time.Time {
	if s == "" {
		return def
	}
	if t, err := ParseDay(s); err == nil {
		return t
	}
	return def
}

// FormatDay renders a time as YYYY-MM-DD in UTC.
func FormatDay(t time.Time) string {
	return t.UTC().Format(dayLayout)
}
