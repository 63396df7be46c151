// Package dates provides strict calendar-date parsing, formatting and
// inclusive range membership checks. All dates produced here are midnight
// values in the local time zone; arithmetic never crosses time zones.
package dates

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate indicates a date string that is not a valid YYYY-MM-DD date.
var ErrInvalidDate = errors.New("invalid date")

// Parse parses a strict YYYY-MM-DD string. Every field must consist of
// decimal digits only (Atoi would tolerate a leading sign), field widths are
// enforced, and field values are range-checked (month 1-12, day within the
// month), so a string like "2024-02-30" fails instead of rolling over into
// March.
func Parse(s string) (time.Time, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return time.Time{}, fmt.Errorf("%w: %q is not in YYYY-MM-DD form", ErrInvalidDate, s)
	}
	for _, part := range parts {
		if !allDigits(part) {
			return time.Time{}, fmt.Errorf("%w: %q contains a non-digit character", ErrInvalidDate, s)
		}
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: year %q is not numeric", ErrInvalidDate, parts[0])
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month %q is not numeric", ErrInvalidDate, parts[1])
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day %q is not numeric", ErrInvalidDate, parts[2])
	}

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d out of range", ErrInvalidDate, month)
	}
	if day < 1 || day > daysInMonth(year, time.Month(month)) {
		return time.Time{}, fmt.Errorf("%w: day %d out of range for %04d-%02d", ErrInvalidDate, day, year, month)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), nil
}

// Format renders a date as zero-padded YYYY-MM-DD. It round-trips with Parse
// for every date Parse accepts.
func Format(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// InRange reports whether date falls within [from, to], inclusive on both
// ends. A nil to means the range is open-ended into the future.
func InRange(date, from time.Time, to *time.Time) bool {
	if date.Before(from) {
		return false
	}
	if to != nil && date.After(*to) {
		return false
	}
	return true
}

// NextDay returns the calendar day after t.
func NextDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1)
}

// PrevDay returns the calendar day before t.
func PrevDay(t time.Time) time.Time {
	return t.AddDate(0, 0, -1)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
