// Package dateutils provides common date and month-label operations used
// throughout the application.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO        = "2006-01-02"
	DateLayoutYearMonth  = "2006-01"
	DateLayoutMonthLabel = "Jan 2006"
	DateLayoutMonthFull  = "January 2006"
)

// CommonFormats is a list of standard formats to try when parsing report
// column labels and period bounds.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutYearMonth,
	DateLayoutMonthLabel,
	DateLayoutMonthFull,
	"Jan-06",
	"Jan-2006",
	"01/2006",
	"2006/01",
}

// ParseMonthLabel attempts to parse a report column label such as "Jan 2024"
// or "2024-01" into the first day of that month. Returns the parsed time and
// the detected format.
func ParseMonthLabel(label string) (time.Time, string, error) {
	label = CleanLabel(label)

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, label); err == nil {
			return StartOfMonth(t), format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse month label: %s", label)
}

// FormatMonthLabel renders a date as the canonical "Jan 2006" column label.
func FormatMonthLabel(date time.Time) string {
	return date.Format(DateLayoutMonthLabel)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// CleanLabel removes unwanted characters and normalizes a label string
func CleanLabel(label string) string {
	label = strings.TrimSpace(label)

	re := regexp.MustCompile(`\s+`)
	label = re.ReplaceAllString(label, " ")

	return label
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last day of the month for a given date
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}

// AddMonths returns the first day of the month n months after the given date.
func AddMonths(date time.Time, n int) time.Time {
	return StartOfMonth(date).AddDate(0, n, 0)
}

// MonthsBetween returns the number of whole months from start to end,
// inclusive of both endpoints. Returns 0 when end precedes start.
func MonthsBetween(start, end time.Time) int {
	start = StartOfMonth(start)
	end = StartOfMonth(end)
	if end.Before(start) {
		return 0
	}
	years := end.Year() - start.Year()
	months := int(end.Month()) - int(start.Month())
	return years*12 + months + 1
}

// QuarterOf returns the calendar quarter (1-4) of a date.
func QuarterOf(date time.Time) int {
	return (int(date.Month())-1)/3 + 1
}
