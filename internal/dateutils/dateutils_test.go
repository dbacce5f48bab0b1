package dateutils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/pnl-forecast/internal/dateutils"
)

func TestParseMonthLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  time.Time
	}{
		{name: "ISO date", label: "2024-03-15", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Year-month", label: "2024-03", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Short month label", label: "Mar 2024", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Full month label", label: "March 2024", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Hyphenated short year", label: "Mar-24", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Slash month-year", label: "03/2024", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Extra whitespace", label: "  Mar   2024 ", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := dateutils.ParseMonthLabel(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMonthLabelInvalid(t *testing.T) {
	for _, label := range []string{"", "Fiscal P3", "Q1 2024", "13/2024"} {
		_, _, err := dateutils.ParseMonthLabel(label)
		assert.Error(t, err, label)
	}
}

func TestFormatMonthLabel(t *testing.T) {
	assert.Equal(t, "Mar 2024", dateutils.FormatMonthLabel(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestToISODate(t *testing.T) {
	assert.Equal(t, "2024-03-15", dateutils.ToISODate(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
}

func TestCleanLabel(t *testing.T) {
	assert.Equal(t, "Jan 2024", dateutils.CleanLabel("  Jan   2024  "))
	assert.Equal(t, "", dateutils.CleanLabel("   "))
}

func TestStartAndEndOfMonth(t *testing.T) {
	d := time.Date(2024, 2, 17, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), dateutils.StartOfMonth(d))
	// 2024 is a leap year.
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), dateutils.EndOfMonth(d))
}

func TestAddMonths(t *testing.T) {
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), dateutils.AddMonths(jan, 3))
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), dateutils.AddMonths(jan, 12))
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), dateutils.AddMonths(jan, -1))
}

func TestMonthsBetween(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dec := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 12, dateutils.MonthsBetween(jan, dec))
	assert.Equal(t, 1, dateutils.MonthsBetween(jan, jan))
	assert.Equal(t, 13, dateutils.MonthsBetween(jan, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	// End before start collapses to zero.
	assert.Equal(t, 0, dateutils.MonthsBetween(dec, jan))
}

func TestQuarterOf(t *testing.T) {
	assert.Equal(t, 1, dateutils.QuarterOf(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, dateutils.QuarterOf(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 4, dateutils.QuarterOf(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)))
}
