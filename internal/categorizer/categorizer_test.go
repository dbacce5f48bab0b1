package categorizer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/pnl-forecast/internal/config"
	"fjacquet/pnl-forecast/internal/logging"
	"fjacquet/pnl-forecast/internal/models"
	"fjacquet/pnl-forecast/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.InitializeConfig()
	require.NoError(t, err)
	return cfg
}

func newTestCategorizer(t *testing.T) *Categorizer {
	t.Helper()
	st := store.NewInflationStore(filepath.Join(t.TempDir(), "missing.yaml"))
	return NewCategorizer(testConfig(t), st, logging.NewMockLogger())
}

func makeLine(name string, values []float64) models.NormalizedFinancialLine {
	line := models.NormalizedFinancialLine{
		Name: name,
		Kind: models.LineKindExpense,
	}
	for i, v := range values {
		line.Months = append(line.Months, models.MonthlyValue{Month: "", Value: v})
		line.Total += values[i]
	}
	return line
}

func TestClassifyBehavior(t *testing.T) {
	c := newTestCategorizer(t)
	revenue := []float64{100, 200, 300, 400, 500, 600}

	tests := []struct {
		name     string
		values   []float64
		expected models.ExpenseBehavior
	}{
		{
			name: "revenue-tracking cost is variable",
			// Scales proportionally with revenue, correlation ~1.
			values:   []float64{10, 20, 30, 40, 50, 60},
			expected: models.BehaviorVariable,
		},
		{
			name:     "flat cost is fixed",
			values:   []float64{5000, 5000, 5050, 5000, 4950, 5000},
			expected: models.BehaviorFixed,
		},
		{
			name: "repeated large jumps are stepped",
			// Two month-to-month changes above 50%, no revenue link.
			values:   []float64{1000, 2500, 2400, 900, 950, 1000},
			expected: models.BehaviorStepped,
		},
		{
			name: "volatile without steps is seasonal",
			// Variability above the fixed threshold but every change under 50%.
			values:   []float64{1000, 1400, 1100, 1450, 1050, 1400},
			expected: models.BehaviorSeasonal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := c.CategorizeLine(makeLine("Test Expense", tt.values), revenue)
			assert.Equal(t, tt.expected, profile.Behavior)
		})
	}
}

func TestInflationKeywordMatching(t *testing.T) {
	c := newTestCategorizer(t)
	revenue := []float64{100, 100, 100, 100}
	flat := []float64{50, 50, 50, 50}

	tests := []struct {
		lineName string
		category string
		rate     float64
	}{
		{"Salaries & Wages", "labor", 0.04},
		{"Office Rent", "rent", 0.03},
		{"Electric Utilities", "utilities", 0.035},
		{"Liability Insurance", "insurance", 0.06},
	}

	for _, tt := range tests {
		t.Run(tt.lineName, func(t *testing.T) {
			profile := c.CategorizeLine(makeLine(tt.lineName, flat), revenue)
			assert.Equal(t, tt.category, profile.InflationCategory)
			assert.InDelta(t, tt.rate, profile.AnnualInflation, 1e-9)
		})
	}
}

func TestInflationFallbackRates(t *testing.T) {
	c := newTestCategorizer(t)
	revenue := []float64{100, 200, 300, 400, 500, 600}

	// No keyword match, variable behavior: variable fallback rate.
	variable := c.CategorizeLine(makeLine("Shipping Fees", []float64{10, 20, 30, 40, 50, 60}), revenue)
	assert.Equal(t, models.BehaviorVariable, variable.Behavior)
	assert.Equal(t, "variable", variable.InflationCategory)
	assert.InDelta(t, store.DefaultVariableRate, variable.AnnualInflation, 1e-9)

	// No keyword match, fixed behavior: general fallback rate.
	fixed := c.CategorizeLine(makeLine("Domain Registration", []float64{50, 50, 50, 50, 50, 50}), revenue)
	assert.Equal(t, models.BehaviorFixed, fixed.Behavior)
	assert.Equal(t, "general", fixed.InflationCategory)
	assert.InDelta(t, store.DefaultGeneralRate, fixed.AnnualInflation, 1e-9)
}

func TestDetectSeasonalPattern(t *testing.T) {
	c := newTestCategorizer(t)

	t.Run("flags peak months above the ratio", func(t *testing.T) {
		// Mean 1250, max 2000 > 1.5x mean; months above 1.3x mean flagged.
		pattern := c.detectSeasonalPattern([]float64{1000, 1000, 2000, 1000})
		require.NotNil(t, pattern)
		assert.Equal(t, []int{2}, pattern.PeakMonths)
		assert.InDelta(t, 1.6, pattern.Multiplier, 1e-9)
	})

	t.Run("no pattern for a flat series", func(t *testing.T) {
		assert.Nil(t, c.detectSeasonalPattern([]float64{1000, 1010, 990, 1000}))
	})

	t.Run("no pattern for a non-positive mean", func(t *testing.T) {
		assert.Nil(t, c.detectSeasonalPattern([]float64{0, 0, 0, 0}))
	})
}

func TestCategorizeExpensesSkipsSummaryLines(t *testing.T) {
	c := newTestCategorizer(t)
	stmt := &models.ParsedStatement{
		RevenueTotals: []float64{100, 100, 100},
		ExpenseLines: []models.NormalizedFinancialLine{
			makeLine("Rent", []float64{50, 50, 50}),
			{Name: "Total Expenses", Kind: models.LineKindSummary},
		},
	}

	profiles := c.CategorizeExpenses(stmt)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Rent", profiles[0].Name)
}

func TestNewCategorizerDefaultsWhenFileMissing(t *testing.T) {
	c := newTestCategorizer(t)
	assert.NotEmpty(t, c.categories)
	assert.InDelta(t, store.DefaultVariableRate, c.variableRate, 1e-9)
	assert.InDelta(t, store.DefaultGeneralRate, c.generalRate, 1e-9)
}
