package trends_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/pnl-forecast/internal/config"
	"fjacquet/pnl-forecast/internal/models"
	"fjacquet/pnl-forecast/internal/trends"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.InitializeConfig()
	require.NoError(t, err)
	return cfg
}

func statement(start time.Time, revenues, expenses []float64) *models.ParsedStatement {
	stmt := &models.ParsedStatement{
		StartPeriod:   start,
		RevenueTotals: revenues,
		ExpenseTotals: expenses,
	}
	for i := range revenues {
		d := start.AddDate(0, i, 0)
		stmt.MonthDates = append(stmt.MonthDates, d)
		stmt.MonthLabels = append(stmt.MonthLabels, d.Format("Jan 2006"))
		stmt.NetIncome = append(stmt.NetIncome, revenues[i]-expenses[i])
	}
	if len(revenues) > 0 {
		stmt.EndPeriod = stmt.MonthDates[len(revenues)-1]
	}
	return stmt
}

func jan2024() time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestAnalyzeSteadyGrowth(t *testing.T) {
	cfg := testConfig(t)
	// 2% month-over-month, low volatility, full year of history.
	revenues := make([]float64, 12)
	expenses := make([]float64, 12)
	v := 10000.0
	for i := range revenues {
		revenues[i] = v
		expenses[i] = 6000
		v *= 1.02
	}

	a := trends.Analyze(statement(jan2024(), revenues, expenses), cfg)

	assert.Equal(t, 12, a.MonthsOfData)
	assert.InDelta(t, 0.02, a.MonthlyGrowthRate, 1e-9)
	assert.InDelta(t, 0.2682, a.AnnualizedGrowthRate, 1e-3)
	// Low volatility and a full year: no damping applied.
	assert.InDelta(t, 0.02, a.RecommendedGrowthRate, 1e-9)
	assert.Equal(t, models.ConfidenceHigh, a.Confidence)

	assert.InDelta(t, 6000.0, a.AvgMonthlyExpenses, 1e-9)
	assert.Greater(t, a.AvgMonthlyRevenue, 10000.0)
	assert.Less(t, a.ExpenseRatio, 0.6)
}

func TestAnalyzeVolatileHistoryDampsGrowth(t *testing.T) {
	cfg := testConfig(t)
	revenues := []float64{1000, 5000, 800, 6000, 900, 7000, 1100, 5500, 950, 6500, 1000, 7000}
	expenses := make([]float64, 12)

	a := trends.Analyze(statement(jan2024(), revenues, expenses), cfg)

	assert.Greater(t, a.Volatility, cfg.Trends.HighVolatility)
	assert.Equal(t, models.ConfidenceLow, a.Confidence)
	// The raw mean growth would be enormous; damping plus the clamp keep
	// the recommended rate inside the configured bounds.
	assert.LessOrEqual(t, a.RecommendedGrowthRate, cfg.Trends.MaxMonthlyGrowth)
	assert.GreaterOrEqual(t, a.RecommendedGrowthRate, cfg.Trends.MinMonthlyGrowth)
}

func TestAnalyzeShortHistory(t *testing.T) {
	cfg := testConfig(t)
	a := trends.Analyze(statement(jan2024(), []float64{1000, 1100, 1210}, []float64{500, 500, 500}), cfg)

	assert.Equal(t, 3, a.MonthsOfData)
	// 10% monthly growth damped by the short-history factor.
	assert.InDelta(t, 0.10*cfg.Trends.ShortHistoryDamping, a.RecommendedGrowthRate, 1e-9)
	assert.Equal(t, models.ConfidenceLow, a.Confidence)
}

func TestAnalyzeSeasonalFactors(t *testing.T) {
	cfg := testConfig(t)
	// December doubles, everything else flat.
	revenues := make([]float64, 12)
	for i := range revenues {
		revenues[i] = 1000
	}
	revenues[11] = 2000

	a := trends.Analyze(statement(jan2024(), revenues, make([]float64, 12)), cfg)

	overall := 13000.0 / 12.0
	assert.InDelta(t, 2000.0/overall, a.SeasonalFactors[12], 1e-9)
	assert.InDelta(t, 1000.0/overall, a.SeasonalFactors[1], 1e-9)

	require.Len(t, a.PeakMonths, 3)
	assert.Equal(t, "Dec 2024", a.PeakMonths[0])
	require.Len(t, a.LowMonths, 3)

	assert.InDelta(t, 3000.0, a.QuarterlyRevenue[1], 1e-9)
	assert.InDelta(t, 4000.0, a.QuarterlyRevenue[4], 1e-9)
}

func TestAnalyzeZeroMonthSkippedInGrowth(t *testing.T) {
	cfg := testConfig(t)
	// The zero month would divide by zero; the transition is skipped.
	a := trends.Analyze(statement(jan2024(), []float64{1000, 0, 1000, 1100}, make([]float64, 4)), cfg)
	assert.False(t, a.MonthlyGrowthRate != a.MonthlyGrowthRate, "growth rate must not be NaN")
}

func TestAnalyzeEmptyStatement(t *testing.T) {
	cfg := testConfig(t)
	a := trends.Analyze(statement(jan2024(), nil, nil), cfg)

	assert.Equal(t, 0, a.MonthsOfData)
	assert.Equal(t, models.ConfidenceLow, a.Confidence)
	assert.Equal(t, 0.0, a.RecommendedGrowthRate)
}
