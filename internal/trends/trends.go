// Package trends computes growth, volatility, and seasonality metrics over a
// normalized statement. Its recommended growth rate is the damped input that
// the scenario engine builds its assumption bundles from.
package trends

import (
	"sort"

	"fjacquet/pnl-forecast/internal/config"
	"fjacquet/pnl-forecast/internal/dateutils"
	"fjacquet/pnl-forecast/internal/models"
)

// Analysis is the full trend picture for one statement.
type Analysis struct {
	MonthsOfData          int                    `json:"monthsOfData"`
	MonthlyGrowthRate     float64                `json:"monthlyGrowthRate"`
	AnnualizedGrowthRate  float64                `json:"annualizedGrowthRate"`
	RecommendedGrowthRate float64                `json:"recommendedGrowthRate"`
	Volatility            float64                `json:"volatility"`
	SeasonalityScore      float64                `json:"seasonalityScore"`
	SeasonalFactors       map[int]float64        `json:"seasonalFactors"`
	QuarterlyRevenue      map[int]float64        `json:"quarterlyRevenue"`
	PeakMonths            []string               `json:"peakMonths"`
	LowMonths             []string               `json:"lowMonths"`
	AvgMonthlyRevenue     float64                `json:"avgMonthlyRevenue"`
	AvgMonthlyExpenses    float64                `json:"avgMonthlyExpenses"`
	ExpenseRatio          float64                `json:"expenseRatio"`
	Confidence            models.ConfidenceTier  `json:"confidence"`
}

// Analyze computes the trend metrics from a parsed statement.
func Analyze(stmt *models.ParsedStatement, cfg *config.Config) *Analysis {
	revenue := stmt.RevenueTotals
	months := len(revenue)

	a := &Analysis{
		MonthsOfData:     months,
		SeasonalFactors:  map[int]float64{},
		QuarterlyRevenue: map[int]float64{},
	}
	if months == 0 {
		a.Confidence = models.ConfidenceLow
		return a
	}

	a.MonthlyGrowthRate = meanGrowthRate(revenue)
	a.AnnualizedGrowthRate = annualize(a.MonthlyGrowthRate)
	a.Volatility = models.CoefficientOfVariation(revenue)

	// Seasonality score is revenue volatility capped at 1.
	a.SeasonalityScore = models.Clamp(a.Volatility, 0, 1)
	a.SeasonalFactors = seasonalFactors(stmt)
	a.QuarterlyRevenue = quarterlyRevenue(stmt)
	a.PeakMonths, a.LowMonths = extremeMonths(stmt, 3)

	a.AvgMonthlyRevenue = models.Mean(revenue)
	a.AvgMonthlyExpenses = models.Mean(stmt.ExpenseTotals)
	if a.AvgMonthlyRevenue != 0 {
		a.ExpenseRatio = a.AvgMonthlyExpenses / a.AvgMonthlyRevenue
	}

	a.RecommendedGrowthRate = dampGrowthRate(a.MonthlyGrowthRate, a.Volatility, months, cfg)
	a.Confidence = confidenceFor(a.Volatility, months, cfg)

	return a
}

// meanGrowthRate averages month-over-month growth, skipping transitions
// where the prior month is zero.
func meanGrowthRate(values []float64) float64 {
	var rates []float64
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			continue
		}
		rates = append(rates, (values[i]-values[i-1])/values[i-1])
	}
	return models.Mean(rates)
}

// annualize compounds a monthly rate over twelve months.
func annualize(monthly float64) float64 {
	compounded := 1.0
	for i := 0; i < 12; i++ {
		compounded *= 1 + monthly
	}
	return compounded - 1
}

// dampGrowthRate shrinks the raw growth rate when the history is volatile or
// short, then clamps it to the configured monthly bounds.
func dampGrowthRate(rate, volatility float64, months int, cfg *config.Config) float64 {
	t := cfg.Trends
	if volatility > t.HighVolatility {
		rate *= t.HighVolDamping
	} else if volatility > t.ModerateVolatility {
		rate *= t.ModerateVolDamping
	}
	if months < t.ShortHistoryMonths {
		rate *= t.ShortHistoryDamping
	}
	return models.Clamp(rate, t.MinMonthlyGrowth, t.MaxMonthlyGrowth)
}

func confidenceFor(volatility float64, months int, cfg *config.Config) models.ConfidenceTier {
	t := cfg.Trends
	switch {
	case volatility <= t.ModerateVolatility && months >= t.ShortHistoryMonths:
		return models.ConfidenceHigh
	case volatility <= t.HighVolatility && months >= t.ShortHistoryMonths:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// seasonalFactors averages revenue by calendar month and normalizes against
// the overall mean. Months unseen in the history default to 1.
func seasonalFactors(stmt *models.ParsedStatement) map[int]float64 {
	overall := models.Mean(stmt.RevenueTotals)
	factors := make(map[int]float64, 12)
	for m := 1; m <= 12; m++ {
		factors[m] = 1.0
	}
	if overall == 0 {
		return factors
	}

	sums := map[int]float64{}
	counts := map[int]int{}
	for i, date := range stmt.MonthDates {
		if i >= len(stmt.RevenueTotals) {
			break
		}
		m := int(date.Month())
		sums[m] += stmt.RevenueTotals[i]
		counts[m]++
	}
	for m, c := range counts {
		if c > 0 {
			factors[m] = (sums[m] / float64(c)) / overall
		}
	}
	return factors
}

// quarterlyRevenue groups revenue by calendar quarter.
func quarterlyRevenue(stmt *models.ParsedStatement) map[int]float64 {
	quarters := map[int]float64{}
	for i, date := range stmt.MonthDates {
		if i >= len(stmt.RevenueTotals) {
			break
		}
		quarters[dateutils.QuarterOf(date)] += stmt.RevenueTotals[i]
	}
	return quarters
}

// extremeMonths returns the top-n and bottom-n month labels by raw revenue.
func extremeMonths(stmt *models.ParsedStatement, n int) (peaks, lows []string) {
	type entry struct {
		label string
		value float64
	}
	entries := make([]entry, 0, len(stmt.MonthLabels))
	for i, label := range stmt.MonthLabels {
		if i < len(stmt.RevenueTotals) {
			entries = append(entries, entry{label, stmt.RevenueTotals[i]})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].value > entries[j].value
	})

	if n > len(entries) {
		n = len(entries)
	}
	for i := 0; i < n; i++ {
		peaks = append(peaks, entries[i].label)
	}
	for i := len(entries) - n; i < len(entries); i++ {
		lows = append(lows, entries[i].label)
	}
	return peaks, lows
}
