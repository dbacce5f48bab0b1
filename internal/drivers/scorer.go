// Package drivers implements line-item scoring and driver selection: every
// non-summary line is scored on five independent dimensions, survivors are
// promoted to drivers, and each driver receives a forecast method through an
// ordered decision table.
package drivers

import (
	"math"

	"fjacquet/pnl-forecast/internal/config"
	"fjacquet/pnl-forecast/internal/logging"
	"fjacquet/pnl-forecast/internal/models"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// ScoreLines computes a LineItemAnalysis for every non-summary line with a
// non-trivial total. All five scores land in [0,1] for any input.
func ScoreLines(stmt *models.ParsedStatement, cfg *config.Config) []models.LineItemAnalysis {
	revenueTotal := math.Abs(stmt.TotalRevenue())
	expenseTotal := math.Abs(stmt.TotalExpenses())

	var analyses []models.LineItemAnalysis
	for _, line := range stmt.NonSummaryLines() {
		if line.Total == 0 {
			continue
		}

		categoryTotal := expenseTotal
		if line.Kind == models.LineKindRevenue {
			categoryTotal = revenueTotal
		}

		analyses = append(analyses, scoreLine(line, categoryTotal, stmt.RevenueTotals, cfg))
	}
	return analyses
}

func scoreLine(line models.NormalizedFinancialLine, categoryTotal float64, revenueTotals []float64, cfg *config.Config) models.LineItemAnalysis {
	values := line.Values()
	fit := models.FitOLS(values)
	cagr := models.CAGR(values, cfg.Discovery.MinGrowthMonths)

	a := models.LineItemAnalysis{
		Name:               line.Name,
		ExternalID:         line.ExternalID,
		Kind:               line.Kind,
		Values:             values,
		Total:              line.Total,
		Predictability:     models.Clamp(fit.R2, 0, 1),
		TrendSlope:         fit.Slope,
		AnnualGrowthRate:   cagr,
		RevenueCorrelation: models.Correlation(values, revenueTotals),
	}

	if categoryTotal != 0 {
		a.Materiality = models.Clamp(math.Abs(line.Total)/categoryTotal, 0, 1)
	}

	cov := models.CoefficientOfVariation(values)
	if cap := cfg.Discovery.VariabilityCap; cap > 0 {
		a.Variability = models.Clamp(cov/cap, 0, 1)
	}

	a.GrowthImpact = math.Min(math.Abs(cagr)*5, 1.0)

	if len(values) > 0 {
		a.DataQuality = float64(line.NonZeroMonths()) / float64(len(values))
	}

	return a
}

// CompositeScore combines the five scores with the configured weights.
func CompositeScore(a models.LineItemAnalysis, cfg *config.Config) float64 {
	w := cfg.Discovery.Weights
	return a.Materiality*w.Materiality +
		a.Variability*w.Variability +
		a.Predictability*w.Predictability +
		a.GrowthImpact*w.GrowthImpact +
		a.DataQuality*w.DataQuality
}
