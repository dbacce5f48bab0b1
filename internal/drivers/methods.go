package drivers

import (
	"math"

	"fjacquet/pnl-forecast/internal/config"
	"fjacquet/pnl-forecast/internal/models"
)

// methodRule is one predicate→variant entry of the forecast-method decision
// table. Rules are evaluated top-down and the first match wins; the order is
// part of the contract, which is why this is a table and not nested
// conditionals.
type methodRule struct {
	name    string
	applies func(a models.LineItemAnalysis, cfg *config.Config) bool
	build   func(a models.LineItemAnalysis, revenueTotals []float64, cfg *config.Config) models.ForecastMethod
}

// methodRules is the ordered decision table for forecast-method assignment.
var methodRules = []methodRule{
	{
		name: "percentage_of_revenue",
		applies: func(a models.LineItemAnalysis, cfg *config.Config) bool {
			return a.RevenueCorrelation > cfg.Discovery.CorrelationThreshold
		},
		build: func(a models.LineItemAnalysis, revenueTotals []float64, cfg *config.Config) models.ForecastMethod {
			ratio := 0.0
			if total := sum(revenueTotals); total != 0 {
				ratio = a.Total / total
			}
			return models.ForecastMethod{
				Type:         models.MethodPercentageOfRevenue,
				Confidence:   math.Abs(a.RevenueCorrelation),
				RevenueRatio: ratio,
			}
		},
	},
	{
		name: "trend_extrapolation",
		applies: func(a models.LineItemAnalysis, cfg *config.Config) bool {
			return a.Predictability > cfg.Discovery.PredictabilityThreshold &&
				a.Variability < cfg.Discovery.StableVariability
		},
		build: func(a models.LineItemAnalysis, _ []float64, _ *config.Config) models.ForecastMethod {
			fit := models.FitOLS(a.Values)
			return models.ForecastMethod{
				Type:       models.MethodTrendExtrapolation,
				Confidence: a.Predictability,
				Slope:      fit.Slope,
				Intercept:  fit.Intercept,
			}
		},
	},
	{
		name: "scenario_range",
		applies: func(a models.LineItemAnalysis, cfg *config.Config) bool {
			return a.Variability > cfg.Discovery.VolatileVariability
		},
		build: func(a models.LineItemAnalysis, _ []float64, _ *config.Config) models.ForecastMethod {
			return models.ForecastMethod{
				Type:       models.MethodScenarioRange,
				Confidence: 0.5,
				RangeLow:   models.Percentile(a.Values, 25),
				RangeMid:   models.Percentile(a.Values, 50),
				RangeHigh:  models.Percentile(a.Values, 75),
			}
		},
	},
	{
		name: "seasonal_model",
		applies: func(a models.LineItemAnalysis, cfg *config.Config) bool {
			return hasSeasonalPattern(a.Values, cfg.Categorizer.SeasonalPeakRatio)
		},
		build: func(a models.LineItemAnalysis, _ []float64, _ *config.Config) models.ForecastMethod {
			return models.ForecastMethod{
				Type:            models.MethodSeasonalModel,
				Confidence:      a.DataQuality,
				SeasonalIndices: seasonalIndices(a.Values),
			}
		},
	},
	{
		name: "simple_growth",
		applies: func(models.LineItemAnalysis, *config.Config) bool {
			return true
		},
		build: func(a models.LineItemAnalysis, _ []float64, _ *config.Config) models.ForecastMethod {
			return models.ForecastMethod{
				Type:             models.MethodSimpleGrowth,
				Confidence:       a.DataQuality,
				AnnualGrowthRate: a.AnnualGrowthRate,
			}
		},
	},
}

// AssignMethod walks the decision table and returns the first matching
// forecast method for a scored line.
func AssignMethod(a models.LineItemAnalysis, revenueTotals []float64, cfg *config.Config) models.ForecastMethod {
	for _, rule := range methodRules {
		if rule.applies(a, cfg) {
			return rule.build(a, revenueTotals, cfg)
		}
	}
	// Unreachable: the last rule always applies.
	return models.ForecastMethod{Type: models.MethodSimpleGrowth}
}

// hasSeasonalPattern reports whether the series peaks far enough above its
// mean to justify a seasonal model.
func hasSeasonalPattern(values []float64, peakRatio float64) bool {
	mean := models.Mean(values)
	if mean <= 0 || len(values) < 12 {
		return false
	}
	max := values[0]
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max > peakRatio*mean
}

// seasonalIndices normalizes each month position against the series mean.
func seasonalIndices(values []float64) map[int]float64 {
	mean := models.Mean(values)
	indices := make(map[int]float64, len(values))
	if mean == 0 {
		return indices
	}
	for i, v := range values {
		indices[i%12] = v / mean
	}
	return indices
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
