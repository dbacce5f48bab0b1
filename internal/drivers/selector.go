package drivers

import (
	"math"
	"sort"

	"fjacquet/pnl-forecast/internal/config"
	"fjacquet/pnl-forecast/internal/logging"
	"fjacquet/pnl-forecast/internal/models"

	"github.com/google/uuid"
)

// Discover scores every line of the statement, selects drivers by the
// configured thresholds, and assigns each driver a forecast method.
// Insufficient data yields a successful, empty driver list rather than an
// error — the caller decides whether that deserves a user-facing message.
func Discover(stmt *models.ParsedStatement, cfg *config.Config) *models.DiscoveryResult {
	analyses := ScoreLines(stmt, cfg)

	result := &models.DiscoveryResult{
		RunID:        uuid.New().String(),
		MonthsOfData: stmt.MonthCount(),
	}

	d := cfg.Discovery
	for _, a := range analyses {
		score := CompositeScore(a, cfg)
		selected := score > d.MinCompositeScore &&
			a.Materiality > d.MinMateriality &&
			a.DataQuality > d.MinDataQuality

		if !selected {
			if a.Materiality > d.MinMateriality {
				result.SecondaryItems = append(result.SecondaryItems, a)
			} else {
				result.ExcludedItems = append(result.ExcludedItems, a.Name)
			}
			continue
		}

		driver := models.DiscoveredDriver{
			LineItemAnalysis: a,
			ImpactScore:      score,
			Method:           AssignMethod(a, stmt.RevenueTotals, cfg),
			Confidence:       confidenceTier(a),
			Classification:   classify(a, cfg),
			Trend:            trendDirection(a),
		}
		result.Drivers = append(result.Drivers, driver)
	}

	// Descending by composite score; name breaks ties so runs are stable.
	sort.SliceStable(result.Drivers, func(i, j int) bool {
		if result.Drivers[i].ImpactScore != result.Drivers[j].ImpactScore {
			return result.Drivers[i].ImpactScore > result.Drivers[j].ImpactScore
		}
		return result.Drivers[i].Name < result.Drivers[j].Name
	})

	result.RevenueCoverage = coverage(result.Drivers, models.LineKindRevenue, stmt.TotalRevenue())
	result.ExpenseCoverage = coverage(result.Drivers, models.LineKindExpense, stmt.TotalExpenses())
	result.Coverage = math.Min((result.RevenueCoverage+result.ExpenseCoverage)/2, 1.0)
	result.Confidence = discoveryConfidence(result)

	log.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(result.Drivers)},
		logging.Field{Key: "coverage", Value: result.Coverage},
		logging.Field{Key: logging.FieldMonths, Value: result.MonthsOfData},
	).Info("Driver discovery completed")

	return result
}

// coverage is the share of a category's total explained by its drivers,
// capped at 100%.
func coverage(selected []models.DiscoveredDriver, kind models.LineKind, categoryTotal float64) float64 {
	if categoryTotal == 0 {
		return 0
	}
	covered := 0.0
	for _, d := range selected {
		if d.Kind == kind {
			covered += math.Abs(d.Total)
		}
	}
	return math.Min(covered/math.Abs(categoryTotal), 1.0)
}

// discoveryConfidence blends driver quality, coverage, and history depth
// into a single [0,1] score for the run.
func discoveryConfidence(result *models.DiscoveryResult) float64 {
	if len(result.Drivers) == 0 {
		return 0
	}
	avgScore := 0.0
	for _, d := range result.Drivers {
		avgScore += d.ImpactScore
	}
	avgScore /= float64(len(result.Drivers))

	history := math.Min(float64(result.MonthsOfData)/12.0, 1.0)
	return models.Clamp(avgScore*0.5+result.Coverage*0.3+history*0.2, 0, 1)
}

func confidenceTier(a models.LineItemAnalysis) models.ConfidenceTier {
	switch {
	case a.DataQuality >= 0.9 && a.Predictability >= 0.5:
		return models.ConfidenceHigh
	case a.DataQuality >= 0.5:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func classify(a models.LineItemAnalysis, cfg *config.Config) string {
	if a.Kind == models.LineKindRevenue {
		return "revenue_stream"
	}
	switch {
	case math.Abs(a.RevenueCorrelation) > cfg.Categorizer.VariableCorrelation:
		return "variable_cost"
	case a.Variability*cfg.Discovery.VariabilityCap < cfg.Categorizer.FixedVariability:
		return "fixed_cost"
	default:
		return "operating_cost"
	}
}

// trendDirection compares the OLS slope against 1% of the mean monthly value.
func trendDirection(a models.LineItemAnalysis) models.TrendDirection {
	mean := models.Mean(a.Values)
	threshold := math.Abs(mean) * 0.01
	switch {
	case a.TrendSlope > threshold:
		return models.TrendIncreasing
	case a.TrendSlope < -threshold:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}
