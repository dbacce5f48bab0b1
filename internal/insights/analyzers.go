// Package insights runs rule-based analyzers over a normalized statement and
// ranks their findings. Each analyzer is independent and returns zero or more
// findings; the engine scores, sorts, and buckets them into a report.
package insights

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"fjacquet/pnl-forecast/internal/config"
	"fjacquet/pnl-forecast/internal/logging"
	"fjacquet/pnl-forecast/internal/models"
)

var log = logging.GetLogger()

// SetLogger allows setting a custom logger
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// analyzer produces findings from one angle on the statement.
type analyzer func(stmt *models.ParsedStatement, cfg *config.Config) []models.Insight

// analyzers is the fixed set the engine runs, in no significant order.
var analyzers = []analyzer{
	analyzeDataQuality,
	analyzeExpenseAnomalies,
	analyzeGrowthTrend,
	analyzeMargins,
	analyzeRevenueConcentration,
}

// Analyze runs every analyzer, ranks the findings, and assembles the report.
func Analyze(stmt *models.ParsedStatement, cfg *config.Config) *models.InsightReport {
	var all []models.Insight
	for _, a := range analyzers {
		all = append(all, a(stmt, cfg)...)
	}

	for i := range all {
		all[i].ID = uuid.New().String()
		all[i].Score = scoreInsight(all[i])
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Score > all[j].Score
	})
	if len(all) > cfg.Insights.MaxInsights {
		all = all[:cfg.Insights.MaxInsights]
	}

	report := &models.InsightReport{
		RunID: uuid.New().String(),
		All:   all,
	}
	for _, ins := range all {
		switch {
		case ins.Priority == models.PriorityCritical:
			report.Critical = append(report.Critical, ins)
		case ins.Type == models.InsightWarning:
			report.Warnings = append(report.Warnings, ins)
		case ins.Type == models.InsightOpportunity:
			report.Opportunities = append(report.Opportunities, ins)
		}
		if ins.Category == CategoryDataQuality {
			report.DataQuality = append(report.DataQuality, ins)
		}
	}
	report.DataQualityScore = dataQualityScore(report.DataQuality)

	log.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(all)},
		logging.Field{Key: "dataQualityScore", Value: report.DataQualityScore},
	).Info("Insight analysis complete")

	return report
}

// Analyzer category names.
const (
	CategoryDataQuality   = "data_quality"
	CategoryAnomaly       = "anomaly"
	CategoryGrowth        = "growth"
	CategoryMargin        = "margin"
	CategoryConcentration = "concentration"
)

// analyzeDataQuality flags thin histories and gappy line items.
func analyzeDataQuality(stmt *models.ParsedStatement, cfg *config.Config) []models.Insight {
	var out []models.Insight
	months := stmt.MonthCount()

	if months < 6 {
		out = append(out, models.Insight{
			Type:     models.InsightWarning,
			Priority: models.PriorityHigh,
			Category: CategoryDataQuality,
			Message:  fmt.Sprintf("Only %d months of history available; forecasts will carry low confidence", months),
		})
	}

	for _, line := range stmt.NonSummaryLines() {
		if months == 0 || line.Total == 0 {
			continue
		}
		coverage := float64(line.NonZeroMonths()) / float64(months)
		if coverage < 0.5 {
			out = append(out, models.Insight{
				Type:     models.InsightInfo,
				Priority: models.PriorityLow,
				Category: CategoryDataQuality,
				Message:  fmt.Sprintf("%s has values in only %d of %d months", line.Name, line.NonZeroMonths(), months),
			})
		}
	}
	return out
}

// analyzeExpenseAnomalies z-scores each expense line's months against its own
// history. A month beyond the anomaly threshold is flagged; beyond the
// extreme threshold it escalates to critical.
func analyzeExpenseAnomalies(stmt *models.ParsedStatement, cfg *config.Config) []models.Insight {
	var out []models.Insight
	half := stmt.MonthCount() / 2

	for _, line := range stmt.ExpenseLines {
		if line.Kind == models.LineKindSummary {
			continue
		}
		values := line.Values()
		mean := models.Mean(values)
		sd := models.StdDev(values)
		if sd == 0 {
			continue
		}

		for i, v := range values {
			z := math.Abs(v-mean) / sd
			if z < cfg.Insights.AnomalyZScore {
				continue
			}

			ins := models.Insight{
				Type:       models.InsightWarning,
				Priority:   models.PriorityMedium,
				Category:   CategoryAnomaly,
				Impact:     math.Abs(v - mean),
				Actionable: true,
				Recent:     i >= half,
				Message: fmt.Sprintf("%s was %.0f in %s, %.1f standard deviations from its average of %.0f",
					line.Name, v, monthLabel(stmt, i), z, mean),
			}
			if z >= cfg.Insights.ExtremeZScore {
				ins.Priority = models.PriorityCritical
			}
			out = append(out, ins)
		}
	}
	return out
}

// analyzeGrowthTrend reads the direction of revenue across the history.
func analyzeGrowthTrend(stmt *models.ParsedStatement, cfg *config.Config) []models.Insight {
	revenue := stmt.RevenueTotals
	if len(revenue) < 3 {
		return nil
	}

	fit := models.FitOLS(revenue)
	mean := models.Mean(revenue)
	if mean == 0 {
		return nil
	}
	monthlyTrend := fit.Slope / mean

	switch {
	case monthlyTrend > 0.02:
		return []models.Insight{{
			Type:     models.InsightSuccess,
			Priority: models.PriorityMedium,
			Category: CategoryGrowth,
			Impact:   fit.Slope,
			Recent:   true,
			Message:  fmt.Sprintf("Revenue is trending up roughly %.1f%% per month", monthlyTrend*100),
		}}
	case monthlyTrend < -0.02:
		return []models.Insight{{
			Type:       models.InsightWarning,
			Priority:   models.PriorityHigh,
			Category:   CategoryGrowth,
			Impact:     math.Abs(fit.Slope),
			Actionable: true,
			Recent:     true,
			Message:    fmt.Sprintf("Revenue is declining roughly %.1f%% per month", math.Abs(monthlyTrend)*100),
		}}
	default:
		return nil
	}
}

// analyzeMargins compares the average net margin to the configured bands.
func analyzeMargins(stmt *models.ParsedStatement, cfg *config.Config) []models.Insight {
	totalRevenue := stmt.TotalRevenue()
	if totalRevenue <= 0 {
		return nil
	}
	margin := stmt.TotalNetIncome() / totalRevenue

	switch {
	case margin >= cfg.Insights.StrongMargin:
		return []models.Insight{{
			Type:     models.InsightSuccess,
			Priority: models.PriorityLow,
			Category: CategoryMargin,
			Impact:   margin,
			Message:  fmt.Sprintf("Net margin of %.0f%% is exceptionally strong", margin*100),
		}}
	case margin >= cfg.Insights.HealthyMargin:
		return []models.Insight{{
			Type:     models.InsightSuccess,
			Priority: models.PriorityLow,
			Category: CategoryMargin,
			Impact:   margin,
			Message:  fmt.Sprintf("Net margin of %.0f%% is healthy", margin*100),
		}}
	case margin < 0:
		return []models.Insight{{
			Type:       models.InsightWarning,
			Priority:   models.PriorityCritical,
			Category:   CategoryMargin,
			Impact:     math.Abs(margin),
			Actionable: true,
			Recent:     true,
			Message:    fmt.Sprintf("Operating at a net loss of %.0f%% of revenue", math.Abs(margin)*100),
		}}
	default:
		return []models.Insight{{
			Type:       models.InsightOpportunity,
			Priority:   models.PriorityMedium,
			Category:   CategoryMargin,
			Impact:     cfg.Insights.HealthyMargin - margin,
			Actionable: true,
			Message:    fmt.Sprintf("Net margin of %.0f%% is below the %.0f%% healthy threshold", margin*100, cfg.Insights.HealthyMargin*100),
		}}
	}
}

// analyzeRevenueConcentration flags dependence on the top two revenue lines.
func analyzeRevenueConcentration(stmt *models.ParsedStatement, cfg *config.Config) []models.Insight {
	var lines []models.NormalizedFinancialLine
	for _, l := range stmt.RevenueLines {
		if l.Kind != models.LineKindSummary && l.Total > 0 {
			lines = append(lines, l)
		}
	}
	if len(lines) < 3 {
		return nil
	}

	total := 0.0
	for _, l := range lines {
		total += l.Total
	}
	if total == 0 {
		return nil
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Total > lines[j].Total
	})
	topShare := (lines[0].Total + lines[1].Total) / total

	if topShare > cfg.Insights.ConcentrationThreshold {
		return []models.Insight{{
			Type:       models.InsightWarning,
			Priority:   models.PriorityHigh,
			Category:   CategoryConcentration,
			Impact:     topShare,
			Actionable: true,
			Message: fmt.Sprintf("%s and %s account for %.0f%% of revenue; a single customer shift carries outsized risk",
				lines[0].Name, lines[1].Name, topShare*100),
		}}
	}
	return nil
}

func monthLabel(stmt *models.ParsedStatement, i int) string {
	if i < len(stmt.MonthLabels) {
		return stmt.MonthLabels[i]
	}
	return fmt.Sprintf("month %d", i+1)
}
