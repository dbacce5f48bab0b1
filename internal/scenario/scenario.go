// Package scenario derives the three named assumption bundles (baseline,
// growth, downturn) from a trend analysis and projects aggregate monthly
// revenue, expenses, and net income under each bundle.
package scenario

import (
	"math"
	"time"

	"fjacquet/pnl-forecast/internal/config"
	"fjacquet/pnl-forecast/internal/dateutils"
	"fjacquet/pnl-forecast/internal/logging"
	"fjacquet/pnl-forecast/internal/models"
	"fjacquet/pnl-forecast/internal/trends"
)

var log = logging.GetLogger()

// SetLogger allows setting a custom logger
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// BuildAssumptions produces the three scenario bundles from one analysis.
// Downturn never assumes a higher growth rate than baseline, and growth
// never a lower one, so the scenarios stay ordered.
func BuildAssumptions(analysis *trends.Analysis, cfg *config.Config) map[models.ScenarioName]models.GrowthAssumptions {
	sc := cfg.Scenario
	base := analysis.RecommendedGrowthRate

	baseline := models.GrowthAssumptions{
		Scenario:             models.ScenarioBaseline,
		MonthlyGrowthRate:    base,
		AnnualInflation:      sc.BaselineInflation,
		SeasonalFactors:      copyFactors(analysis.SeasonalFactors),
		ExpenseRatio:         analysis.ExpenseRatio,
		FixedCostBase:        analysis.AvgMonthlyExpenses * fixedCostShare,
		GrowthSensitivity:    1.0,
		CollectionEfficiency: 1.0,
		CapexAggressiveness:  1.0,
	}

	growth := baseline
	growth.Scenario = models.ScenarioGrowth
	// Multiplying a negative base rate would invert the scenario ordering,
	// so growth never drops below baseline.
	growth.MonthlyGrowthRate = math.Max(base*sc.GrowthMultiplier, base)
	growth.SeasonalFactors = scaleFactors(analysis.SeasonalFactors, sc.GrowthSeasonalBoost)
	growth.ExpenseRatio = math.Max(analysis.ExpenseRatio-sc.GrowthExpenseImprove, 0)
	growth.GrowthSensitivity = 1.3
	growth.CapexAggressiveness = 1.5

	downturn := baseline
	downturn.Scenario = models.ScenarioDownturn
	downturn.MonthlyGrowthRate = math.Min(math.Min(base*sc.DownturnMultiplier, sc.DownturnGrowthFloor), base)
	downturn.SeasonalFactors = scaleFactors(analysis.SeasonalFactors, sc.DownturnSeasonalDamp)
	downturn.GrowthSensitivity = 0.7
	downturn.CollectionEfficiency = 0.85
	downturn.CapexAggressiveness = 0.5

	log.WithFields(
		logging.Field{Key: "baselineRate", Value: baseline.MonthlyGrowthRate},
		logging.Field{Key: "growthRate", Value: growth.MonthlyGrowthRate},
		logging.Field{Key: "downturnRate", Value: downturn.MonthlyGrowthRate},
	).Debug("Scenario assumptions built")

	return map[models.ScenarioName]models.GrowthAssumptions{
		models.ScenarioBaseline: baseline,
		models.ScenarioGrowth:   growth,
		models.ScenarioDownturn: downturn,
	}
}

// fixedCostShare is the portion of average monthly expenses treated as fixed
// when splitting the aggregate cost base.
const fixedCostShare = 0.4

// ProjectAggregate rolls revenue forward from the last historical month under
// one assumption bundle. Revenue compounds at the bundle's monthly rate and is
// shaped by the calendar-month seasonal factor; variable costs track revenue
// at the expense ratio and fixed costs inflate at the bundle's annual rate.
func ProjectAggregate(stmt *models.ParsedStatement, assumptions models.GrowthAssumptions, horizon int) []models.MonthlyProjection {
	lastRevenue := lastNonZero(stmt.RevenueTotals)
	lastDate := lastMonthDate(stmt)
	monthlyInflation := math.Pow(1+assumptions.AnnualInflation, 1.0/12) - 1

	variableRatio := models.Clamp(assumptions.ExpenseRatio, 0, 2) * (1 - fixedCostShare)

	projections := make([]models.MonthlyProjection, 0, horizon)
	level := lastRevenue
	for i := 1; i <= horizon; i++ {
		date := dateutils.AddMonths(lastDate, i)
		level *= 1 + assumptions.MonthlyGrowthRate

		seasonal := 1.0
		if f, ok := assumptions.SeasonalFactors[int(date.Month())]; ok && f > 0 {
			seasonal = f
		}

		revenue := level * seasonal
		variable := revenue * variableRatio
		fixed := assumptions.FixedCostBase * math.Pow(1+monthlyInflation, float64(i))
		expenses := variable + fixed

		projections = append(projections, models.MonthlyProjection{
			Month:     dateutils.FormatMonthLabel(date),
			Date:      date,
			Revenue:   revenue,
			Expenses:  expenses,
			NetIncome: revenue - expenses,
		})
	}
	return projections
}

// Summarize condenses a projected month series, including the first month
// with positive net income as the break-even month.
func Summarize(months []models.MonthlyProjection) models.ForecastSummary {
	var s models.ForecastSummary
	margins := 0.0
	counted := 0
	for _, m := range months {
		s.TotalRevenue += m.Revenue
		s.TotalExpenses += m.Expenses
		s.TotalNetIncome += m.NetIncome
		if m.Revenue != 0 {
			margins += m.NetIncome / m.Revenue
			counted++
		}
		if s.BreakEvenMonth == "" && m.NetIncome > 0 {
			s.BreakEvenMonth = m.Month
		}
	}
	if counted > 0 {
		s.AverageMargin = margins / float64(counted)
	}
	return s
}

func copyFactors(factors map[int]float64) map[int]float64 {
	out := make(map[int]float64, len(factors))
	for k, v := range factors {
		out[k] = v
	}
	return out
}

// scaleFactors amplifies or dampens the deviation of each factor from 1, so
// a flat seasonality stays flat under every scenario.
func scaleFactors(factors map[int]float64, scale float64) map[int]float64 {
	out := make(map[int]float64, len(factors))
	for k, v := range factors {
		out[k] = 1 + (v-1)*scale
	}
	return out
}

func lastNonZero(values []float64) float64 {
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] != 0 {
			return values[i]
		}
	}
	return 0
}

// lastMonthDate returns the date of the final historical month, falling back
// to the statement's end period when month dates are missing.
func lastMonthDate(stmt *models.ParsedStatement) time.Time {
	if n := len(stmt.MonthDates); n > 0 {
		return stmt.MonthDates[n-1]
	}
	return stmt.EndPeriod
}
