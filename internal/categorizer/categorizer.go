// Package categorizer classifies expense lines by cost behavior and assigns
// inflation assumptions using two methods:
// 1. Statistical classification from the line's own history (variability,
//    revenue correlation, step and seasonality detection)
// 2. Keyword matching of the account name against the inflation-category
//    database loaded from YAML
package categorizer

import (
	"strings"

	"fjacquet/pnl-forecast/internal/config"
	"fjacquet/pnl-forecast/internal/logging"
	"fjacquet/pnl-forecast/internal/models"
	"fjacquet/pnl-forecast/internal/store"
)

var log = logging.GetLogger()

// SetLogger allows setting a custom logger
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Categorizer classifies expense lines and owns the inflation keyword
// database.
type Categorizer struct {
	cfg          *config.Config
	categories   []models.InflationCategory
	variableRate float64
	generalRate  float64
	logger       logging.Logger
}

// NewCategorizer creates a Categorizer, loading the inflation-category
// database from the given store.
func NewCategorizer(cfg *config.Config, st *store.InflationStore, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.GetLogger()
	}

	c := &Categorizer{
		cfg:          cfg,
		variableRate: store.DefaultVariableRate,
		generalRate:  store.DefaultGeneralRate,
		logger:       logger,
	}

	categories, variableRate, generalRate, err := st.LoadCategories()
	if err != nil {
		c.logger.WithError(err).Warn("Failed to load inflation categories, using defaults")
		c.categories = store.DefaultCategories()
	} else {
		c.categories = categories
		c.variableRate = variableRate
		c.generalRate = generalRate
	}

	return c
}

// CategorizeExpenses profiles every non-summary expense line of a statement.
func (c *Categorizer) CategorizeExpenses(stmt *models.ParsedStatement) []models.ExpenseProfile {
	profiles := make([]models.ExpenseProfile, 0, len(stmt.ExpenseLines))
	for _, line := range stmt.ExpenseLines {
		if line.Kind == models.LineKindSummary {
			continue
		}
		profiles = append(profiles, c.CategorizeLine(line, stmt.RevenueTotals))
	}
	return profiles
}

// CategorizeLine profiles a single expense line.
func (c *Categorizer) CategorizeLine(line models.NormalizedFinancialLine, revenueTotals []float64) models.ExpenseProfile {
	values := line.Values()
	variability := models.CoefficientOfVariation(values)
	correlation := models.Correlation(values, revenueTotals)

	profile := models.ExpenseProfile{
		Name:               line.Name,
		Variability:        variability,
		RevenueCorrelation: correlation,
		MonthlyAverage:     models.Mean(values),
	}

	profile.Behavior = c.classifyBehavior(values, variability, correlation)
	profile.Seasonal = c.detectSeasonalPattern(values)
	profile.InflationCategory, profile.AnnualInflation = c.inflationFor(line.Name, profile.Behavior)

	c.logger.WithFields(
		logging.Field{Key: logging.FieldLineItem, Value: line.Name},
		logging.Field{Key: "behavior", Value: string(profile.Behavior)},
		logging.Field{Key: logging.FieldCategory, Value: profile.InflationCategory},
	).Debug("Expense line categorized")

	return profile
}

// classifyBehavior applies the cost-behavior rules in order: variable wins
// on revenue correlation, fixed on low variability, stepped on repeated
// large month-to-month changes, seasonal otherwise.
func (c *Categorizer) classifyBehavior(values []float64, variability, correlation float64) models.ExpenseBehavior {
	cz := c.cfg.Categorizer
	switch {
	case abs(correlation) > cz.VariableCorrelation:
		return models.BehaviorVariable
	case variability < cz.FixedVariability:
		return models.BehaviorFixed
	case c.isStepped(values):
		return models.BehaviorStepped
	default:
		return models.BehaviorSeasonal
	}
}

// isStepped looks for at least the configured number of month-to-month
// changes exceeding the step ratio.
func (c *Categorizer) isStepped(values []float64) bool {
	cz := c.cfg.Categorizer
	steps := 0
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 {
			continue
		}
		change := abs(values[i]-prev) / abs(prev)
		if change > cz.StepChangeRatio {
			steps++
		}
	}
	return steps >= cz.StepMinOccurrences
}

// detectSeasonalPattern flags peak months when the maximum monthly value
// exceeds the configured multiple of the mean.
func (c *Categorizer) detectSeasonalPattern(values []float64) *models.SeasonalPattern {
	cz := c.cfg.Categorizer
	mean := models.Mean(values)
	if mean <= 0 {
		return nil
	}

	max := values[0]
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	if max <= cz.SeasonalPeakRatio*mean {
		return nil
	}

	var peaks []int
	for i, v := range values {
		if v > cz.SeasonalFlagRatio*mean {
			peaks = append(peaks, i)
		}
	}

	return &models.SeasonalPattern{
		PeakMonths: peaks,
		Multiplier: max / mean,
	}
}

// inflationFor keyword-matches the account name against the category
// database, falling back to the variable or general rate by behavior.
func (c *Categorizer) inflationFor(name string, behavior models.ExpenseBehavior) (string, float64) {
	lower := strings.ToLower(name)
	for _, cat := range c.categories {
		for _, keyword := range cat.Keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				return cat.Name, cat.AnnualRate
			}
		}
	}

	if behavior == models.BehaviorVariable {
		return "variable", c.variableRate
	}
	return "general", c.generalRate
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
