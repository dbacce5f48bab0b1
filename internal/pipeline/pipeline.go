// Package pipeline wires the full forecast flow together: load and normalize
// a report, analyze trends, discover drivers, project the three scenarios,
// roll working capital and assets forward, assemble cash flows, and run the
// insight engine.
//
// The pipeline does not own its memo cache; callers that want memoized runs
// pass one in and keep control of its size and invalidation.
package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"fjacquet/pnl-forecast/internal/cache"
	"fjacquet/pnl-forecast/internal/cashflow"
	"fjacquet/pnl-forecast/internal/categorizer"
	"fjacquet/pnl-forecast/internal/config"
	"fjacquet/pnl-forecast/internal/dateutils"
	"fjacquet/pnl-forecast/internal/drivers"
	"fjacquet/pnl-forecast/internal/insights"
	"fjacquet/pnl-forecast/internal/logging"
	"fjacquet/pnl-forecast/internal/models"
	"fjacquet/pnl-forecast/internal/normalizer"
	"fjacquet/pnl-forecast/internal/projector"
	"fjacquet/pnl-forecast/internal/report"
	"fjacquet/pnl-forecast/internal/reporterr"
	"fjacquet/pnl-forecast/internal/scenario"
	"fjacquet/pnl-forecast/internal/store"
	"fjacquet/pnl-forecast/internal/trends"
	"fjacquet/pnl-forecast/internal/workingcapital"
)

var log = logging.GetLogger()

// SetLogger allows setting a custom logger
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// ForecastBundle is everything one full forecast run produces, and the unit
// the memo cache stores.
type ForecastBundle struct {
	Statement *models.ParsedStatement                          `json:"statement"`
	Trends    *trends.Analysis                                 `json:"trends"`
	Discovery *models.DiscoveryResult                          `json:"discovery"`
	Forecast  *models.ForecastResult                           `json:"forecast"`
	CashFlows map[models.ScenarioName]*models.CashFlowProjection `json:"cashFlows"`
}

// Pipeline orchestrates the forecast flow.
type Pipeline struct {
	cfg     *config.Config
	logger  logging.Logger
	cache   cache.Cache[*ForecastBundle]
	opening float64
}

// New creates a Pipeline. The cache is optional; pass nil to disable
// memoization.
func New(cfg *config.Config, logger logging.Logger, memo cache.Cache[*ForecastBundle]) *Pipeline {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Pipeline{cfg: cfg, logger: logger, cache: memo}
}

// SetOpeningBalance supplies a known cash balance to seed the cash-flow
// statements. Without one the assembler estimates it from average expenses.
func (p *Pipeline) SetOpeningBalance(balance float64) {
	p.opening = balance
}

// Normalize loads a report file and normalizes it into monthly series.
func (p *Pipeline) Normalize(path string) (*models.ParsedStatement, error) {
	r, err := report.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading report: %w", err)
	}
	stmt, err := normalizer.Normalize(r)
	if err != nil {
		return nil, fmt.Errorf("normalizing report: %w", err)
	}
	return stmt, nil
}

// Discover scores the statement's lines and selects drivers.
func (p *Pipeline) Discover(stmt *models.ParsedStatement) (*models.DiscoveryResult, *trends.Analysis) {
	analysis := trends.Analyze(stmt, p.cfg)
	discovery := drivers.Discover(stmt, p.cfg)
	return discovery, analysis
}

// CategorizeExpenses profiles the statement's expense lines through the
// inflation-category database.
func (p *Pipeline) CategorizeExpenses(stmt *models.ParsedStatement) []models.ExpenseProfile {
	st := store.NewInflationStore(p.cfg.Categorizer.CategoriesFile)
	cat := categorizer.NewCategorizer(p.cfg, st, p.logger)
	return cat.CategorizeExpenses(stmt)
}

// Forecast runs the complete scenario forecast, memoizing on the statement's
// identity, horizon, and adjustments when a cache is attached.
func (p *Pipeline) Forecast(stmt *models.ParsedStatement, horizon int, adjustments []models.DriverAdjustment) (*ForecastBundle, error) {
	if horizon <= 0 {
		horizon = p.cfg.Projection.HorizonMonths
	}

	key := p.memoKey(stmt, horizon, adjustments)
	if p.cache != nil {
		if bundle, ok := p.cache.Get(key); ok {
			p.logger.WithField(logging.FieldComponent, "pipeline").Debug("Forecast served from cache")
			return bundle, nil
		}
	}

	analysis := trends.Analyze(stmt, p.cfg)
	discovery := drivers.Discover(stmt, p.cfg)
	if len(discovery.Drivers) == 0 {
		return nil, &reporterr.NoActivityError{Months: stmt.MonthCount()}
	}

	bundles := scenario.BuildAssumptions(analysis, p.cfg)
	proj := projector.NewProjector(p.cfg, p.logger)
	estimator := workingcapital.NewEstimator(p.cfg, p.logger)
	assembler := cashflow.NewAssembler(p.cfg, p.logger)

	components := estimator.EstimateComponents(stmt)
	assetBase := estimator.EstimateAssetBase(stmt)

	result := &models.ForecastResult{
		RunID:     uuid.New().String(),
		Horizon:   horizon,
		Scenarios: map[models.ScenarioName]*models.ScenarioProjection{},
		Drivers:   map[models.ScenarioName][]models.ProjectedDriver{},
		Compare:   map[models.ScenarioName]models.ForecastSummary{},
	}
	flows := map[models.ScenarioName]*models.CashFlowProjection{}

	for _, name := range models.AllScenarios {
		assumptions := bundles[name]
		projected, months := proj.Project(stmt, discovery.Drivers, assumptions, horizon, adjustments)

		wcMonths := estimator.ProjectWorkingCapital(components, months, assumptions)
		assetMonths := estimator.ProjectAssets(assetBase, months, assumptions)
		flow := assembler.Assemble(name, months, wcMonths, assetMonths, analysis.AvgMonthlyExpenses, p.opening)

		for i := range months {
			if i < len(flow.Months) {
				months[i].CashFlow = flow.Months[i].NetCashChange
			}
		}

		summary := scenario.Summarize(months)
		result.Scenarios[name] = &models.ScenarioProjection{
			Scenario:    name,
			Assumptions: assumptions,
			Months:      months,
			Summary:     summary,
			Confidence:  scenarioConfidence(projected, analysis.Confidence),
		}
		result.Drivers[name] = projected
		result.Compare[name] = summary
		flows[name] = flow
	}

	bundle := &ForecastBundle{
		Statement: stmt,
		Trends:    analysis,
		Discovery: discovery,
		Forecast:  result,
		CashFlows: flows,
	}
	if p.cache != nil {
		p.cache.Set(key, bundle)
	}

	p.logger.WithFields(
		logging.Field{Key: logging.FieldMonths, Value: horizon},
		logging.Field{Key: logging.FieldCount, Value: len(discovery.Drivers)},
	).Info("Forecast complete")

	return bundle, nil
}

// Insights runs the rule-based analyzers over the statement.
func (p *Pipeline) Insights(stmt *models.ParsedStatement) *models.InsightReport {
	return insights.Analyze(stmt, p.cfg)
}

// scenarioConfidence is the weakest of the trend confidence and the
// projected drivers' confidences.
func scenarioConfidence(projected []models.ProjectedDriver, trendTier models.ConfidenceTier) models.ConfidenceTier {
	rank := map[models.ConfidenceTier]int{
		models.ConfidenceHigh:   3,
		models.ConfidenceMedium: 2,
		models.ConfidenceLow:    1,
	}
	weakest := trendTier
	for _, pd := range projected {
		if rank[pd.Confidence] < rank[weakest] {
			weakest = pd.Confidence
		}
	}
	return weakest
}

// memoKey derives the cache key from the statement's identity and period,
// the horizon, the opening balance, and a digest of the adjustments.
func (p *Pipeline) memoKey(stmt *models.ParsedStatement, horizon int, adjustments []models.DriverAdjustment) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%d|%d|%f",
		dateutils.ToISODate(stmt.StartPeriod),
		dateutils.ToISODate(stmt.EndPeriod),
		stmt.Basis,
		stmt.MonthCount(),
		horizon,
		p.opening,
	)
	for _, line := range stmt.NonSummaryLines() {
		fmt.Fprintf(h, "|%s:%f", line.Name, line.Total)
	}
	if len(adjustments) > 0 {
		raw, err := yaml.Marshal(adjustments)
		if err == nil {
			h.Write(raw)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
