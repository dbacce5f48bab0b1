// Package workingcapital estimates balance-sheet behavior from P&L history.
// The input report carries no balance sheet, so receivables, payables,
// inventory, and the fixed-asset base are derived from revenue and expense
// run rates using days-outstanding assumptions, then rolled forward under a
// scenario's projected months.
package workingcapital

import (
	"strings"

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

// Estimator derives and projects working-capital and fixed-asset behavior.
type Estimator struct {
	cfg    *config.Config
	logger logging.Logger
}

// NewEstimator creates an Estimator.
func NewEstimator(cfg *config.Config, logger logging.Logger) *Estimator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Estimator{cfg: cfg, logger: logger}
}

// EstimateComponents derives current working-capital balances from the
// statement's average monthly run rates and the configured days-outstanding
// assumptions.
func (e *Estimator) EstimateComponents(stmt *models.ParsedStatement) models.WorkingCapitalComponents {
	wc := e.cfg.WorkingCapital
	avgRevenue := models.Mean(stmt.RevenueTotals)
	avgExpenses := models.Mean(stmt.ExpenseTotals)

	components := models.WorkingCapitalComponents{
		Receivables:      avgRevenue * wc.DaysSalesOutstanding / 30,
		Payables:         avgExpenses * wc.DaysPayablesOutstanding / 30,
		Inventory:        avgExpenses * wc.DaysInventoryOutstanding / 30,
		DaysSalesOut:     wc.DaysSalesOutstanding,
		DaysPayablesOut:  wc.DaysPayablesOutstanding,
		DaysInventoryOut: wc.DaysInventoryOutstanding,
		Collections: models.CollectionPattern{
			Immediate: wc.CollectImmediate,
			Next30:    wc.CollectNext30,
			Next60:    wc.CollectNext60,
		},
		Payments: models.CollectionPattern{
			Immediate: wc.PayImmediate,
			Next30:    wc.PayNext30,
			Next60:    wc.PayNext60,
		},
	}
	components.CashConversionDays = wc.DaysSalesOutstanding + wc.DaysInventoryOutstanding - wc.DaysPayablesOutstanding

	e.logger.WithFields(
		logging.Field{Key: "receivables", Value: components.Receivables},
		logging.Field{Key: "payables", Value: components.Payables},
		logging.Field{Key: "cashConversionDays", Value: components.CashConversionDays},
	).Debug("Working capital estimated")

	return components
}

// ProjectWorkingCapital rolls the balances forward month by month. Each
// month's new billings and expenses are split by the collection and payment
// patterns into a share settled immediately and shares carried 30 and 60
// days out; carried amounts come due on schedule and the ending balances
// roll forward. The scenario's collection efficiency scales what actually
// gets collected each month, with the shortfall slipping a month.
func (e *Estimator) ProjectWorkingCapital(
	components models.WorkingCapitalComponents,
	months []models.MonthlyProjection,
	assumptions models.GrowthAssumptions,
) []models.WorkingCapitalMonth {
	efficiency := assumptions.CollectionEfficiency
	if efficiency <= 0 {
		efficiency = 1
	}

	collect := components.Collections
	pay := components.Payments

	arDue30, arDue60 := splitOpeningBalance(components.Receivables, collect)
	apDue30, apDue60 := splitOpeningBalance(components.Payables, pay)

	prevAR := components.Receivables
	prevAP := components.Payables
	prevInv := components.Inventory

	out := make([]models.WorkingCapitalMonth, 0, len(months))
	for _, m := range months {
		billed := m.Revenue
		dueNow := billed*collect.Immediate + arDue30
		collected := dueNow * efficiency
		arDue30 = arDue60 + billed*collect.Next30 + (dueNow - collected)
		arDue60 = billed * collect.Next60
		ar := arDue30 + arDue60

		incurred := m.Expenses
		apDue30, apDue60 = apDue60+incurred*pay.Next30, incurred*pay.Next60
		ap := apDue30 + apDue60

		inv := m.Expenses * components.DaysInventoryOut / 30

		wm := models.WorkingCapitalMonth{
			Month:            m.Month,
			Date:             m.Date,
			Receivables:      ar,
			Payables:         ap,
			Inventory:        inv,
			ReceivableChange: ar - prevAR,
			PayableChange:    ap - prevAP,
			InventoryChange:  inv - prevInv,
		}
		// Growing AR and inventory consume cash; growing AP releases it.
		wm.NetChange = -wm.ReceivableChange - wm.InventoryChange + wm.PayableChange
		out = append(out, wm)

		prevAR, prevAP, prevInv = ar, ap, inv
	}
	return out
}

// splitOpeningBalance spreads an opening balance across the pattern's
// deferred buckets so the first projected months settle it on schedule. A
// fully-immediate pattern settles the whole balance in the first month.
func splitOpeningBalance(balance float64, pattern models.CollectionPattern) (due30, due60 float64) {
	deferred := pattern.Next30 + pattern.Next60
	if deferred <= 0 {
		return balance, 0
	}
	return balance * pattern.Next30 / deferred, balance * pattern.Next60 / deferred
}

// EstimateAssetBase derives the fixed-asset pool from the statement: the
// depreciation expense line sizes the pool when present, otherwise a
// configured share of revenue stands in.
func (e *Estimator) EstimateAssetBase(stmt *models.ParsedStatement) models.AssetCategory {
	ac := e.cfg.Assets
	monthlyDep := e.depreciationRunRate(stmt)

	// Back out the gross pool from the monthly charge and useful life.
	gross := monthlyDep * ac.DefaultUsefulLifeYears * 12

	return models.AssetCategory{
		Name:            "Property & Equipment",
		GrossValue:      gross,
		AccumulatedDep:  gross / 2, // assume the pool is half depreciated
		UsefulLifeYears: ac.DefaultUsefulLifeYears,
		Method:          models.DepreciationStraightLine,
	}
}

// depreciationRunRate finds an explicit depreciation or amortization expense
// line, falling back to a configured share of average revenue.
func (e *Estimator) depreciationRunRate(stmt *models.ParsedStatement) float64 {
	for _, line := range stmt.ExpenseLines {
		if line.Kind == models.LineKindSummary {
			continue
		}
		lower := strings.ToLower(line.Name)
		if strings.Contains(lower, "depreciation") || strings.Contains(lower, "amortization") {
			return models.Mean(line.Values())
		}
	}
	return models.Mean(stmt.RevenueTotals) * e.cfg.Assets.DepreciationPctOfRevenue
}

// ProjectAssets rolls the asset pool forward: each month adds growth-driven
// and base capex scaled by the scenario's capex aggressiveness, and charges
// straight-line depreciation on the growing gross pool.
func (e *Estimator) ProjectAssets(
	base models.AssetCategory,
	months []models.MonthlyProjection,
	assumptions models.GrowthAssumptions,
) []models.AssetMonth {
	ac := e.cfg.Assets
	aggressiveness := assumptions.CapexAggressiveness
	if aggressiveness <= 0 {
		aggressiveness = 1
	}

	gross := base.GrossValue
	accumulated := base.AccumulatedDep
	lifeMonths := base.UsefulLifeYears * 12

	out := make([]models.AssetMonth, 0, len(months))
	prevRevenue := 0.0
	if len(months) > 0 {
		prevRevenue = months[0].Revenue
	}

	for i, m := range months {
		baseCapex := m.Revenue * ac.BaseCapexPctOfRevenue
		growthCapex := 0.0
		if i > 0 && m.Revenue > prevRevenue {
			growthCapex = (m.Revenue - prevRevenue) * ac.GrowthCapexFactor
		}
		additions := (baseCapex + growthCapex) * aggressiveness
		gross += additions

		depreciation := 0.0
		if lifeMonths > 0 {
			depreciation = gross / lifeMonths
		}
		accumulated += depreciation

		out = append(out, models.AssetMonth{
			Month:        m.Month,
			Date:         m.Date,
			Additions:    additions,
			Depreciation: depreciation,
			GrossValue:   gross,
			NetValue:     gross - accumulated,
		})
		prevRevenue = m.Revenue
	}
	return out
}
