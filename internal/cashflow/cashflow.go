// Package cashflow assembles a monthly indirect-method cash-flow statement
// from a scenario's P&L projection, working-capital movements, and asset
// schedule, then scores the resulting series for risk.
package cashflow

import (
	"math"

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

// Assembler builds cash-flow projections.
type Assembler struct {
	cfg    *config.Config
	logger logging.Logger
}

// NewAssembler creates an Assembler.
func NewAssembler(cfg *config.Config, logger logging.Logger) *Assembler {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Assembler{cfg: cfg, logger: logger}
}

// Assemble builds the scenario's cash-flow statement. Operating cash flow is
// net income plus depreciation plus the working-capital movement; investing
// is capex less disposals; financing covers estimated debt service and owner
// draws. The three input series must share the same month ordering.
//
// openingBalance seeds the running cash balance; pass 0 to estimate it from
// the configured months of average expenses.
func (a *Assembler) Assemble(
	scenario models.ScenarioName,
	months []models.MonthlyProjection,
	workingCapital []models.WorkingCapitalMonth,
	assets []models.AssetMonth,
	avgMonthlyExpenses float64,
	openingBalance float64,
) *models.CashFlowProjection {
	cf := a.cfg.CashFlow
	opening := openingBalance
	if opening <= 0 {
		opening = avgMonthlyExpenses * cf.OpeningBalanceMonths
	}
	balance := opening

	out := &models.CashFlowProjection{
		Scenario:       scenario,
		OpeningBalance: opening,
		Months:         make([]models.CashFlowMonth, 0, len(months)),
	}

	for i, m := range months {
		cm := models.CashFlowMonth{
			Month:     m.Month,
			Date:      m.Date,
			NetIncome: m.NetIncome,
		}

		if i < len(assets) {
			cm.Depreciation = assets[i].Depreciation
			cm.Capex = assets[i].Additions
			cm.Disposals = assets[i].Disposals
		}
		if i < len(workingCapital) {
			cm.WorkingCapitalDelta = workingCapital[i].NetChange
		}

		cm.OperatingCashFlow = cm.NetIncome + cm.Depreciation + cm.WorkingCapitalDelta
		cm.InvestingCashFlow = cm.Disposals - cm.Capex

		cm.DebtService = m.Revenue * cf.DebtServicePct
		if m.NetIncome > 0 {
			cm.OwnerDraw = m.NetIncome * cf.OwnerDrawPct
		}
		cm.FinancingCashFlow = -cm.DebtService - cm.OwnerDraw

		cm.NetCashChange = cm.OperatingCashFlow + cm.InvestingCashFlow + cm.FinancingCashFlow
		balance += cm.NetCashChange
		cm.CashBalance = balance

		out.Months = append(out.Months, cm)
	}

	out.Risk = a.assessRisk(out, avgMonthlyExpenses)
	a.logger.WithFields(
		logging.Field{Key: logging.FieldScenario, Value: string(scenario)},
		logging.Field{Key: logging.FieldMonths, Value: len(out.Months)},
		logging.Field{Key: "endingBalance", Value: balance},
	).Info("Cash flow assembled")

	return out
}

// assessRisk scores the projection: net-change volatility, how many months
// of expenses the ending balance covers, negative months, and the single
// largest outflow.
func (a *Assembler) assessRisk(projection *models.CashFlowProjection, avgMonthlyExpenses float64) models.CashFlowRisk {
	risk := models.CashFlowRisk{}
	if len(projection.Months) == 0 {
		return risk
	}

	changes := make([]float64, len(projection.Months))
	for i, m := range projection.Months {
		changes[i] = m.NetCashChange
		if m.NetCashChange < 0 {
			risk.NegativeMonths++
		}
		if m.NetCashChange < risk.LargestOutflow {
			risk.LargestOutflow = m.NetCashChange
			risk.LargestOutflowWhen = m.Month
		}
	}

	risk.Volatility = models.StdDev(changes)
	if avgMonthlyExpenses > 0 {
		ending := projection.Months[len(projection.Months)-1].CashBalance
		risk.MonthsOfCushion = math.Max(ending/avgMonthlyExpenses, 0)
	}
	return risk
}
