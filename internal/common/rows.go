package common

import (
	"fmt"

	"fjacquet/pnl-forecast/internal/models"
)

// Flattened row shapes for CSV export. JSON output serializes the models
// directly; CSV needs one record per line-month or driver.

// StatementRow is one line-month observation of a normalized statement.
type StatementRow struct {
	Line  string  `csv:"line"`
	Kind  string  `csv:"kind"`
	Month string  `csv:"month"`
	Value float64 `csv:"value"`
}

// DriverRow is one discovered driver with its scores and assigned method.
type DriverRow struct {
	Name           string  `csv:"name"`
	Kind           string  `csv:"kind"`
	ImpactScore    float64 `csv:"impact_score"`
	Materiality    float64 `csv:"materiality"`
	Variability    float64 `csv:"variability"`
	Predictability float64 `csv:"predictability"`
	GrowthImpact   float64 `csv:"growth_impact"`
	DataQuality    float64 `csv:"data_quality"`
	Method         string  `csv:"method"`
	Confidence     string  `csv:"confidence"`
	Classification string  `csv:"classification"`
	Trend          string  `csv:"trend"`
}

// ProjectionRow is one projected month of one scenario.
type ProjectionRow struct {
	Scenario  string  `csv:"scenario"`
	Month     string  `csv:"month"`
	Revenue   float64 `csv:"revenue"`
	Expenses  float64 `csv:"expenses"`
	NetIncome float64 `csv:"net_income"`
	CashFlow  float64 `csv:"cash_flow"`
	BandLow   float64 `csv:"band_low"`
	BandHigh  float64 `csv:"band_high"`
}

// CashFlowRow is one month of an assembled cash-flow statement.
type CashFlowRow struct {
	Scenario          string  `csv:"scenario"`
	Month             string  `csv:"month"`
	NetIncome         float64 `csv:"net_income"`
	Depreciation      float64 `csv:"depreciation"`
	WorkingCapital    float64 `csv:"working_capital_delta"`
	OperatingCashFlow float64 `csv:"operating_cash_flow"`
	InvestingCashFlow float64 `csv:"investing_cash_flow"`
	FinancingCashFlow float64 `csv:"financing_cash_flow"`
	NetCashChange     float64 `csv:"net_cash_change"`
	CashBalance       float64 `csv:"cash_balance"`
}

// InsightRow is one ranked finding.
type InsightRow struct {
	Priority   string  `csv:"priority"`
	Type       string  `csv:"type"`
	Category   string  `csv:"category"`
	Message    string  `csv:"message"`
	Impact     float64 `csv:"impact"`
	Actionable bool    `csv:"actionable"`
}

// StatementRows flattens a statement into per-line-month records.
func StatementRows(stmt *models.ParsedStatement) []StatementRow {
	var rows []StatementRow
	for _, line := range stmt.NonSummaryLines() {
		for _, m := range line.Months {
			rows = append(rows, StatementRow{
				Line:  line.Name,
				Kind:  string(line.Kind),
				Month: m.Month,
				Value: m.Value,
			})
		}
	}
	return rows
}

// DriverRows flattens a discovery result.
func DriverRows(result *models.DiscoveryResult) []DriverRow {
	rows := make([]DriverRow, 0, len(result.Drivers))
	for _, d := range result.Drivers {
		rows = append(rows, DriverRow{
			Name:           d.Name,
			Kind:           string(d.Kind),
			ImpactScore:    d.ImpactScore,
			Materiality:    d.Materiality,
			Variability:    d.Variability,
			Predictability: d.Predictability,
			GrowthImpact:   d.GrowthImpact,
			DataQuality:    d.DataQuality,
			Method:         string(d.Method.Type),
			Confidence:     string(d.Confidence),
			Classification: d.Classification,
			Trend:          string(d.Trend),
		})
	}
	return rows
}

// ProjectionRows flattens a forecast result across its scenarios, in the
// canonical scenario order.
func ProjectionRows(result *models.ForecastResult) []ProjectionRow {
	var rows []ProjectionRow
	for _, name := range models.AllScenarios {
		sp, ok := result.Scenarios[name]
		if !ok {
			continue
		}
		for _, m := range sp.Months {
			rows = append(rows, ProjectionRow{
				Scenario:  string(name),
				Month:     m.Month,
				Revenue:   m.Revenue,
				Expenses:  m.Expenses,
				NetIncome: m.NetIncome,
				CashFlow:  m.CashFlow,
				BandLow:   m.Band.Low,
				BandHigh:  m.Band.High,
			})
		}
	}
	return rows
}

// CashFlowRows flattens per-scenario cash-flow projections in the canonical
// scenario order.
func CashFlowRows(flows map[models.ScenarioName]*models.CashFlowProjection) []CashFlowRow {
	var rows []CashFlowRow
	for _, name := range models.AllScenarios {
		flow, ok := flows[name]
		if !ok || flow == nil {
			continue
		}
		for _, m := range flow.Months {
			rows = append(rows, CashFlowRow{
				Scenario:          string(name),
				Month:             m.Month,
				NetIncome:         m.NetIncome,
				Depreciation:      m.Depreciation,
				WorkingCapital:    m.WorkingCapitalDelta,
				OperatingCashFlow: m.OperatingCashFlow,
				InvestingCashFlow: m.InvestingCashFlow,
				FinancingCashFlow: m.FinancingCashFlow,
				NetCashChange:     m.NetCashChange,
				CashBalance:       m.CashBalance,
			})
		}
	}
	return rows
}

// InsightRows flattens a ranked insight report.
func InsightRows(report *models.InsightReport) []InsightRow {
	rows := make([]InsightRow, 0, len(report.All))
	for _, ins := range report.All {
		rows = append(rows, InsightRow{
			Priority:   string(ins.Priority),
			Type:       string(ins.Type),
			Category:   ins.Category,
			Message:    ins.Message,
			Impact:     ins.Impact,
			Actionable: ins.Actionable,
		})
	}
	return rows
}

// OutputPath derives a default output file next to the input when none was
// given, swapping the extension for the format.
func OutputPath(inputFile, outputFile, format string) string {
	if outputFile != "" {
		return outputFile
	}
	base := inputFile
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			base = base[:i]
			break
		}
		if base[i] == '/' {
			break
		}
	}
	return fmt.Sprintf("%s.out.%s", base, format)
}
