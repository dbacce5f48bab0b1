package normalizer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/pnl-forecast/internal/models"
	"fjacquet/pnl-forecast/internal/normalizer"
	"fjacquet/pnl-forecast/internal/report"
	"fjacquet/pnl-forecast/internal/reporterr"
)

func dataRow(name string, values ...string) report.Row {
	cells := []report.ColData{{Value: name}}
	for _, v := range values {
		cells = append(cells, report.ColData{Value: v})
	}
	return report.Row{Type: report.RowTypeData, ColData: cells}
}

// threeMonthReport builds a minimal report covering Jan-Mar 2024 with an
// Income and an Expenses section plus summary rows and a trailing total
// column.
func threeMonthReport() *report.Report {
	return &report.Report{
		Header: report.Header{
			ReportName:  "ProfitAndLoss",
			StartPeriod: "2024-01-01",
			EndPeriod:   "2024-03-31",
			ReportBasis: "Accrual",
			Currency:    "USD",
		},
		Columns: report.Columns{Column: []report.Column{
			{ColType: "Account", ColTitle: ""},
			{ColTitle: "Jan 2024"},
			{ColTitle: "Feb 2024"},
			{ColTitle: "Mar 2024"},
			{ColTitle: "Total", ColType: report.ColTypeTotal},
		}},
		Rows: report.Rows{Row: []report.Row{
			{
				Type:  report.RowTypeSection,
				Group: report.GroupIncome,
				Rows: &report.Rows{Row: []report.Row{
					dataRow("Product Sales", "1,000.00", "1,100.00", "1,200.00", "3,300.00"),
					dataRow("Services", "500.00", "500.00", "500.00", "1,500.00"),
				}},
				Summary: &report.DataRow{ColData: []report.ColData{
					{Value: "Total Income"}, {Value: "1,500.00"}, {Value: "1,600.00"}, {Value: "1,700.00"}, {Value: "4,800.00"},
				}},
			},
			{
				Type:  report.RowTypeSection,
				Group: report.GroupExpenses,
				Rows: &report.Rows{Row: []report.Row{
					dataRow("Rent", "800.00", "800.00", "800.00", "2,400.00"),
					dataRow("Refund Adjustments", "(50.00)", "", "-", "(50.00)"),
				}},
				Summary: &report.DataRow{ColData: []report.ColData{
					{Value: "Total Expenses"}, {Value: "750.00"}, {Value: "800.00"}, {Value: "800.00"}, {Value: "2,350.00"},
				}},
			},
		}},
	}
}

func TestNormalize(t *testing.T) {
	stmt, err := normalizer.Normalize(threeMonthReport())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), stmt.StartPeriod)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), stmt.EndPeriod)
	assert.Equal(t, "USD", stmt.Currency)
	assert.Equal(t, "Accrual", stmt.Basis)
	assert.Equal(t, []string{"Jan 2024", "Feb 2024", "Mar 2024"}, stmt.MonthLabels)

	// Two data lines plus the section summary per side.
	require.Len(t, stmt.RevenueLines, 3)
	require.Len(t, stmt.ExpenseLines, 3)
	assert.Equal(t, "Product Sales", stmt.RevenueLines[0].Name)
	assert.Equal(t, models.LineKindRevenue, stmt.RevenueLines[0].Kind)
	assert.Equal(t, models.LineKindSummary, stmt.RevenueLines[2].Kind)
	assert.InDelta(t, 3300.0, stmt.RevenueLines[0].Total, 1e-9)

	// Totals come from data rows only; summaries must not double count.
	assert.Equal(t, []float64{1500, 1600, 1700}, stmt.RevenueTotals)
	assert.Equal(t, []float64{750, 800, 800}, stmt.ExpenseTotals)
	assert.Equal(t, []float64{750, 800, 900}, stmt.NetIncome)
}

func TestNormalizeAccountingNegatives(t *testing.T) {
	stmt, err := normalizer.Normalize(threeMonthReport())
	require.NoError(t, err)

	refunds := stmt.ExpenseLines[1]
	assert.Equal(t, "Refund Adjustments", refunds.Name)
	assert.Equal(t, []float64{-50, 0, 0}, refunds.Values())
}

func TestNormalizeMissingHeader(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*report.Report)
		field  string
	}{
		{
			name:   "Missing start period",
			mutate: func(r *report.Report) { r.Header.StartPeriod = "" },
			field:  "StartPeriod",
		},
		{
			name:   "Missing end period",
			mutate: func(r *report.Report) { r.Header.EndPeriod = "  " },
			field:  "EndPeriod",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := threeMonthReport()
			tt.mutate(r)
			_, err := normalizer.Normalize(r)
			require.Error(t, err)
			var missing *reporterr.MissingHeaderError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.field, missing.Field)
		})
	}
}

func TestNormalizeNilReport(t *testing.T) {
	_, err := normalizer.Normalize(nil)
	var invalid *reporterr.InvalidShapeError
	require.ErrorAs(t, err, &invalid)
}

func TestNormalizeEmptyReportIsNotAnError(t *testing.T) {
	r := threeMonthReport()
	r.Rows = report.Rows{}

	stmt, err := normalizer.Normalize(r)
	require.NoError(t, err)
	assert.False(t, stmt.HasActivity())
	assert.Equal(t, 3, stmt.MonthCount())
	assert.Equal(t, []float64{0, 0, 0}, stmt.NetIncome)
}

func TestNormalizeUnparseableLabelFallsBackToOffset(t *testing.T) {
	r := threeMonthReport()
	r.Columns.Column[2].ColTitle = "Fiscal P2"

	stmt, err := normalizer.Normalize(r)
	require.NoError(t, err)
	require.Len(t, stmt.MonthDates, 3)
	// The broken label lands on the month offset from the start period.
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), stmt.MonthDates[1])
}

func TestNormalizeSectionInheritance(t *testing.T) {
	r := threeMonthReport()
	// A nested untagged section inherits the expense side, and a COGS
	// group maps onto expenses too.
	r.Rows.Row[1].Rows.Row = append(r.Rows.Row[1].Rows.Row, report.Row{
		Type: report.RowTypeSection,
		Rows: &report.Rows{Row: []report.Row{
			dataRow("Payroll Taxes", "100.00", "100.00", "100.00", "300.00"),
		}},
	})
	r.Rows.Row = append(r.Rows.Row, report.Row{
		Type:  report.RowTypeSection,
		Group: "COGS",
		Rows: &report.Rows{Row: []report.Row{
			dataRow("Materials", "200.00", "200.00", "200.00", "600.00"),
		}},
	})

	stmt, err := normalizer.Normalize(r)
	require.NoError(t, err)

	names := make([]string, 0)
	for _, l := range stmt.ExpenseLines {
		names = append(names, l.Name)
	}
	assert.Contains(t, names, "Payroll Taxes")
	assert.Contains(t, names, "Materials")
	assert.Equal(t, []float64{1050, 1100, 1100}, stmt.ExpenseTotals)
}

func TestNormalizeOtherIncomeGroup(t *testing.T) {
	r := threeMonthReport()
	r.Rows.Row = append(r.Rows.Row, report.Row{
		Type:  report.RowTypeSection,
		Group: "OtherIncome",
		Rows: &report.Rows{Row: []report.Row{
			dataRow("Interest Earned", "10.00", "10.00", "10.00", "30.00"),
		}},
	})

	stmt, err := normalizer.Normalize(r)
	require.NoError(t, err)
	assert.Equal(t, []float64{1510, 1610, 1710}, stmt.RevenueTotals)
}

func TestNormalizeDropsNamelessAndEmptyRows(t *testing.T) {
	r := threeMonthReport()
	r.Rows.Row[0].Rows.Row = append(r.Rows.Row[0].Rows.Row,
		dataRow("", "5.00", "5.00", "5.00", "15.00"),
		report.Row{Type: report.RowTypeData, ColData: []report.ColData{{Value: "Lonely"}}},
	)

	stmt, err := normalizer.Normalize(r)
	require.NoError(t, err)
	require.Len(t, stmt.RevenueLines, 3)
	assert.Equal(t, []float64{1500, 1600, 1700}, stmt.RevenueTotals)
}
