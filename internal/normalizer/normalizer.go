// Package normalizer flattens a hierarchical profit-and-loss report into
// per-line monthly time series plus aggregate totals.
//
// The walk is tolerant by design: rows without values are dropped silently,
// unparseable cells normalize to zero, and a report with no extractable lines
// still produces a valid, empty ParsedStatement. Only a structurally invalid
// report (missing period bounds) is an error.
package normalizer

import (
	"strings"
	"time"

	"fjacquet/pnl-forecast/internal/dateutils"
	"fjacquet/pnl-forecast/internal/logging"
	"fjacquet/pnl-forecast/internal/models"
	"fjacquet/pnl-forecast/internal/report"
	"fjacquet/pnl-forecast/internal/reporterr"

	"github.com/shopspring/decimal"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// section is the walker's notion of which side of the statement it is on.
type section int

const (
	sectionNone section = iota
	sectionRevenue
	sectionExpense
)

// Normalize converts a source report into a ParsedStatement.
func Normalize(r *report.Report) (*models.ParsedStatement, error) {
	if r == nil {
		return nil, &reporterr.InvalidShapeError{Section: "root", Reason: "report is nil"}
	}
	if strings.TrimSpace(r.Header.StartPeriod) == "" {
		return nil, &reporterr.MissingHeaderError{Field: "StartPeriod"}
	}
	if strings.TrimSpace(r.Header.EndPeriod) == "" {
		return nil, &reporterr.MissingHeaderError{Field: "EndPeriod"}
	}

	start, _, err := dateutils.ParseMonthLabel(r.Header.StartPeriod)
	if err != nil {
		return nil, &reporterr.InvalidShapeError{Section: "header", Reason: "unparseable StartPeriod"}
	}
	end, _, err := dateutils.ParseMonthLabel(r.Header.EndPeriod)
	if err != nil {
		return nil, &reporterr.InvalidShapeError{Section: "header", Reason: "unparseable EndPeriod"}
	}

	labels, dates := monthColumns(r, start)

	w := &walker{
		labels: labels,
		dates:  dates,
	}
	w.walk(&r.Rows, sectionNone, 0)

	stmt := &models.ParsedStatement{
		StartPeriod:  start,
		EndPeriod:    end,
		Currency:     r.Header.Currency,
		Basis:        r.Header.ReportBasis,
		MonthLabels:  labels,
		MonthDates:   dates,
		RevenueLines: w.revenue,
		ExpenseLines: w.expense,
	}

	stmt.RevenueTotals = monthlyTotals(w.revenue, len(labels))
	stmt.ExpenseTotals = monthlyTotals(w.expense, len(labels))
	stmt.NetIncome = make([]float64, len(labels))
	for i := range stmt.NetIncome {
		stmt.NetIncome[i] = stmt.RevenueTotals[i] - stmt.ExpenseTotals[i]
	}

	if !stmt.HasActivity() {
		log.WithField(logging.FieldReason, "no extractable lines").
			Warn("Report normalized to an empty statement")
	} else {
		log.WithFields(
			logging.Field{Key: "revenue_lines", Value: len(w.revenue)},
			logging.Field{Key: "expense_lines", Value: len(w.expense)},
			logging.Field{Key: logging.FieldMonths, Value: len(labels)},
		).Debug("Report normalized")
	}

	return stmt, nil
}

// monthColumns extracts the month labels and their calendar dates, excluding
// the leading account column and the trailing Total column. Labels that fail
// to parse fall back to offsets from the report start period.
func monthColumns(r *report.Report, start time.Time) ([]string, []time.Time) {
	var labels []string
	var dates []time.Time

	monthIdx := 0
	for i, col := range r.Columns.Column {
		if i == 0 && col.ColType != "" && col.ColType != report.ColTypeTotal && col.ColTitle == "" {
			// leading account-name column
			continue
		}
		if col.ColType == report.ColTypeTotal ||
			strings.EqualFold(col.ColTitle, "total") {
			continue
		}
		label := dateutils.CleanLabel(col.ColTitle)
		if label == "" {
			continue
		}
		date, _, err := dateutils.ParseMonthLabel(label)
		if err != nil {
			date = dateutils.AddMonths(start, monthIdx)
		}
		labels = append(labels, label)
		dates = append(dates, date)
		monthIdx++
	}

	return labels, dates
}

type walker struct {
	labels  []string
	dates   []time.Time
	revenue []models.NormalizedFinancialLine
	expense []models.NormalizedFinancialLine
}

// walk traverses the row tree depth-first, tracking the current section.
func (w *walker) walk(rows *report.Rows, current section, level int) {
	if rows == nil {
		return
	}
	for _, row := range rows.Row {
		sec := sectionForGroup(row.Group, current)

		if row.Type == report.RowTypeData || len(row.ColData) > 0 {
			w.addDataRow(row.ColData, sec, level, models.LineKind(""))
		}

		if row.Rows != nil {
			w.walk(row.Rows, sec, level+1)
		}

		// Section subtotals are kept but tagged so aggregation skips them.
		if row.Summary != nil {
			w.addDataRow(row.Summary.ColData, sec, level, models.LineKindSummary)
		}
	}
}

// sectionForGroup maps a row group tag onto the revenue/expense section,
// keeping the inherited section when the tag is absent or unknown.
func sectionForGroup(group string, current section) section {
	switch {
	case group == "":
		return current
	case strings.Contains(group, "Income"):
		return sectionRevenue
	case strings.Contains(group, "Expense"),
		group == "COGS",
		group == report.GroupExpenses:
		return sectionExpense
	default:
		return current
	}
}

// addDataRow zips a row's cells against the month columns. Rows with no
// values are dropped silently.
func (w *walker) addDataRow(cells []report.ColData, sec section, level int, forceKind models.LineKind) {
	if len(cells) < 2 || sec == sectionNone {
		return
	}

	name := strings.TrimSpace(cells[0].Value)
	if name == "" {
		return
	}

	months := make([]models.MonthlyValue, 0, len(w.labels))
	total := decimal.Zero
	for i := 0; i < len(w.labels) && i+1 < len(cells); i++ {
		d := models.ParseMonetary(cells[i+1].Value)
		total = total.Add(d)
		value, _ := d.Float64()
		months = append(months, models.MonthlyValue{
			Month: w.labels[i],
			Value: value,
			Date:  w.dates[i],
		})
	}
	if len(months) == 0 {
		return
	}

	kind := forceKind
	if kind == "" {
		if sec == sectionRevenue {
			kind = models.LineKindRevenue
		} else {
			kind = models.LineKindExpense
		}
	}

	totalF, _ := total.Float64()
	line := models.NormalizedFinancialLine{
		Name:       name,
		ExternalID: cells[0].ID,
		Months:     months,
		Total:      totalF,
		Level:      level,
		Kind:       kind,
	}

	if sec == sectionRevenue {
		w.revenue = append(w.revenue, line)
	} else {
		w.expense = append(w.expense, line)
	}
}

// monthlyTotals sums only non-summary lines per month index. This is the
// mechanism that keeps subtotal rows from double counting.
func monthlyTotals(lines []models.NormalizedFinancialLine, monthCount int) []float64 {
	totals := make([]decimal.Decimal, monthCount)
	for i := range totals {
		totals[i] = decimal.Zero
	}
	for _, line := range lines {
		if line.Kind == models.LineKindSummary {
			continue
		}
		for i, m := range line.Months {
			if i < monthCount {
				totals[i] = totals[i].Add(decimal.NewFromFloat(m.Value))
			}
		}
	}
	out := make([]float64, monthCount)
	for i, t := range totals {
		out[i], _ = t.Float64()
	}
	return out
}
