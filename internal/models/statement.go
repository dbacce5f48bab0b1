// Package models defines the value objects shared by the forecast pipeline.
// Every type here is rebuilt on each invocation; nothing is mutated after
// construction, which is what makes the pipeline safe to run concurrently
// across independent requests.
package models

import (
	"time"
)

// LineKind distinguishes the role of a normalized line within the statement.
type LineKind string

const (
	// LineKindRevenue marks an income line.
	LineKindRevenue LineKind = "revenue"
	// LineKindExpense marks a cost line.
	LineKindExpense LineKind = "expense"
	// LineKindSummary marks a section subtotal. Summary lines are excluded
	// from aggregation to avoid double counting.
	LineKindSummary LineKind = "summary"
)

// MonthlyValue is a single month's observation for one line item.
// Immutable once produced by the normalizer.
type MonthlyValue struct {
	Month string    `json:"month" csv:"month"`
	Value float64   `json:"value" csv:"value"`
	Date  time.Time `json:"date" csv:"date"`
}

// NormalizedFinancialLine is one account or line item extracted from the
// source report: its ordered monthly series plus identity and nesting info.
type NormalizedFinancialLine struct {
	Name       string         `json:"name"`
	ExternalID string         `json:"externalId,omitempty"`
	Months     []MonthlyValue `json:"months"`
	Total      float64        `json:"total"`
	Level      int            `json:"level"`
	Kind       LineKind       `json:"kind"`
}

// Values returns the raw monthly values of the line in month order.
func (l *NormalizedFinancialLine) Values() []float64 {
	out := make([]float64, len(l.Months))
	for i, m := range l.Months {
		out[i] = m.Value
	}
	return out
}

// NonZeroMonths counts months with a non-zero value.
func (l *NormalizedFinancialLine) NonZeroMonths() int {
	n := 0
	for _, m := range l.Months {
		if m.Value != 0 {
			n++
		}
	}
	return n
}

// ParsedStatement is the normalized view of one profit-and-loss report:
// per-line monthly series plus derived monthly totals.
type ParsedStatement struct {
	StartPeriod   time.Time                 `json:"startPeriod"`
	EndPeriod     time.Time                 `json:"endPeriod"`
	Currency      string                    `json:"currency"`
	Basis         string                    `json:"basis"`
	MonthLabels   []string                  `json:"monthLabels"`
	MonthDates    []time.Time               `json:"monthDates"`
	RevenueLines  []NormalizedFinancialLine `json:"revenueLines"`
	ExpenseLines  []NormalizedFinancialLine `json:"expenseLines"`
	RevenueTotals []float64                 `json:"revenueTotals"`
	ExpenseTotals []float64                 `json:"expenseTotals"`
	NetIncome     []float64                 `json:"netIncome"`
}

// MonthCount returns the number of months covered by the statement.
func (s *ParsedStatement) MonthCount() int {
	return len(s.MonthLabels)
}

// HasActivity reports whether any line survived normalization.
func (s *ParsedStatement) HasActivity() bool {
	return len(s.RevenueLines) > 0 || len(s.ExpenseLines) > 0
}

// TotalRevenue sums the monthly revenue totals.
func (s *ParsedStatement) TotalRevenue() float64 {
	return sum(s.RevenueTotals)
}

// TotalExpenses sums the monthly expense totals.
func (s *ParsedStatement) TotalExpenses() float64 {
	return sum(s.ExpenseTotals)
}

// TotalNetIncome sums the monthly net-income series.
func (s *ParsedStatement) TotalNetIncome() float64 {
	return sum(s.NetIncome)
}

// NonSummaryLines returns revenue and expense lines excluding subtotals.
func (s *ParsedStatement) NonSummaryLines() []NormalizedFinancialLine {
	out := make([]NormalizedFinancialLine, 0, len(s.RevenueLines)+len(s.ExpenseLines))
	for _, l := range s.RevenueLines {
		if l.Kind != LineKindSummary {
			out = append(out, l)
		}
	}
	for _, l := range s.ExpenseLines {
		if l.Kind != LineKindSummary {
			out = append(out, l)
		}
	}
	return out
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
