package batch_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/pnl-forecast/internal/batch"
	"fjacquet/pnl-forecast/internal/logging"
	"fjacquet/pnl-forecast/internal/models"
)

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

// buildStatement assembles a normalized statement with one revenue and one
// expense line covering the given months.
func buildStatement(start time.Time, revenues, expenses []float64) *models.ParsedStatement {
	n := len(revenues)
	stmt := &models.ParsedStatement{
		Currency:      "USD",
		Basis:         "Accrual",
		MonthLabels:   make([]string, n),
		MonthDates:    make([]time.Time, n),
		RevenueTotals: make([]float64, n),
		ExpenseTotals: make([]float64, n),
		NetIncome:     make([]float64, n),
	}
	rev := models.NormalizedFinancialLine{Name: "Sales", Kind: models.LineKindRevenue}
	exp := models.NormalizedFinancialLine{Name: "Rent", Kind: models.LineKindExpense}
	for i := 0; i < n; i++ {
		d := start.AddDate(0, i, 0)
		label := d.Format("Jan 2006")
		stmt.MonthDates[i] = d
		stmt.MonthLabels[i] = label
		rev.Months = append(rev.Months, models.MonthlyValue{Month: label, Value: revenues[i], Date: d})
		exp.Months = append(exp.Months, models.MonthlyValue{Month: label, Value: expenses[i], Date: d})
		rev.Total += revenues[i]
		exp.Total += expenses[i]
		stmt.RevenueTotals[i] = revenues[i]
		stmt.ExpenseTotals[i] = expenses[i]
		stmt.NetIncome[i] = revenues[i] - expenses[i]
	}
	stmt.StartPeriod = stmt.MonthDates[0]
	stmt.EndPeriod = stmt.MonthDates[n-1]
	stmt.RevenueLines = []models.NormalizedFinancialLine{rev}
	stmt.ExpenseLines = []models.NormalizedFinancialLine{exp}
	return stmt
}

func TestGroupFilesByEntity(t *testing.T) {
	a := batch.NewAggregator(logging.NewMockLogger())

	files := []string{
		"/data/acme_2024-01-01_2024-06-30.json",
		"/data/acme_2024-07-01_2024-12-31.json",
		"/data/globex_2024-01-01_2024-12-31.json",
		"/data/untagged-report.json",
	}

	groups, err := a.GroupFilesByEntity(files)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, "acme", groups[0].Entity)
	assert.Len(t, groups[0].Files, 2)
	assert.Equal(t, "2024-01-01_2024-12-31", groups[0].DateRange.String())

	assert.Equal(t, "globex", groups[1].Entity)
	assert.Len(t, groups[1].Files, 1)

	assert.Equal(t, "untagged-report", groups[2].Entity)
	assert.Equal(t, "", groups[2].DateRange.String())
}

func TestGroupFilesByEntityMultiWordEntity(t *testing.T) {
	a := batch.NewAggregator(logging.NewMockLogger())

	groups, err := a.GroupFilesByEntity([]string{
		"/data/acme_west_2024-01-01_2024-03-31.json",
	})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "acme_west", groups[0].Entity)
}

func TestDateRangeMerge(t *testing.T) {
	tests := []struct {
		name string
		a, b batch.DateRange
		want string
	}{
		{
			name: "Disjoint ranges",
			a:    batch.DateRange{Start: month(2024, 1), End: month(2024, 6)},
			b:    batch.DateRange{Start: month(2024, 7), End: month(2024, 12)},
			want: "2024-01-01_2024-12-01",
		},
		{
			name: "Zero range absorbs other",
			a:    batch.DateRange{},
			b:    batch.DateRange{Start: month(2024, 3), End: month(2024, 5)},
			want: "2024-03-01_2024-05-01",
		},
		{
			name: "Contained range keeps outer",
			a:    batch.DateRange{Start: month(2024, 1), End: month(2024, 12)},
			b:    batch.DateRange{Start: month(2024, 3), End: month(2024, 5)},
			want: "2024-01-01_2024-12-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Merge(tt.b).String())
		})
	}
}

func TestMergeStatementsContiguous(t *testing.T) {
	a := batch.NewAggregator(logging.NewMockLogger())

	firstHalf := buildStatement(month(2024, 1), []float64{100, 110, 120}, []float64{50, 50, 50})
	secondHalf := buildStatement(month(2024, 4), []float64{130, 140, 150}, []float64{60, 60, 60})
	byFile := map[string]*models.ParsedStatement{
		"a_2024-01-01_2024-03-31.json": firstHalf,
		"a_2024-04-01_2024-06-30.json": secondHalf,
	}

	group := batch.FileGroup{
		Entity: "a",
		Files:  []string{"a_2024-04-01_2024-06-30.json", "a_2024-01-01_2024-03-31.json"},
	}

	merged, err := a.MergeStatements(group, func(path string) (*models.ParsedStatement, error) {
		return byFile[path], nil
	})
	require.NoError(t, err)

	assert.Equal(t, 6, merged.MonthCount())
	assert.Equal(t, month(2024, 1), merged.StartPeriod)
	assert.Equal(t, month(2024, 6), merged.EndPeriod)
	assert.Equal(t, []float64{100, 110, 120, 130, 140, 150}, merged.RevenueTotals)
	assert.Equal(t, []float64{50, 60, 70, 70, 80, 90}, merged.NetIncome)

	require.Len(t, merged.RevenueLines, 1)
	assert.Equal(t, "Sales", merged.RevenueLines[0].Name)
	assert.InDelta(t, 750.0, merged.RevenueLines[0].Total, 1e-9)
	require.Len(t, merged.RevenueLines[0].Months, 6)
}

func TestMergeStatementsOverlapKeepsEarlierFile(t *testing.T) {
	mock := logging.NewMockLogger()
	a := batch.NewAggregator(mock)

	early := buildStatement(month(2024, 1), []float64{100, 110, 120}, []float64{50, 50, 50})
	late := buildStatement(month(2024, 3), []float64{999, 130, 140}, []float64{60, 60, 60})
	byFile := map[string]*models.ParsedStatement{
		"early.json": early,
		"late.json":  late,
	}

	merged, err := a.MergeStatements(batch.FileGroup{
		Entity: "a",
		Files:  []string{"early.json", "late.json"},
	}, func(path string) (*models.ParsedStatement, error) {
		return byFile[path], nil
	})
	require.NoError(t, err)

	// March comes from the earlier statement, not the 999 override.
	assert.Equal(t, 5, merged.MonthCount())
	assert.Equal(t, []float64{100, 110, 120, 130, 140}, merged.RevenueTotals)
	assert.True(t, mock.HasEntry("WARN", "Overlapping month across report files, keeping earlier file"))
}

func TestMergeStatementsSkipsUnloadableFiles(t *testing.T) {
	a := batch.NewAggregator(logging.NewMockLogger())

	good := buildStatement(month(2024, 1), []float64{100, 110}, []float64{50, 50})

	merged, err := a.MergeStatements(batch.FileGroup{
		Entity: "a",
		Files:  []string{"broken.json", "good.json"},
	}, func(path string) (*models.ParsedStatement, error) {
		if path == "broken.json" {
			return nil, fmt.Errorf("unexpected end of JSON input")
		}
		return good, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, merged.MonthCount())
}

func TestMergeStatementsAllFilesUnloadable(t *testing.T) {
	a := batch.NewAggregator(logging.NewMockLogger())

	_, err := a.MergeStatements(batch.FileGroup{
		Entity: "a",
		Files:  []string{"broken.json"},
	}, func(path string) (*models.ParsedStatement, error) {
		return nil, fmt.Errorf("unexpected end of JSON input")
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no loadable report files")
}

func TestCalculateDateRange(t *testing.T) {
	a := batch.NewAggregator(logging.NewMockLogger())

	stmt := buildStatement(month(2024, 1), []float64{100, 110, 120}, []float64{50, 50, 50})
	dr := a.CalculateDateRange(stmt)
	assert.Equal(t, month(2024, 1), dr.Start)
	assert.Equal(t, month(2024, 3), dr.End)

	empty := &models.ParsedStatement{}
	assert.True(t, a.CalculateDateRange(empty).Start.IsZero())
}

func TestGenerateOutputFilename(t *testing.T) {
	a := batch.NewAggregator(logging.NewMockLogger())

	tests := []struct {
		name      string
		entity    string
		dateRange batch.DateRange
		want      string
	}{
		{
			name:      "Entity with date range",
			entity:    "acme",
			dateRange: batch.DateRange{Start: month(2024, 1), End: month(2024, 6)},
			want:      "acme_2024-01-01_2024-06-01.json",
		},
		{
			name:   "Entity without date range",
			entity: "acme",
			want:   "acme.json",
		},
		{
			name:      "Entity with unsafe characters",
			entity:    "acme west/2024",
			dateRange: batch.DateRange{},
			want:      "acme-west-2024.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.GenerateOutputFilename(tt.entity, tt.dateRange))
		})
	}
}
