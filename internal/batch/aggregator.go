// Package batch provides functionality for batch processing of report files:
// grouping exports by entity and merging partial statements into one
// continuous monthly series.
package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fjacquet/pnl-forecast/internal/logging"
	"fjacquet/pnl-forecast/internal/models"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format("2006-01-02"),
		dr.End.Format("2006-01-02"))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	// Handle zero times
	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// FileGroup represents a group of report files that belong to the same entity
type FileGroup struct {
	Entity    string    // The entity identifier derived from filenames
	Files     []string  // List of file paths
	DateRange DateRange // Overall date range for all files
}

// Aggregator handles the grouping and merging of multiple report exports
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(logger logging.Logger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// GroupFilesByEntity groups report files by their entity identifier.
// It analyzes filenames to extract entity information and groups files
// accordingly.
func (a *Aggregator) GroupFilesByEntity(files []string) ([]FileGroup, error) {
	entityGroups := make(map[string]*FileGroup)

	for _, file := range files {
		entity := extractEntityFromFilename(file)

		a.logger.Debug("File mapped to entity",
			logging.Field{Key: "file", Value: filepath.Base(file)},
			logging.Field{Key: "entity", Value: entity})

		group, exists := entityGroups[entity]
		if !exists {
			group = &FileGroup{
				Entity:    entity,
				Files:     []string{},
				DateRange: DateRange{},
			}
			entityGroups[entity] = group
		}

		group.Files = append(group.Files, file)

		// Extract date range from filename if possible
		dateRange := extractDateRangeFromFilename(file)
		group.DateRange = group.DateRange.Merge(dateRange)
	}

	// Convert map to slice and sort by entity for consistent output
	var groups []FileGroup
	for _, group := range entityGroups {
		groups = append(groups, *group)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Entity < groups[j].Entity
	})

	a.logger.Info("Grouped files into entity groups",
		logging.Field{Key: "total_files", Value: len(files)},
		logging.Field{Key: "entity_groups", Value: len(groups)})

	return groups, nil
}

// extractEntityFromFilename derives the entity identifier from a report
// filename. The expected export pattern is {entity}_{start}_{end}.json;
// anything that does not match falls back to the base name without its
// extension.
func extractEntityFromFilename(filename string) string {
	baseName := filepath.Base(filename)
	baseName = strings.TrimSuffix(baseName, filepath.Ext(baseName))

	parts := strings.Split(baseName, "_")
	entity := make([]string, 0, len(parts))
	for _, part := range parts {
		if _, err := time.Parse("2006-01-02", part); err == nil {
			break
		}
		entity = append(entity, part)
	}

	if len(entity) == 0 {
		return baseName
	}
	return strings.Join(entity, "_")
}

// extractDateRangeFromFilename attempts to extract the covered period from
// the {entity}_{start}_{end} export pattern. Returns a zero DateRange if no
// dates can be extracted.
func extractDateRangeFromFilename(filename string) DateRange {
	baseName := filepath.Base(filename)
	baseName = strings.TrimSuffix(baseName, filepath.Ext(baseName))

	parts := strings.Split(baseName, "_")
	var dates []time.Time
	for _, part := range parts {
		if d, err := time.Parse("2006-01-02", part); err == nil {
			dates = append(dates, d)
		}
	}

	if len(dates) >= 2 {
		return DateRange{Start: dates[0], End: dates[len(dates)-1]}
	}
	return DateRange{}
}

// MergeStatements merges the statements of a file group into one continuous
// statement. Months are ordered chronologically; when two files report the
// same month the earlier file wins and a warning is logged. Files that fail
// to load are skipped so one bad export does not sink the whole group.
func (a *Aggregator) MergeStatements(group FileGroup, load func(string) (*models.ParsedStatement, error)) (*models.ParsedStatement, error) {
	a.logger.Info("Merging statements for entity",
		logging.Field{Key: "entity", Value: group.Entity},
		logging.Field{Key: "file_count", Value: len(group.Files)})

	var statements []*models.ParsedStatement
	for _, file := range group.Files {
		stmt, err := load(file)
		if err != nil {
			a.logger.Error("Failed to load report file",
				logging.Field{Key: "file", Value: file},
				logging.Field{Key: "error", Value: err})
			continue
		}
		statements = append(statements, stmt)
	}

	if len(statements) == 0 {
		return nil, fmt.Errorf("no loadable report files for entity %s", group.Entity)
	}

	merged := a.mergeLoaded(group.Entity, statements)

	a.logger.Info("Merged statements for entity",
		logging.Field{Key: "entity", Value: group.Entity},
		logging.Field{Key: "months", Value: merged.MonthCount()},
		logging.Field{Key: "revenue_lines", Value: len(merged.RevenueLines)},
		logging.Field{Key: "expense_lines", Value: len(merged.ExpenseLines)})

	return merged, nil
}

type mergedLine struct {
	line   models.NormalizedFinancialLine
	values map[time.Time]float64
}

func (a *Aggregator) mergeLoaded(entity string, statements []*models.ParsedStatement) *models.ParsedStatement {
	// Load earlier periods first so overlap resolution favors them.
	sort.SliceStable(statements, func(i, j int) bool {
		return statements[i].StartPeriod.Before(statements[j].StartPeriod)
	})

	first := statements[0]
	monthLabels := make(map[time.Time]string)
	monthOwner := make(map[time.Time]int)

	lineOrder := map[models.LineKind][]*mergedLine{}
	lineIndex := map[models.LineKind]map[string]*mergedLine{
		models.LineKindRevenue: {},
		models.LineKindExpense: {},
	}

	for si, stmt := range statements {
		if stmt.Currency != first.Currency || stmt.Basis != first.Basis {
			a.logger.Warn("Report files disagree on currency or basis",
				logging.Field{Key: "entity", Value: entity},
				logging.Field{Key: "currency", Value: stmt.Currency},
				logging.Field{Key: "basis", Value: stmt.Basis})
		}

		for mi, date := range stmt.MonthDates {
			if owner, seen := monthOwner[date]; seen {
				if owner != si {
					a.logger.Warn("Overlapping month across report files, keeping earlier file",
						logging.Field{Key: "entity", Value: entity},
						logging.Field{Key: "month", Value: stmt.MonthLabels[mi]})
				}
				continue
			}
			monthOwner[date] = si
			monthLabels[date] = stmt.MonthLabels[mi]
		}

		for _, kind := range []models.LineKind{models.LineKindRevenue, models.LineKindExpense} {
			lines := stmt.RevenueLines
			if kind == models.LineKindExpense {
				lines = stmt.ExpenseLines
			}
			for _, line := range lines {
				ml, exists := lineIndex[kind][line.Name]
				if !exists {
					ml = &mergedLine{line: line, values: make(map[time.Time]float64)}
					lineIndex[kind][line.Name] = ml
					lineOrder[kind] = append(lineOrder[kind], ml)
				}
				for _, mv := range line.Months {
					if monthOwner[mv.Date] != si {
						continue
					}
					ml.values[mv.Date] = mv.Value
				}
			}
		}
	}

	dates := make([]time.Time, 0, len(monthLabels))
	for d := range monthLabels {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	merged := &models.ParsedStatement{
		Currency:      first.Currency,
		Basis:         first.Basis,
		MonthLabels:   make([]string, len(dates)),
		MonthDates:    dates,
		RevenueTotals: make([]float64, len(dates)),
		ExpenseTotals: make([]float64, len(dates)),
		NetIncome:     make([]float64, len(dates)),
	}
	if len(dates) > 0 {
		merged.StartPeriod = dates[0]
		merged.EndPeriod = dates[len(dates)-1]
	}
	for i, d := range dates {
		merged.MonthLabels[i] = monthLabels[d]
	}

	for _, kind := range []models.LineKind{models.LineKindRevenue, models.LineKindExpense} {
		for _, ml := range lineOrder[kind] {
			line := ml.line
			line.Months = make([]models.MonthlyValue, len(dates))
			line.Total = 0
			for i, d := range dates {
				v := ml.values[d]
				line.Months[i] = models.MonthlyValue{Month: monthLabels[d], Value: v, Date: d}
				line.Total += v
			}
			if kind == models.LineKindRevenue {
				merged.RevenueLines = append(merged.RevenueLines, line)
			} else {
				merged.ExpenseLines = append(merged.ExpenseLines, line)
			}
			if line.Kind == models.LineKindSummary {
				continue
			}
			for i := range dates {
				if kind == models.LineKindRevenue {
					merged.RevenueTotals[i] += line.Months[i].Value
				} else {
					merged.ExpenseTotals[i] += line.Months[i].Value
				}
			}
		}
	}

	for i := range dates {
		merged.NetIncome[i] = merged.RevenueTotals[i] - merged.ExpenseTotals[i]
	}

	return merged
}

// CalculateDateRange returns the period covered by a statement's months.
func (a *Aggregator) CalculateDateRange(stmt *models.ParsedStatement) DateRange {
	if len(stmt.MonthDates) == 0 {
		return DateRange{}
	}

	start := stmt.MonthDates[0]
	end := stmt.MonthDates[0]
	for _, d := range stmt.MonthDates {
		if d.Before(start) {
			start = d
		}
		if d.After(end) {
			end = d
		}
	}

	return DateRange{Start: start, End: end}
}

// GenerateOutputFilename creates a filename for the consolidated output.
// Format: {entity}_{start_date}_{end_date}.json
func (a *Aggregator) GenerateOutputFilename(entity string, dateRange DateRange) string {
	sanitized := sanitizeEntity(entity)

	if !dateRange.Start.IsZero() && !dateRange.End.IsZero() {
		return fmt.Sprintf("%s_%s.json", sanitized, dateRange.String())
	}

	return fmt.Sprintf("%s.json", sanitized)
}

func sanitizeEntity(entity string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '-'
		}
	}, entity)
	if sanitized == "" {
		return "report"
	}
	return sanitized
}
