// Package projector rolls discovered drivers forward month by month under a
// scenario's assumption bundle, applies user adjustments, and aggregates the
// driver series into a scenario projection with confidence bands.
package projector

import (
	"math"
	"strings"
	"time"

	"fjacquet/pnl-forecast/internal/config"
	"fjacquet/pnl-forecast/internal/dateutils"
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

// Projector projects drivers under one scenario at a time.
type Projector struct {
	cfg    *config.Config
	logger logging.Logger
}

// NewProjector creates a Projector.
func NewProjector(cfg *config.Config, logger logging.Logger) *Projector {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Projector{cfg: cfg, logger: logger}
}

// Project rolls every driver forward and aggregates the results into the
// scenario's monthly projection series.
func (p *Projector) Project(
	stmt *models.ParsedStatement,
	drivers []models.DiscoveredDriver,
	assumptions models.GrowthAssumptions,
	horizon int,
	adjustments []models.DriverAdjustment,
) ([]models.ProjectedDriver, []models.MonthlyProjection) {
	lastDate := lastMonthDate(stmt)
	revenuePath := p.revenueReference(stmt, assumptions, horizon)

	projected := make([]models.ProjectedDriver, 0, len(drivers))
	for _, d := range drivers {
		pd := p.projectDriver(d, assumptions, horizon, lastDate, revenuePath)
		pd = p.applyAdjustments(pd, adjustments)
		projected = append(projected, pd)
	}

	months := p.aggregate(projected, horizon, lastDate)
	p.logger.WithFields(
		logging.Field{Key: logging.FieldScenario, Value: string(assumptions.Scenario)},
		logging.Field{Key: logging.FieldMonths, Value: horizon},
		logging.Field{Key: logging.FieldCount, Value: len(projected)},
	).Info("Drivers projected")

	return projected, months
}

// revenueReference is the projected total-revenue path that
// percentage-of-revenue drivers scale against: last historical revenue
// compounded at the scenario's growth rate with seasonal shaping.
func (p *Projector) revenueReference(stmt *models.ParsedStatement, assumptions models.GrowthAssumptions, horizon int) []float64 {
	lastDate := lastMonthDate(stmt)
	level := lastNonZero(stmt.RevenueTotals)

	path := make([]float64, horizon)
	for i := 1; i <= horizon; i++ {
		level *= 1 + assumptions.MonthlyGrowthRate
		seasonal := 1.0
		date := dateutils.AddMonths(lastDate, i)
		if f, ok := assumptions.SeasonalFactors[int(date.Month())]; ok && f > 0 {
			seasonal = f
		}
		path[i-1] = level * seasonal
	}
	return path
}

// projectDriver produces one driver's forward series using its assigned
// forecast method.
func (p *Projector) projectDriver(
	d models.DiscoveredDriver,
	assumptions models.GrowthAssumptions,
	horizon int,
	lastDate time.Time,
	revenuePath []float64,
) models.ProjectedDriver {
	base := p.RobustBaseline(d.Name, d.Values)
	n := len(d.Values)

	pd := models.ProjectedDriver{
		Driver:     d,
		BaseValue:  base,
		Confidence: d.Confidence,
	}

	for i := 1; i <= horizon; i++ {
		date := dateutils.AddMonths(lastDate, i)
		var value float64

		switch d.Method.Type {
		case models.MethodPercentageOfRevenue:
			value = d.Method.RevenueRatio * revenuePath[i-1]

		case models.MethodTrendExtrapolation:
			slope := d.Method.Slope * assumptions.GrowthSensitivity
			value = d.Method.Intercept + slope*float64(n-1+i)

		case models.MethodSeasonalModel:
			index := 1.0
			if idx, ok := d.Method.SeasonalIndices[(n-1+i)%12]; ok && idx > 0 {
				index = idx
			}
			value = base * index

		case models.MethodScenarioRange:
			switch assumptions.Scenario {
			case models.ScenarioDownturn:
				value = d.Method.RangeLow
			case models.ScenarioGrowth:
				value = d.Method.RangeHigh
			default:
				value = d.Method.RangeMid
			}

		default: // simple_growth
			monthly := d.Method.AnnualGrowthRate / 12 * assumptions.GrowthSensitivity
			value = base * math.Pow(1+monthly, float64(i))
		}

		// Expense drivers never project below zero.
		if d.Kind == models.LineKindExpense && value < 0 {
			value = 0
		}

		pd.Months = append(pd.Months, models.MonthlyValue{
			Month: dateutils.FormatMonthLabel(date),
			Value: value,
			Date:  date,
		})
	}

	return pd
}

// RobustBaseline computes the starting value for a driver's projection.
// Catch-all accounts take the minimum recent non-zero value so a one-off
// spike cannot become the run rate; other accounts take the mean of the last
// few non-zero values after discarding outliers, falling back to the median.
func (p *Projector) RobustBaseline(name string, values []float64) float64 {
	nonZero := make([]float64, 0, len(values))
	for _, v := range values {
		if v != 0 {
			nonZero = append(nonZero, v)
		}
	}
	if len(nonZero) == 0 {
		return 0
	}

	pc := p.cfg.Projection
	if p.isCatchAll(name) {
		recent := tail(nonZero, pc.RecentWindow)
		min := recent[0]
		for _, v := range recent {
			if v < min {
				min = v
			}
		}
		return min
	}

	mean := models.Mean(nonZero)
	sd := models.StdDev(nonZero)
	filtered := make([]float64, 0, len(nonZero))
	for _, v := range nonZero {
		if sd == 0 || math.Abs(v-mean) <= pc.OutlierStdDevs*sd {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) == 0 {
		return models.Median(nonZero)
	}

	return models.Mean(tail(filtered, pc.RecentWindow))
}

func (p *Projector) isCatchAll(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range p.cfg.Projection.CatchAllKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// applyAdjustments multiplies the driver's series by (1+impact) for every
// adjustment naming it, within the adjustment's date range. Adjustments
// naming unknown drivers are no-ops. Each applied adjustment degrades the
// driver's confidence; at the configured maximum it drops to low outright.
func (p *Projector) applyAdjustments(pd models.ProjectedDriver, adjustments []models.DriverAdjustment) models.ProjectedDriver {
	applied := 0
	for _, adj := range adjustments {
		if !strings.EqualFold(adj.DriverName, pd.Driver.Name) {
			continue
		}
		touched := false
		for i, m := range pd.Months {
			if m.Date.Before(adj.StartDate) || (!adj.EndDate.IsZero() && m.Date.After(adj.EndDate)) {
				continue
			}
			pd.Months[i].Value = m.Value * (1 + adj.Impact)
			touched = true
		}
		if touched {
			applied++
			pd.Adjustments = append(pd.Adjustments, adj)
		}
	}

	if applied >= p.cfg.Projection.MaxAdjustments {
		pd.Confidence = models.ConfidenceLow
	} else if applied > 0 && pd.Confidence == models.ConfidenceHigh {
		pd.Confidence = models.ConfidenceMedium
	}
	return pd
}

// aggregate sums driver series into monthly revenue, expenses, and net
// income, and attaches confidence bands that widen with the horizon.
func (p *Projector) aggregate(projected []models.ProjectedDriver, horizon int, lastDate time.Time) []models.MonthlyProjection {
	pc := p.cfg.Projection
	widen := 1.0
	for _, pd := range projected {
		if pd.Confidence == models.ConfidenceLow {
			widen = pc.LowConfidenceBand
			break
		}
	}

	months := make([]models.MonthlyProjection, horizon)
	for i := 0; i < horizon; i++ {
		date := dateutils.AddMonths(lastDate, i+1)
		m := models.MonthlyProjection{
			Month:   dateutils.FormatMonthLabel(date),
			Date:    date,
			Drivers: map[string]float64{},
		}

		for _, pd := range projected {
			if i >= len(pd.Months) {
				continue
			}
			v := pd.Months[i].Value
			m.Drivers[pd.Driver.Name] = v
			if pd.Driver.Kind == models.LineKindRevenue {
				m.Revenue += v
			} else {
				m.Expenses += v
			}
		}

		m.NetIncome = m.Revenue - m.Expenses
		width := math.Abs(m.NetIncome) * (pc.BandBase + pc.BandSlope*float64(i+1)) * widen
		m.Band = models.ConfidenceBand{Low: m.NetIncome - width, High: m.NetIncome + width}
		months[i] = m
	}
	return months
}

func lastNonZero(values []float64) float64 {
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] != 0 {
			return values[i]
		}
	}
	return 0
}

func lastMonthDate(stmt *models.ParsedStatement) time.Time {
	if n := len(stmt.MonthDates); n > 0 {
		return stmt.MonthDates[n-1]
	}
	return stmt.EndPeriod
}

func tail(values []float64, n int) []float64 {
	if n <= 0 || n >= len(values) {
		return values
	}
	return values[len(values)-n:]
}
