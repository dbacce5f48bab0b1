package models

import "time"

// ScenarioName identifies one of the three generated scenarios.
type ScenarioName string

const (
	ScenarioBaseline ScenarioName = "baseline"
	ScenarioGrowth   ScenarioName = "growth"
	ScenarioDownturn ScenarioName = "downturn"
)

// AllScenarios lists the scenarios every forecast run produces, in order.
var AllScenarios = []ScenarioName{ScenarioBaseline, ScenarioGrowth, ScenarioDownturn}

// GrowthAssumptions is the named bundle of growth, inflation, and seasonality
// assumptions attached to a scenario.
type GrowthAssumptions struct {
	Scenario          ScenarioName    `json:"scenario"`
	MonthlyGrowthRate float64         `json:"monthlyGrowthRate"`
	AnnualInflation   float64         `json:"annualInflation"`
	SeasonalFactors   map[int]float64 `json:"seasonalFactors"` // calendar month (1-12) -> multiplier
	ExpenseRatio      float64         `json:"expenseRatio"`    // variable costs as share of revenue
	FixedCostBase     float64         `json:"fixedCostBase"`   // monthly fixed costs at t0

	// Behavioral multipliers applied to the working-capital and capex models.
	GrowthSensitivity    float64 `json:"growthSensitivity"`
	CollectionEfficiency float64 `json:"collectionEfficiency"`
	CapexAggressiveness  float64 `json:"capexAggressiveness"`
}

// DriverAdjustment is a user-specified percentage impact over a date range
// applied to one driver's projected series.
type DriverAdjustment struct {
	DriverName string    `json:"driverName" yaml:"driver"`
	Impact     float64   `json:"impact" yaml:"impact"` // 0.10 = +10%
	StartDate  time.Time `json:"startDate" yaml:"start"`
	EndDate    time.Time `json:"endDate" yaml:"end"`
	Reason     string    `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// ProjectedDriver extends a discovered driver with its forward series.
type ProjectedDriver struct {
	Driver      DiscoveredDriver   `json:"driver"`
	BaseValue   float64            `json:"baseValue"`
	Months      []MonthlyValue     `json:"months"`
	Confidence  ConfidenceTier     `json:"confidence"`
	Adjustments []DriverAdjustment `json:"adjustments,omitempty"`
}

// ConfidenceBand is the low/high numeric range around a projected value.
type ConfidenceBand struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// MonthlyProjection is the aggregated view of one future month.
type MonthlyProjection struct {
	Month     string             `json:"month"`
	Date      time.Time          `json:"date"`
	Revenue   float64            `json:"revenue"`
	Expenses  float64            `json:"expenses"`
	NetIncome float64            `json:"netIncome"`
	CashFlow  float64            `json:"cashFlow"`
	Drivers   map[string]float64 `json:"drivers"`
	Band      ConfidenceBand     `json:"band"`
}

// ForecastSummary condenses a scenario projection for reporting.
type ForecastSummary struct {
	TotalRevenue   float64  `json:"totalRevenue"`
	TotalExpenses  float64  `json:"totalExpenses"`
	TotalNetIncome float64  `json:"totalNetIncome"`
	AverageMargin  float64  `json:"averageMargin"`
	BreakEvenMonth string   `json:"breakEvenMonth,omitempty"`
	Insights       []string `json:"insights,omitempty"`
}

// ScenarioProjection is one scenario's complete forward view.
type ScenarioProjection struct {
	Scenario    ScenarioName        `json:"scenario"`
	Assumptions GrowthAssumptions   `json:"assumptions"`
	Months      []MonthlyProjection `json:"months"`
	Summary     ForecastSummary     `json:"summary"`
	Confidence  ConfidenceTier      `json:"confidence"`
}

// ForecastResult bundles the three scenario projections of one run.
type ForecastResult struct {
	RunID     string                                  `json:"runId"`
	Horizon   int                                     `json:"horizonMonths"`
	Scenarios map[ScenarioName]*ScenarioProjection    `json:"scenarios"`
	Drivers   map[ScenarioName][]ProjectedDriver      `json:"-"`
	Compare   map[ScenarioName]ForecastSummary        `json:"compare,omitempty"`
}
