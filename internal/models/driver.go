package models

// ConfidenceTier expresses how much trust downstream consumers should place
// in a driver or forecast.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "high"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceLow    ConfidenceTier = "low"
)

// TrendDirection summarizes the direction of a driver's history.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// LineItemAnalysis holds the five independent [0,1] scores computed for a
// line item during discovery, plus its revenue correlation and totals.
// Produced fresh on every discovery run; never persisted.
type LineItemAnalysis struct {
	Name               string   `json:"name"`
	ExternalID         string   `json:"externalId,omitempty"`
	Kind               LineKind `json:"kind"`
	Values             []float64 `json:"-"`
	Total              float64  `json:"total"`
	Materiality        float64  `json:"materiality"`
	Variability        float64  `json:"variability"`
	Predictability     float64  `json:"predictability"`
	GrowthImpact       float64  `json:"growthImpact"`
	DataQuality        float64  `json:"dataQuality"`
	RevenueCorrelation float64  `json:"revenueCorrelation"`
	TrendSlope         float64  `json:"trendSlope"`
	AnnualGrowthRate   float64  `json:"annualGrowthRate"`
}

// ForecastMethodType names the projection technique assigned to a driver.
type ForecastMethodType string

const (
	MethodPercentageOfRevenue ForecastMethodType = "percentage_of_revenue"
	MethodTrendExtrapolation  ForecastMethodType = "trend_extrapolation"
	MethodSeasonalModel       ForecastMethodType = "seasonal_model"
	MethodScenarioRange       ForecastMethodType = "scenario_range"
	MethodSimpleGrowth        ForecastMethodType = "simple_growth"
)

// ForecastMethod is the tagged variant carrying method-specific parameters.
// Exactly the fields relevant to Type are populated.
type ForecastMethod struct {
	Type       ForecastMethodType `json:"type"`
	Confidence float64            `json:"confidence"`

	// percentage_of_revenue
	RevenueRatio float64 `json:"revenueRatio,omitempty"`

	// trend_extrapolation
	Slope     float64 `json:"slope,omitempty"`
	Intercept float64 `json:"intercept,omitempty"`

	// seasonal_model
	SeasonalIndices map[int]float64 `json:"seasonalIndices,omitempty"`

	// scenario_range (25th/50th/75th percentile of history)
	RangeLow  float64 `json:"rangeLow,omitempty"`
	RangeMid  float64 `json:"rangeMid,omitempty"`
	RangeHigh float64 `json:"rangeHigh,omitempty"`

	// simple_growth
	AnnualGrowthRate float64 `json:"annualGrowthRate,omitempty"`
}

// DiscoveredDriver is a LineItemAnalysis promoted to driver status.
// Created once per discovery run and never mutated within that run.
type DiscoveredDriver struct {
	LineItemAnalysis

	ImpactScore    float64        `json:"impactScore"`
	Method         ForecastMethod `json:"method"`
	Confidence     ConfidenceTier `json:"confidence"`
	Classification string         `json:"classification"`
	Trend          TrendDirection `json:"trend"`
}

// DiscoveryResult is the full output of a driver-discovery run.
type DiscoveryResult struct {
	RunID           string             `json:"runId"`
	Drivers         []DiscoveredDriver `json:"drivers"`
	SecondaryItems  []LineItemAnalysis `json:"secondaryItems"`
	ExcludedItems   []string           `json:"excludedItems"`
	RevenueCoverage float64            `json:"revenueCoverage"`
	ExpenseCoverage float64            `json:"expenseCoverage"`
	Coverage        float64            `json:"coverage"`
	Confidence      float64            `json:"confidence"`
	MonthsOfData    int                `json:"monthsOfData"`
}
