package models

// ExpenseBehavior classifies how a cost line moves.
type ExpenseBehavior string

const (
	BehaviorVariable ExpenseBehavior = "variable"
	BehaviorFixed    ExpenseBehavior = "fixed"
	BehaviorStepped  ExpenseBehavior = "stepped"
	BehaviorSeasonal ExpenseBehavior = "seasonal"
)

// InflationCategory maps account-name keywords to an annual inflation
// assumption. Categories live in a YAML database so the rates are
// calibration, not code.
type InflationCategory struct {
	Name       string   `yaml:"name" json:"name"`
	Keywords   []string `yaml:"keywords" json:"keywords"`
	AnnualRate float64  `yaml:"annual_rate" json:"annualRate"`
}

// SeasonalPattern describes a detected seasonal shape in one line's history.
type SeasonalPattern struct {
	PeakMonths []int   `json:"peakMonths"` // 0-based positions within the history
	Multiplier float64 `json:"multiplier"` // max / mean
}

// ExpenseProfile is the categorizer's verdict for one expense line.
type ExpenseProfile struct {
	Name               string           `json:"name"`
	Behavior           ExpenseBehavior  `json:"behavior"`
	Variability        float64          `json:"variability"`
	RevenueCorrelation float64          `json:"revenueCorrelation"`
	InflationCategory  string           `json:"inflationCategory"`
	AnnualInflation    float64          `json:"annualInflation"`
	Seasonal           *SeasonalPattern `json:"seasonal,omitempty"`
	MonthlyAverage     float64          `json:"monthlyAverage"`
}
