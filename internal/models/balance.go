package models

import "time"

// The statement carries no balance-sheet data, so working-capital and asset
// balances are estimated from P&L behavior once per forecast run and then
// rolled forward month by month.

// CollectionPattern splits a month's new sales into the share collected
// immediately versus carried as receivables into following months.
type CollectionPattern struct {
	Immediate float64 `json:"immediate" yaml:"immediate"`
	Next30    float64 `json:"next30" yaml:"next30"`
	Next60    float64 `json:"next60" yaml:"next60"`
}

// WorkingCapitalComponents holds the estimated current balances and the
// behavioral parameters used to roll them forward.
type WorkingCapitalComponents struct {
	Receivables        float64           `json:"receivables"`
	Payables           float64           `json:"payables"`
	Inventory          float64           `json:"inventory"`
	DaysSalesOut       float64           `json:"daysSalesOutstanding"`
	DaysPayablesOut    float64           `json:"daysPayablesOutstanding"`
	DaysInventoryOut   float64           `json:"daysInventoryOutstanding"`
	Collections        CollectionPattern `json:"collections"`
	Payments           CollectionPattern `json:"payments"`
	CashConversionDays float64           `json:"cashConversionDays"`
}

// DepreciationMethod names how an asset category depreciates.
type DepreciationMethod string

const (
	// DepreciationStraightLine spreads cost evenly over the useful life.
	DepreciationStraightLine DepreciationMethod = "straight_line"
)

// AssetCategory is one estimated fixed-asset pool with its depreciation
// behavior.
type AssetCategory struct {
	Name            string             `json:"name"`
	GrossValue      float64            `json:"grossValue"`
	AccumulatedDep  float64            `json:"accumulatedDepreciation"`
	UsefulLifeYears float64            `json:"usefulLifeYears"`
	Method          DepreciationMethod `json:"method"`
}

// NetValue returns gross value minus accumulated depreciation.
func (a AssetCategory) NetValue() float64 {
	return a.GrossValue - a.AccumulatedDep
}

// MonthlyDepreciation returns the straight-line monthly charge.
func (a AssetCategory) MonthlyDepreciation() float64 {
	if a.UsefulLifeYears <= 0 {
		return 0
	}
	return a.GrossValue / (a.UsefulLifeYears * 12)
}

// WorkingCapitalMonth is one projected month of working-capital movement.
type WorkingCapitalMonth struct {
	Month            string  `json:"month"`
	Date             time.Time `json:"date"`
	Receivables      float64 `json:"receivables"`
	Payables         float64 `json:"payables"`
	Inventory        float64 `json:"inventory"`
	ReceivableChange float64 `json:"receivableChange"`
	PayableChange    float64 `json:"payableChange"`
	InventoryChange  float64 `json:"inventoryChange"`
	NetChange        float64 `json:"netChange"`
}

// AssetMonth is one projected month of fixed-asset movement.
type AssetMonth struct {
	Month        string    `json:"month"`
	Date         time.Time `json:"date"`
	Additions    float64   `json:"additions"`
	Disposals    float64   `json:"disposals"`
	Depreciation float64   `json:"depreciation"`
	GrossValue   float64   `json:"grossValue"`
	NetValue     float64   `json:"netValue"`
}

// CashFlowMonth is one month of the assembled cash-flow statement.
type CashFlowMonth struct {
	Month     string    `json:"month"`
	Date      time.Time `json:"date"`
	NetIncome float64   `json:"netIncome"`

	// Operating
	Depreciation        float64 `json:"depreciation"`
	WorkingCapitalDelta float64 `json:"workingCapitalDelta"`
	OperatingCashFlow   float64 `json:"operatingCashFlow"`

	// Investing
	Capex             float64 `json:"capex"`
	Disposals         float64 `json:"disposals"`
	InvestingCashFlow float64 `json:"investingCashFlow"`

	// Financing
	DebtService       float64 `json:"debtService"`
	OwnerDraw         float64 `json:"ownerDraw"`
	FinancingCashFlow float64 `json:"financingCashFlow"`

	NetCashChange float64 `json:"netCashChange"`
	CashBalance   float64 `json:"cashBalance"`
}

// CashFlowRisk summarizes the risk profile of a cash-flow projection.
type CashFlowRisk struct {
	Volatility         float64 `json:"volatility"`
	MonthsOfCushion    float64 `json:"monthsOfCushion"`
	NegativeMonths     int     `json:"negativeMonths"`
	LargestOutflow     float64 `json:"largestOutflow"`
	LargestOutflowWhen string  `json:"largestOutflowMonth,omitempty"`
}

// CashFlowProjection is one scenario's full cash-flow statement series.
type CashFlowProjection struct {
	Scenario       ScenarioName    `json:"scenario"`
	OpeningBalance float64         `json:"openingBalance"`
	Months         []CashFlowMonth `json:"months"`
	Risk           CashFlowRisk    `json:"risk"`
}
