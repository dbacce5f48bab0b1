package models

// InsightType classifies the tone of a finding.
type InsightType string

const (
	InsightWarning     InsightType = "warning"
	InsightOpportunity InsightType = "opportunity"
	InsightInfo        InsightType = "info"
	InsightSuccess     InsightType = "success"
)

// InsightPriority ranks how urgently a finding deserves attention.
type InsightPriority string

const (
	PriorityCritical InsightPriority = "critical"
	PriorityHigh     InsightPriority = "high"
	PriorityMedium   InsightPriority = "medium"
	PriorityLow      InsightPriority = "low"
)

// Insight is a single ranked finding produced by one analyzer. The Score is
// computed for ranking only and is never persisted as ground truth.
type Insight struct {
	ID         string          `json:"id"`
	Type       InsightType     `json:"type"`
	Priority   InsightPriority `json:"priority"`
	Category   string          `json:"category"`
	Message    string          `json:"message"`
	Impact     float64         `json:"impact,omitempty"`
	Actionable bool            `json:"actionable"`
	Recent     bool            `json:"recent"`
	Score      float64         `json:"score"`
}

// InsightReport is the categorized output of an insight run.
type InsightReport struct {
	RunID            string    `json:"runId"`
	All              []Insight `json:"insights"`
	Critical         []Insight `json:"critical"`
	Warnings         []Insight `json:"warnings"`
	Opportunities    []Insight `json:"opportunities"`
	DataQuality      []Insight `json:"dataQuality"`
	DataQualityScore int       `json:"dataQualityScore"` // 0-100
}
