package insights

import (
	"math"

	"fjacquet/pnl-forecast/internal/models"
)

// Ranking weights. Priority dominates, then type, then normalized impact,
// with small bumps for actionable and recent findings.
var priorityWeights = map[models.InsightPriority]float64{
	models.PriorityCritical: 1.0,
	models.PriorityHigh:     0.75,
	models.PriorityMedium:   0.5,
	models.PriorityLow:      0.25,
}

var typeWeights = map[models.InsightType]float64{
	models.InsightWarning:     1.0,
	models.InsightOpportunity: 0.8,
	models.InsightSuccess:     0.6,
	models.InsightInfo:        0.4,
}

// scoreInsight combines priority, type, impact, actionability, and recency
// into a single ranking score.
func scoreInsight(ins models.Insight) float64 {
	score := priorityWeights[ins.Priority]*2 + typeWeights[ins.Type]

	// Impact is unbounded; squash it into [0,1).
	if ins.Impact > 0 {
		score += 1 - 1/(1+math.Log1p(ins.Impact))
	}
	if ins.Actionable {
		score += 0.3
	}
	if ins.Recent {
		score += 0.2
	}
	return score
}

// Data-quality score deductions per finding priority.
const (
	deductCritical = 30
	deductHigh     = 20
	deductMedium   = 10
	deductLow      = 5
)

// dataQualityScore starts at 100 and deducts per data-quality finding by
// severity, flooring at 0.
func dataQualityScore(findings []models.Insight) int {
	score := 100
	for _, f := range findings {
		switch f.Priority {
		case models.PriorityCritical:
			score -= deductCritical
		case models.PriorityHigh:
			score -= deductHigh
		case models.PriorityMedium:
			score -= deductMedium
		default:
			score -= deductLow
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}
