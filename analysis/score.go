package analysis

import "github.com/AnTengye/lawassistant/model"

// Risk thresholds. A missing section weighs twice as much as a dangerous phrase.
const (
	HighRiskThreshold    = 10
	MediumRiskThreshold  = 5
	MissingSectionWeight = 2
)

// ScoreRisk derives the risk level from the two finding counts
func ScoreRisk(dangerousCount, missingCount int) model.RiskLevel {
	total := dangerousCount + MissingSectionWeight*missingCount

	switch {
	case total >= HighRiskThreshold:
		return model.RiskHigh
	case total >= MediumRiskThreshold:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}
