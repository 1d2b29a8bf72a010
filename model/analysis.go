package model

import (
	"time"
)

// RiskLevel is the three-tier classification of a contract
type RiskLevel string

// RiskLevel constants
const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

func (r RiskLevel) String() string {
	return string(r)
}

// PhraseMatch is one occurrence of a dangerous phrase in a document
type PhraseMatch struct {
	Phrase   string `json:"phrase"`
	Context  string `json:"context"`
	Position int    `json:"position"`
}

// AnalysisResult is the outcome of analysing one uploaded contract
type AnalysisResult struct {
	ID               string        `json:"id"`
	Filename         string        `json:"filename"`
	RiskLevel        RiskLevel     `json:"risk_level"`
	DangerousPhrases []PhraseMatch `json:"dangerous_phrases"`
	MissingSections  []string      `json:"missing_sections"`
	AIAnalysis       *string       `json:"ai_analysis"`
	CreatedAt        time.Time     `json:"created_at"`
}

// HasAIAnalysis reports whether advisory text is attached
func (r *AnalysisResult) HasAIAnalysis() bool {
	return r.AIAnalysis != nil && *r.AIAnalysis != ""
}

// Keyword is an operator-supplied dangerous phrase
type Keyword struct {
	ID        string    `json:"id"`
	Keyword   string    `json:"keyword"`
	CreatedAt time.Time `json:"created_at"`
}
