// Package report turns an analysis result into its downloadable forms: a
// JSON document and a self-contained HTML page.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/AnTengye/lawassistant/model"
)

// Kind identifies one of the two report forms
type Kind string

const (
	KindJSON Kind = "json"
	KindHTML Kind = "html"
)

// ContentType returns the MIME type served for the form
func (k Kind) ContentType() string {
	switch k {
	case KindJSON:
		return "application/json"
	case KindHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// ParseKind accepts "json" and "html"
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindJSON, KindHTML:
		return Kind(s), true
	default:
		return "", false
	}
}

// Document is the structured report. Every field is a plain JSON value.
type Document struct {
	ID               string        `json:"id"`
	Filename         string        `json:"filename"`
	RiskLevel        string        `json:"risk_level"`
	DangerousPhrases []PhraseEntry `json:"dangerous_phrases"`
	MissingSections  []string      `json:"missing_sections"`
	AIAnalysis       *string       `json:"ai_analysis"`
	CreatedAt        string        `json:"created_at"`
}

type PhraseEntry struct {
	Phrase   string `json:"phrase"`
	Context  string `json:"context"`
	Position int    `json:"position"`
}

// NewDocument builds the structured form of result
func NewDocument(result *model.AnalysisResult) Document {
	doc := Document{
		ID:               result.ID,
		Filename:         result.Filename,
		RiskLevel:        result.RiskLevel.String(),
		DangerousPhrases: make([]PhraseEntry, 0, len(result.DangerousPhrases)),
		MissingSections:  make([]string, 0, len(result.MissingSections)),
		CreatedAt:        result.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	for _, m := range result.DangerousPhrases {
		doc.DangerousPhrases = append(doc.DangerousPhrases, PhraseEntry(m))
	}
	doc.MissingSections = append(doc.MissingSections, result.MissingSections...)
	if result.HasAIAnalysis() {
		ai := *result.AIAnalysis
		doc.AIAnalysis = &ai
	}
	return doc
}

// Rendered holds both report forms for one result
type Rendered struct {
	JSON []byte
	HTML []byte
}

// Bytes returns the form for kind
func (r *Rendered) Bytes(kind Kind) []byte {
	if kind == KindJSON {
		return r.JSON
	}
	return r.HTML
}

// Render produces both forms
func Render(result *model.AnalysisResult) (*Rendered, error) {
	jsonData, err := RenderJSON(result)
	if err != nil {
		return nil, err
	}
	htmlData, err := RenderHTML(result)
	if err != nil {
		return nil, err
	}
	return &Rendered{JSON: jsonData, HTML: htmlData}, nil
}

// RenderJSON serialises the structured form, indented, with non-ASCII text kept readable
func RenderJSON(result *model.AnalysisResult) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(result)); err != nil {
		return nil, fmt.Errorf("failed to encode json report: %w", err)
	}
	return buf.Bytes(), nil
}

var riskColors = map[model.RiskLevel]string{
	model.RiskLow:    "#22c55e",
	model.RiskMedium: "#f59e0b",
	model.RiskHigh:   "#ef4444",
}

type htmlView struct {
	Result    *model.AnalysisResult
	RiskColor template.CSS
	AIText    string
	Generated string
}

// RenderHTML renders the presentation form
func RenderHTML(result *model.AnalysisResult) ([]byte, error) {
	color, ok := riskColors[result.RiskLevel]
	if !ok {
		color = "#888888"
	}

	view := htmlView{
		Result:    result,
		RiskColor: template.CSS(color),
		Generated: result.CreatedAt.UTC().Format("02.01.2006 15:04:05"),
	}
	if result.HasAIAnalysis() {
		view.AIText = *result.AIAnalysis
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render html report: %w", err)
	}
	return buf.Bytes(), nil
}
