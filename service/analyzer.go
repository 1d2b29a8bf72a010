package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/AnTengye/lawassistant/analysis"
	"github.com/AnTengye/lawassistant/model"
	"github.com/AnTengye/lawassistant/pkg/logger"
	"github.com/AnTengye/lawassistant/report"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// AdvisoryPrefixRunes is how much of the document is sent to the advisor
	AdvisoryPrefixRunes = 8000

	advisoryUnavailable = "AI анализ временно недоступен"
)

// KeywordSource supplies operator-defined dangerous phrases
type KeywordSource interface {
	ListKeywords(ctx context.Context) ([]model.Keyword, error)
}

// Recorder persists finished analyses
type Recorder interface {
	SaveAnalysis(ctx context.Context, result *model.AnalysisResult) error
}

type AnalyzerConfig struct {
	Phrases         []string
	Sections        []string
	MinTextLength   int
	AdvisoryPrefix  int
	AdvisoryTimeout time.Duration
}

// DefaultAnalyzerConfig uses the built-in phrase and section lists
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Phrases:         analysis.DefaultDangerousPhrases,
		Sections:        analysis.RequiredSections,
		MinTextLength:   analysis.MinTextLength,
		AdvisoryPrefix:  AdvisoryPrefixRunes,
		AdvisoryTimeout: time.Minute,
	}
}

// Analyzer runs the full pipeline for one uploaded document. Every
// collaborator is optional: without keywords only built-in phrases are
// scanned, without an advisor ai_analysis stays null, and without a
// recorder or report store nothing is persisted.
type Analyzer struct {
	cfg      AnalyzerConfig
	keywords KeywordSource
	advisor  Advisor
	recorder Recorder
	reports  ReportStore

	now   func() time.Time
	newID func() string
}

type AnalyzerOption func(*Analyzer)

func WithKeywordSource(src KeywordSource) AnalyzerOption {
	return func(a *Analyzer) { a.keywords = src }
}

func WithAdvisor(adv Advisor) AnalyzerOption {
	return func(a *Analyzer) { a.advisor = adv }
}

func WithRecorder(rec Recorder) AnalyzerOption {
	return func(a *Analyzer) { a.recorder = rec }
}

func WithReportStore(store ReportStore) AnalyzerOption {
	return func(a *Analyzer) { a.reports = store }
}

func NewAnalyzer(cfg AnalyzerConfig, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		cfg:   cfg,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze detects the format from filename and analyses data
func (a *Analyzer) Analyze(ctx context.Context, filename string, data []byte) (*model.AnalysisResult, error) {
	format, err := analysis.FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeFormat(ctx, filename, format, data)
}

// AnalyzeFormat analyses data already known to be in format. Errors
// from extraction and the length check satisfy analysis.IsUserError;
// persistence and report failures are logged and never returned.
func (a *Analyzer) AnalyzeFormat(ctx context.Context, filename string, format analysis.DocumentFormat, data []byte) (*model.AnalysisResult, error) {
	text, err := analysis.Extract(data, format)
	if err != nil {
		return nil, err
	}
	if err := analysis.CheckLength(text, a.cfg.MinTextLength); err != nil {
		return nil, err
	}

	phrases := a.phrases(ctx)

	var (
		matches []model.PhraseMatch
		missing []string
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		matches = analysis.ScanPhrases(text, phrases)
		return nil
	})
	g.Go(func() error {
		missing = analysis.MissingSections(text, a.cfg.Sections)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &model.AnalysisResult{
		ID:               a.newID(),
		Filename:         filename,
		RiskLevel:        analysis.ScoreRisk(len(matches), len(missing)),
		DangerousPhrases: matches,
		MissingSections:  missing,
		CreatedAt:        a.now().UTC(),
	}
	ctx = logger.With(ctx, logger.AnalysisIDKey, result.ID)

	if a.advisor != nil {
		advice := a.advise(ctx, text)
		result.AIAnalysis = &advice
	}

	logger.Info(ctx, "contract analysed",
		"filename", filename,
		"format", format.String(),
		"risk_level", result.RiskLevel,
		"dangerous_phrases", len(matches),
		"missing_sections", len(missing),
	)

	a.persist(ctx, result)
	a.publish(ctx, result)

	return result, nil
}

// phrases returns the built-in phrases followed by custom keywords
func (a *Analyzer) phrases(ctx context.Context) []string {
	phrases := slices.Clone(a.cfg.Phrases)
	if a.keywords == nil {
		return phrases
	}

	custom, err := a.keywords.ListKeywords(ctx)
	if err != nil {
		logger.Warn(ctx, "failed to load custom keywords, using built-in phrases only", "error", err)
		return phrases
	}
	for _, kw := range custom {
		phrases = append(phrases, kw.Keyword)
	}
	return phrases
}

// advise never fails; problems become the unavailable notice
func (a *Analyzer) advise(ctx context.Context, text string) string {
	if a.cfg.AdvisoryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.AdvisoryTimeout)
		defer cancel()
	}

	advice, err := a.advisor.Advise(ctx, truncateRunes(text, a.cfg.AdvisoryPrefix))
	if err == nil {
		return advice
	}

	logger.Error(ctx, "advisory analysis failed", "error", err)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return advisoryUnavailable + ": превышено время ожидания ответа"
	case errors.Is(err, ErrEmptyAdvice):
		return advisoryUnavailable + ": пустой ответ"
	default:
		return advisoryUnavailable + ": ошибка сервиса"
	}
}

func (a *Analyzer) persist(ctx context.Context, result *model.AnalysisResult) {
	if a.recorder == nil {
		return
	}
	if err := a.recorder.SaveAnalysis(ctx, result); err != nil {
		logger.Error(ctx, "failed to save analysis", "error", err)
	}
}

func (a *Analyzer) publish(ctx context.Context, result *model.AnalysisResult) {
	if a.reports == nil {
		return
	}

	rendered, err := report.Render(result)
	if err != nil {
		logger.Error(ctx, "failed to render reports", "error", err)
		return
	}
	for _, kind := range []report.Kind{report.KindJSON, report.KindHTML} {
		if err := a.reports.Put(ctx, result.ID, kind, rendered.Bytes(kind)); err != nil {
			logger.Error(ctx, "failed to store report", "kind", kind, "error", err)
		}
	}
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
