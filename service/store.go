package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AnTengye/lawassistant/config"
	"github.com/AnTengye/lawassistant/model"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a keyword or analysis does not exist
var ErrNotFound = errors.New("not found")

// ErrEmptyKeyword is returned when adding a blank keyword
var ErrEmptyKeyword = errors.New("keyword must not be empty")

const (
	// MaxKeywords bounds how many custom keywords are loaded per analysis
	MaxKeywords = 1000
	// HistoryLimit is the number of analyses returned by the history endpoint
	HistoryLimit = 50

	// fixed width so that lexical order matches chronological order
	timeLayout = "2006-01-02T15:04:05.000000Z"
)

const schema = `
CREATE TABLE IF NOT EXISTS keywords (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	keyword    TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS analyses (
	seq               INTEGER PRIMARY KEY AUTOINCREMENT,
	id                TEXT NOT NULL UNIQUE,
	filename          TEXT NOT NULL,
	risk_level        TEXT NOT NULL,
	dangerous_phrases TEXT NOT NULL,
	missing_sections  TEXT NOT NULL,
	ai_analysis       TEXT,
	created_at        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
`

// SQLiteStore persists custom keywords and analysis history
type SQLiteStore struct {
	db          *sql.DB
	maxAnalyses int // Maximum analyses to keep, 0 = unlimited
}

// OpenSQLiteStore opens (or creates) the database at path
func OpenSQLiteStore(path string, cfg *config.StoreConfig) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	store, err := NewSQLiteStore(db, cfg.MaxAnalyses)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLiteStore wraps an open database and creates the schema
func NewSQLiteStore(db *sql.DB, maxAnalyses int) (*SQLiteStore, error) {
	// sqlite allows one writer; a single connection also keeps
	// ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if maxAnalyses < 0 {
		maxAnalyses = 0
	}
	slog.Info("analysis store initialized", "max_analyses", maxAnalyses)
	return &SQLiteStore{db: db, maxAnalyses: maxAnalyses}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AddKeyword appends a custom keyword exactly as given, surrounding
// spaces included. Duplicates are allowed.
func (s *SQLiteStore) AddKeyword(ctx context.Context, keyword string) (*model.Keyword, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, ErrEmptyKeyword
	}

	kw := &model.Keyword{
		ID:        uuid.New().String(),
		Keyword:   keyword,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO keywords (id, keyword, created_at) VALUES (?, ?, ?)`,
		kw.ID, kw.Keyword, kw.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("error inserting keyword: %w", err)
	}
	return kw, nil
}

// ListKeywords returns custom keywords in insertion order
func (s *SQLiteStore) ListKeywords(ctx context.Context) ([]model.Keyword, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, keyword, created_at FROM keywords ORDER BY seq LIMIT ?`, MaxKeywords)
	if err != nil {
		return nil, fmt.Errorf("error listing keywords: %w", err)
	}
	defer rows.Close()

	keywords := []model.Keyword{}
	for rows.Next() {
		var kw model.Keyword
		var created string
		if err := rows.Scan(&kw.ID, &kw.Keyword, &created); err != nil {
			return nil, fmt.Errorf("error scanning keyword: %w", err)
		}
		if kw.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("error parsing keyword timestamp: %w", err)
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

// DeleteKeyword removes a keyword by id
func (s *SQLiteStore) DeleteKeyword(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM keywords WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting keyword: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error deleting keyword: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveAnalysis stores a result and prunes history beyond the retention cap
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, result *model.AnalysisResult) error {
	phrases, err := json.Marshal(result.DangerousPhrases)
	if err != nil {
		return fmt.Errorf("error encoding phrases: %w", err)
	}
	missing, err := json.Marshal(result.MissingSections)
	if err != nil {
		return fmt.Errorf("error encoding sections: %w", err)
	}

	var ai sql.NullString
	if result.AIAnalysis != nil {
		ai = sql.NullString{String: *result.AIAnalysis, Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, filename, risk_level, dangerous_phrases, missing_sections, ai_analysis, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.ID,
		result.Filename,
		string(result.RiskLevel),
		string(phrases),
		string(missing),
		ai,
		result.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("error inserting analysis: %w", err)
	}

	return s.cleanupIfNeeded(ctx)
}

// cleanupIfNeeded removes the oldest analyses beyond maxAnalyses
func (s *SQLiteStore) cleanupIfNeeded(ctx context.Context) error {
	if s.maxAnalyses <= 0 {
		return nil
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM analyses WHERE seq NOT IN (
			SELECT seq FROM analyses ORDER BY created_at DESC, seq DESC LIMIT ?
		)`, s.maxAnalyses)
	if err != nil {
		return fmt.Errorf("error pruning analyses: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		slog.Info("auto-cleaned old analyses", "removed", n, "max_analyses", s.maxAnalyses)
	}
	return nil
}

const analysisColumns = `id, filename, risk_level, dangerous_phrases, missing_sections, ai_analysis, created_at`

// RecentAnalyses returns up to limit results, newest first
func (s *SQLiteStore) RecentAnalyses(ctx context.Context, limit int) ([]model.AnalysisResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+analysisColumns+` FROM analyses ORDER BY created_at DESC, seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing analyses: %w", err)
	}
	defer rows.Close()

	results := []model.AnalysisResult{}
	for rows.Next() {
		r, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, rows.Err()
}

// GetAnalysis finds a single result by id
func (s *SQLiteStore) GetAnalysis(ctx context.Context, id string) (*model.AnalysisResult, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+analysisColumns+` FROM analyses WHERE id = ?`, id)
	r, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// CountAnalyses returns the number of stored analyses
func (s *SQLiteStore) CountAnalyses(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting analyses: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*model.AnalysisResult, error) {
	var (
		r       model.AnalysisResult
		risk    string
		phrases string
		missing string
		ai      sql.NullString
		created string
	)
	if err := row.Scan(&r.ID, &r.Filename, &risk, &phrases, &missing, &ai, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning analysis: %w", err)
	}

	r.RiskLevel = model.RiskLevel(risk)
	if err := json.Unmarshal([]byte(phrases), &r.DangerousPhrases); err != nil {
		return nil, fmt.Errorf("error decoding phrases: %w", err)
	}
	if err := json.Unmarshal([]byte(missing), &r.MissingSections); err != nil {
		return nil, fmt.Errorf("error decoding sections: %w", err)
	}
	if ai.Valid {
		text := ai.String
		r.AIAnalysis = &text
	}
	createdAt, err := time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("error parsing analysis timestamp: %w", err)
	}
	r.CreatedAt = createdAt
	return &r, nil
}
