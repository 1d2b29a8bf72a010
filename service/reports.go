package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/AnTengye/lawassistant/report"
	"github.com/google/uuid"
)

// ErrReportNotFound is returned when no report exists for an id and kind
var ErrReportNotFound = errors.New("report not found")

// ReportStore keeps rendered reports addressable by analysis id
type ReportStore interface {
	Put(ctx context.Context, id string, kind report.Kind, data []byte) error
	Get(ctx context.Context, id string, kind report.Kind) ([]byte, error)
}

// ValidReportID accepts only the canonical lower-case hyphenated UUID
// form that analysis ids are issued in.
func ValidReportID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == id
}

// reportName is the object or file name of a report, "<id>.<kind>"
func reportName(id string, kind report.Kind) (string, error) {
	if !ValidReportID(id) {
		return "", fmt.Errorf("invalid report id %q", id)
	}
	if _, ok := report.ParseKind(string(kind)); !ok {
		return "", fmt.Errorf("invalid report kind %q", kind)
	}
	return id + "." + string(kind), nil
}

// FileReportStore writes reports under a local directory
type FileReportStore struct {
	dir string
}

func NewFileReportStore(dir string) (*FileReportStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}
	return &FileReportStore{dir: dir}, nil
}

// Put writes the report through a temp file so readers never see a partial file
func (s *FileReportStore) Put(ctx context.Context, id string, kind report.Kind, data []byte) error {
	name, err := reportName(id, kind)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".report-*")
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}
	return nil
}

func (s *FileReportStore) Get(ctx context.Context, id string, kind report.Kind) ([]byte, error) {
	name, err := reportName(id, kind)
	if err != nil {
		return nil, ErrReportNotFound
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	return data, nil
}
