// Package analysis holds the deterministic contract checks: text
// extraction, dangerous phrase scanning, required section checks and
// risk scoring. Nothing in here performs I/O beyond decoding the bytes
// it is handed.
package analysis

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DocumentFormat selects the extraction strategy for an uploaded file
type DocumentFormat int

const (
	FormatUnknown DocumentFormat = iota
	FormatPlainText
	FormatWordProcessor
	FormatPDF
)

// SupportedExtensions lists accepted file extensions in display order
var SupportedExtensions = []string{".txt", ".docx", ".pdf"}

func (f DocumentFormat) String() string {
	switch f {
	case FormatPlainText:
		return "text"
	case FormatWordProcessor:
		return "docx"
	case FormatPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// Extension returns the canonical file extension, including the dot
func (f DocumentFormat) Extension() string {
	switch f {
	case FormatPlainText:
		return ".txt"
	case FormatWordProcessor:
		return ".docx"
	case FormatPDF:
		return ".pdf"
	default:
		return ""
	}
}

// FormatFromFilename infers the format from the file extension, case-insensitively
func FormatFromFilename(filename string) (DocumentFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return FormatPlainText, nil
	case ".docx":
		return FormatWordProcessor, nil
	case ".pdf":
		return FormatPDF, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q, allowed: %s", ErrUnsupportedFormat, ext, strings.Join(SupportedExtensions, ", "))
	}
}
