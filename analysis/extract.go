package analysis

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Extractor decodes the raw bytes of one document format into plain text
type Extractor interface {
	Extract(data []byte) (string, error)
}

// ExtractorFor returns the extractor registered for the format
func ExtractorFor(format DocumentFormat) (Extractor, error) {
	switch format {
	case FormatPlainText:
		return PlainTextExtractor{}, nil
	case FormatWordProcessor:
		return DocxExtractor{}, nil
	case FormatPDF:
		return PDFExtractor{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Extract decodes data according to format
func Extract(data []byte, format DocumentFormat) (string, error) {
	extractor, err := ExtractorFor(format)
	if err != nil {
		return "", err
	}
	return extractor.Extract(data)
}

// PlainTextExtractor accepts UTF-8 text as is
type PlainTextExtractor struct{}

func (PlainTextExtractor) Extract(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: invalid UTF-8 byte sequence", ErrDecode)
	}
	return string(data), nil
}

// DocxExtractor reads the body paragraphs of a WordprocessingML package
type DocxExtractor struct{}

const docxMainPart = "word/document.xml"

func (DocxExtractor) Extract(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a docx container: %v", ErrParse, err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == docxMainPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", fmt.Errorf("%w: %s not found", ErrParse, docxMainPart)
	}

	rc, err := part.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", ErrParse, docxMainPart, err)
	}
	defer rc.Close()

	paragraphs, err := docxParagraphs(rc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}
	return strings.Join(paragraphs, "\n"), nil
}

// docxParagraphs returns the text of every paragraph that is a direct
// child of w:body, in document order. Table cells and text boxes are
// not body paragraphs and are skipped.
func docxParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		stack      []string
		paragraphs []string
		current    strings.Builder
		inPara     bool
		paraDepth  int
		nested     int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed %s: %w", docxMainPart, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			stack = append(stack, el.Name.Local)
			name := el.Name.Local
			switch {
			case name == "p" && !inPara && len(stack) >= 2 && stack[len(stack)-2] == "body":
				inPara = true
				paraDepth = len(stack)
				current.Reset()
			case name == "p" && inPara:
				nested++
			case inPara && nested == 0 && name == "tab":
				current.WriteByte('\t')
			case inPara && nested == 0 && (name == "br" || name == "cr"):
				current.WriteByte('\n')
			case inPara && nested == 0 && name == "noBreakHyphen":
				current.WriteByte('-')
			}
		case xml.CharData:
			if inPara && nested == 0 && len(stack) > 0 && stack[len(stack)-1] == "t" {
				current.Write(el)
			}
		case xml.EndElement:
			if inPara && el.Name.Local == "p" {
				if len(stack) == paraDepth {
					paragraphs = append(paragraphs, current.String())
					inPara = false
				} else {
					nested--
				}
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	return paragraphs, nil
}

// PDFExtractor concatenates the text layer of every page. Pages are
// joined with no separator.
type PDFExtractor struct{}

func (PDFExtractor) Extract(data []byte) (text string, err error) {
	// The pdf package panics on some malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: malformed pdf: %v", ErrParse, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: could not read pdf: %v", ErrParse, err)
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d has no extractable text: %v", ErrParse, i, err)
		}
		sb.WriteString(pageText)
	}

	return sb.String(), nil
}
