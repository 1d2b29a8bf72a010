package analysis

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

const docxNamespace = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("Failed to create docx part: %v", err)
	}
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><w:document %s><w:body>%s</w:body></w:document>`, docxNamespace, body)
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

// buildPDF assembles a minimal uncompressed PDF with one text run per page.
func buildPDF(pages ...string) []byte {
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
	}
	var kids []string
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}
	objs = append(objs,
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	)
	for i, text := range pages {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func TestExtractorFor(t *testing.T) {
	tests := []struct {
		format  DocumentFormat
		wantErr bool
	}{
		{FormatPlainText, false},
		{FormatWordProcessor, false},
		{FormatPDF, false},
		{FormatUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			ex, err := ExtractorFor(tt.format)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
				}
				return
			}
			if err != nil || ex == nil {
				t.Errorf("Expected extractor, got %v (err %v)", ex, err)
			}
		})
	}
}

func TestPlainTextExtractor(t *testing.T) {
	text, err := Extract([]byte("Предмет договора: поставка"), FormatPlainText)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != "Предмет договора: поставка" {
		t.Errorf("Unexpected text %q", text)
	}

	_, err = Extract([]byte{0xff, 0xfe, 0xfd}, FormatPlainText)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode, got %v", err)
	}
}

func TestDocxExtractorParagraphs(t *testing.T) {
	body := `<w:p><w:r><w:t>Предмет договора</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">Стоимость </w:t></w:r><w:r><w:t>услуг</w:t><w:tab/><w:t>100</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>в таблице</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`<w:p/>` +
		`<w:p><w:r><w:t>Срок</w:t><w:br/><w:t>действия</w:t></w:r></w:p>` +
		`<w:sectPr/>`

	text, err := Extract(buildDocx(t, body), FormatWordProcessor)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := "Предмет договора\nСтоимость услуг\t100\n\nСрок\nдействия"
	if text != expected {
		t.Errorf("Expected %q, got %q", expected, text)
	}
}

func TestDocxExtractorSkipsTextBoxParagraphs(t *testing.T) {
	body := `<w:p><w:r><w:t>до</w:t></w:r><w:r><w:txbxContent><w:p><w:r><w:t>рамка</w:t></w:r></w:p></w:txbxContent></w:r><w:r><w:t>после</w:t></w:r></w:p>`

	text, err := Extract(buildDocx(t, body), FormatWordProcessor)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != "допосле" {
		t.Errorf("Expected %q, got %q", "допосле", text)
	}
}

func TestDocxExtractorErrors(t *testing.T) {
	var noDocument bytes.Buffer
	zw := zip.NewWriter(&noDocument)
	w, _ := zw.Create("word/styles.xml")
	w.Write([]byte("<styles/>"))
	zw.Close()

	tests := []struct {
		name string
		data []byte
	}{
		{"not a zip", []byte("plain bytes")},
		{"missing document part", noDocument.Bytes()},
		{"malformed xml", buildDocx(t, `<w:p><w:r><w:t>oops</w:r></w:p>`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.data, FormatWordProcessor)
			if !errors.Is(err, ErrParse) {
				t.Errorf("Expected ErrParse, got %v", err)
			}
		})
	}
}

func TestPDFExtractorConcatenatesPagesWithoutSeparator(t *testing.T) {
	text, err := Extract(buildPDF("Alpha", "Beta"), FormatPDF)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != "AlphaBeta" {
		t.Errorf("Expected 'AlphaBeta', got %q", text)
	}
}

func TestPDFExtractorCorrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"garbage", []byte("definitely not a pdf document")},
		{"truncated", buildPDF("Alpha")[:40]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.data, FormatPDF)
			if !errors.Is(err, ErrParse) {
				t.Errorf("Expected ErrParse, got %v", err)
			}
		})
	}
}

func TestExtractEmptyContent(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format DocumentFormat
	}{
		{"text", []byte{}, FormatPlainText},
		{"docx", buildDocx(t, ""), FormatWordProcessor},
		{"pdf", buildPDF(""), FormatPDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := Extract(tt.data, tt.format)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if strings.TrimSpace(text) != "" {
				t.Errorf("Expected blank text, got %q", text)
			}
		})
	}
}

func TestFormatFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		expected DocumentFormat
		wantErr  bool
	}{
		{"contract.txt", FormatPlainText, false},
		{"CONTRACT.DOCX", FormatWordProcessor, false},
		{"scan.Pdf", FormatPDF, false},
		{"archive.tar.pdf", FormatPDF, false},
		{"legacy.doc", FormatUnknown, true},
		{"noext", FormatUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			format, err := FormatFromFilename(tt.filename)
			if tt.wantErr != (err != nil) {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
			}
			if format != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, format)
			}
		})
	}
}
