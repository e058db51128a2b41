package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyRenderer returns canned page images and records invocations.
type spyRenderer struct {
	pages [][]byte
	err   error
	calls int
}

func (r *spyRenderer) RenderPages(data []byte) ([][]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.pages, nil
}

// spyOCR echoes a per-image label and records every image it was given.
type spyOCR struct {
	texts map[string]string
	err   error
	seen  []string
}

func (o *spyOCR) ImageToText(_ context.Context, image []byte) (string, error) {
	o.seen = append(o.seen, string(image))
	if o.err != nil {
		return "", o.err
	}
	if text, ok := o.texts[string(image)]; ok {
		return text, nil
	}
	return "ocr(" + string(image) + ")", nil
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		ext     string
		want    Format
		wantErr bool
	}{
		{"pdf with dot", ".pdf", FormatPDF, false},
		{"pdf without dot", "pdf", FormatPDF, false},
		{"uppercase", "PDF", FormatPDF, false},
		{"docx", "docx", FormatDOCX, false},
		{"txt", "txt", FormatTXT, false},
		{"doc is unsupported", "doc", "", true},
		{"rtf is unsupported", "rtf", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.ext)
			if tt.wantErr {
				var unsupported *UnsupportedFormatError
				require.Error(t, err)
				assert.True(t, errors.As(err, &unsupported), "want UnsupportedFormatError, got %T", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractTXT(t *testing.T) {
	e := NewExtractor(&spyRenderer{}, &spyOCR{})

	text, err := e.Extract(context.Background(), []byte("plain resume text"), FormatTXT)
	require.NoError(t, err)
	assert.Equal(t, "plain resume text", text)

	_, err = e.Extract(context.Background(), []byte{0xff, 0xfe, 0xfd}, FormatTXT)
	var extractionErr *ExtractionError
	require.Error(t, err)
	assert.True(t, errors.As(err, &extractionErr))
}

func TestExtractUnknownFormat(t *testing.T) {
	e := NewExtractor(&spyRenderer{}, &spyOCR{})
	_, err := e.Extract(context.Background(), []byte("x"), Format("odt"))

	var unsupported *UnsupportedFormatError
	require.Error(t, err)
	assert.True(t, errors.As(err, &unsupported))
}

func TestExtractPDFTextLayerSkipsOCR(t *testing.T) {
	// One page carrying well over the fallback threshold of direct text.
	long := strings.Repeat("Senior engineer with production Go experience. ", 5)
	data := buildPDF(t, long)

	renderer := &spyRenderer{}
	ocr := &spyOCR{}
	e := NewExtractor(renderer, ocr)

	text, err := e.Extract(context.Background(), data, FormatPDF)
	require.NoError(t, err)
	assert.Contains(t, text, "Senior engineer")
	assert.GreaterOrEqual(t, len(strings.TrimSpace(text)), minDirectYield)

	assert.Zero(t, renderer.calls, "renderer must not run when the text layer suffices")
	assert.Empty(t, ocr.seen, "OCR must not run when the text layer suffices")
}

func TestExtractPDFScannedFallsBackToOCR(t *testing.T) {
	// A page with no text layer forces the OCR path.
	data := buildPDF(t, "")

	renderer := &spyRenderer{pages: [][]byte{[]byte("p1"), []byte("p2"), []byte("p3")}}
	ocr := &spyOCR{texts: map[string]string{
		"p1": "first ",
		"p2": "second ",
		"p3": "third",
	}}
	e := NewExtractor(renderer, ocr)

	text, err := e.Extract(context.Background(), data, FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, []string{"p1", "p2", "p3"}, ocr.seen, "OCR must run once per rendered page, in page order")
	assert.Equal(t, "first second third", text)
}

func TestExtractPDFOCRFailureSurfaces(t *testing.T) {
	data := buildPDF(t, "")

	renderer := &spyRenderer{pages: [][]byte{[]byte("p1")}}
	ocr := &spyOCR{err: errors.New("tesseract not installed")}
	e := NewExtractor(renderer, ocr)

	_, err := e.Extract(context.Background(), data, FormatPDF)
	var extractionErr *ExtractionError
	require.Error(t, err)
	require.True(t, errors.As(err, &extractionErr))
	assert.ErrorContains(t, err, "OCR failed")
}

func TestExtractPDFRenderFailureSurfaces(t *testing.T) {
	data := buildPDF(t, "")

	renderer := &spyRenderer{err: errors.New("mupdf unavailable")}
	e := NewExtractor(renderer, &spyOCR{})

	_, err := e.Extract(context.Background(), data, FormatPDF)
	var extractionErr *ExtractionError
	require.Error(t, err)
	assert.True(t, errors.As(err, &extractionErr))
}

// buildPDF assembles a minimal single-page PDF. With text it carries a
// Helvetica text layer; with empty text the page has no content stream.
func buildPDF(t *testing.T, text string) []byte {
	t.Helper()

	var objects []string
	if text == "" {
		objects = []string{
			"<< /Type /Catalog /Pages 2 0 R >>",
			"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
		}
	} else {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects = []string{
			"<< /Type /Catalog /Pages 2 0 R >>",
			"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
			"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		}
	}

	var sb strings.Builder
	sb.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects)+1)
	for i, obj := range objects {
		offsets[i+1] = sb.Len()
		fmt.Fprintf(&sb, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefStart := sb.Len()
	fmt.Fprintf(&sb, "xref\n0 %d\n", len(objects)+1)
	sb.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&sb, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&sb, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefStart)

	return []byte(sb.String())
}
