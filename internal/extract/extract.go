// Package extract pulls plain text out of uploaded resume files.
//
// Supported formats:
//   - .pdf:  embedded text layer, with per-page OCR fallback for scans
//   - .docx: paragraphs and table cells, with OCR on embedded images
//   - .txt:  passthrough, UTF-8 only
package extract

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Format identifies a supported resume file type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
)

// minDirectYield is the trimmed-length threshold below which a direct
// extraction is treated as a scan and the OCR fallback kicks in. It applies
// identically to the PDF and DOCX paths.
const minDirectYield = 100

// ParseFormat maps a file extension (with or without the leading dot) to a
// Format. Unknown extensions fail with UnsupportedFormatError rather than
// degrading to a placeholder.
func ParseFormat(ext string) (Format, error) {
	tag := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	switch Format(tag) {
	case FormatPDF, FormatDOCX, FormatTXT:
		return Format(tag), nil
	}
	return "", &UnsupportedFormatError{Tag: tag}
}

// PageRenderer rasterizes each page of a PDF into an encoded image,
// in page order.
type PageRenderer interface {
	RenderPages(data []byte) ([][]byte, error)
}

// OCR converts one encoded image into text.
type OCR interface {
	ImageToText(ctx context.Context, image []byte) (string, error)
}

// Extractor dispatches per-format extraction. Renderer and OCR are injected
// so tests can observe when the fallback path runs.
type Extractor struct {
	renderer PageRenderer
	ocr      OCR
}

// NewExtractor creates an Extractor with the given collaborators.
func NewExtractor(renderer PageRenderer, ocr OCR) *Extractor {
	return &Extractor{renderer: renderer, ocr: ocr}
}

// Extract returns the text content of data according to format.
func (e *Extractor) Extract(ctx context.Context, data []byte, format Format) (string, error) {
	switch format {
	case FormatPDF:
		return e.extractPDF(ctx, data)
	case FormatDOCX:
		return e.extractDOCX(ctx, data)
	case FormatTXT:
		return e.extractTXT(data)
	}
	return "", &UnsupportedFormatError{Tag: string(format)}
}

func (e *Extractor) extractTXT(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", &ExtractionError{Format: FormatTXT, Message: "content is not valid UTF-8"}
	}
	return string(data), nil
}
