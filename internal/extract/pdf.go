package extract

import (
	"bytes"
	"context"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF reads the embedded text layer page by page. When the direct
// yield is below minDirectYield the file is treated as a scanned PDF: every
// page is rendered to an image and run through OCR, concatenated in page
// order. OCR backend failures surface as ExtractionError, never as a silent
// empty result.
func (e *Extractor) extractPDF(ctx context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: FormatPDF, Message: "failed to open PDF", Cause: err}
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not make the document a scan;
			// keep going and let the yield check decide.
			log.Printf("pdf: failed to read text layer of page %d: %v", i, err)
			continue
		}
		sb.WriteString(text)
	}

	content := sb.String()
	if len(strings.TrimSpace(content)) < minDirectYield {
		log.Printf("pdf: text layer yielded %d chars, falling back to OCR", len(strings.TrimSpace(content)))
		return e.ocrPDF(ctx, data)
	}
	return content, nil
}

// ocrPDF renders each page and OCRs it. Any render or OCR failure aborts the
// whole document: a missing OCR backend must not look like an empty resume.
func (e *Extractor) ocrPDF(ctx context.Context, data []byte) (string, error) {
	pages, err := e.renderer.RenderPages(data)
	if err != nil {
		return "", &ExtractionError{Format: FormatPDF, Message: "failed to render pages for OCR", Cause: err}
	}

	var sb strings.Builder
	for _, img := range pages {
		text, err := e.ocr.ImageToText(ctx, img)
		if err != nil {
			return "", &ExtractionError{Format: FormatPDF, Message: "OCR failed", Cause: err}
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}
