package extract

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	fitz "github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
)

// FitzRenderer rasterizes PDF pages with MuPDF.
type FitzRenderer struct{}

// NewFitzRenderer creates a FitzRenderer.
func NewFitzRenderer() *FitzRenderer {
	return &FitzRenderer{}
}

// RenderPages renders every page to PNG bytes, in page order.
func (r *FitzRenderer) RenderPages(data []byte) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for rendering: %w", err)
	}
	defer doc.Close()

	pages := make([][]byte, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.Image(i)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", i+1, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}
		pages = append(pages, buf.Bytes())
	}
	return pages, nil
}

// TesseractOCR runs text recognition through a local Tesseract install.
// A fresh client per call keeps it safe under concurrent batch processing.
type TesseractOCR struct {
	languages []string
}

// NewTesseractOCR creates a TesseractOCR. With no languages given Tesseract
// uses its default (eng).
func NewTesseractOCR(languages ...string) *TesseractOCR {
	return &TesseractOCR{languages: languages}
}

// ImageToText recognizes text in one encoded image.
func (o *TesseractOCR) ImageToText(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if len(o.languages) > 0 {
		if err := client.SetLanguage(o.languages...); err != nil {
			return "", fmt.Errorf("failed to set OCR languages: %w", err)
		}
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to load image for OCR: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR recognition failed: %w", err)
	}
	return text, nil
}
