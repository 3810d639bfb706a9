package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Embedded text shorter than this is treated as a scanned PDF and pushed
// through page rendering plus OCR instead.
const minEmbeddedTextLen = 32

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (Result, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return Result{Method: "pdf-text"}, fmt.Errorf("opening pdf: %w", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if e.cfg.MaxPages > 0 && pages > e.cfg.MaxPages {
		pages = e.cfg.MaxPages
	}

	// Digital PDFs carry their text, no OCR needed.
	var b strings.Builder
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return Result{Method: "pdf-text"}, err
		}
		text, err := doc.Text(i)
		if err != nil {
			e.logger.Warn("ocr.pdf.text_page_error", "page", i, "error", err)
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	if text := strings.TrimSpace(b.String()); len(text) >= minEmbeddedTextLen {
		return Result{Text: text, Pages: pages, Method: "pdf-text"}, nil
	}

	e.logger.Debug("ocr.pdf.no_embedded_text", "pages", pages)
	return e.pdfOCR(ctx, doc, pages)
}

// pdfOCR renders each page to PNG and recognizes it.
func (e *Extractor) pdfOCR(ctx context.Context, doc *fitz.Document, pages int) (Result, error) {
	var b strings.Builder
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return Result{Method: "pdf-ocr"}, err
		}

		img, err := doc.Image(i)
		if err != nil {
			e.logger.Warn("ocr.pdf.render_page_error", "page", i, "error", err)
			continue
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return Result{Method: "pdf-ocr"}, fmt.Errorf("encoding page %d: %w", i, err)
		}

		text, err := e.recognize(ctx, buf.Bytes())
		if err != nil {
			e.logger.Warn("ocr.pdf.page_ocr_error", "page", i, "error", err)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		b.WriteString(text)
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return Result{Method: "pdf-ocr", Pages: pages}, fmt.Errorf("no text recognized in pdf")
	}
	return Result{Text: text, Pages: pages, Method: "pdf-ocr"}, nil
}
