package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"

	"github.com/hvtran/accounting-bot/constants"
)

// Config tunes text extraction.
type Config struct {
	Languages string // tesseract language list, default "vie+eng"
	MaxPages  int    // PDF page cap, 0 = no limit
}

// Result carries the recognized text and how it was obtained.
type Result struct {
	Text     string
	Pages    int
	Method   string // "image-ocr" | "pdf-text" | "pdf-ocr"
	Duration time.Duration
}

// Extractor turns uploaded invoice files into text.
type Extractor struct {
	cfg    Config
	logger *slog.Logger
}

// NewExtractor creates an extractor with defaulted config.
func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if cfg.Languages == "" {
		cfg.Languages = "vie+eng"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// Extract picks a strategy based on the file extension of the upload.
func (e *Extractor) Extract(ctx context.Context, data []byte, filename string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(filename))
	e.logger.Debug("ocr.extract.start", "filename", filename, "ext", ext, "bytes", len(data))

	if !constants.IsAllowedExtension(ext) {
		e.logger.Warn("ocr.extract.unsupported", "ext", ext)
		return Result{}, fmt.Errorf("unsupported file type: %q", ext)
	}

	var (
		res Result
		err error
	)
	if constants.IsPDF(ext) {
		res, err = e.extractPDF(ctx, data)
	} else {
		res, err = e.extractImage(ctx, data)
	}
	res.Duration = time.Since(start)
	if err != nil {
		e.logger.Error("ocr.extract.error", "ext", ext, "error", err)
		return res, err
	}

	e.logger.Info("ocr.extract.ok",
		"method", res.Method,
		"pages", res.Pages,
		"text_len", len(res.Text),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) extractImage(ctx context.Context, data []byte) (Result, error) {
	text, err := e.recognize(ctx, data)
	if err != nil {
		return Result{Method: "image-ocr"}, err
	}
	return Result{Text: text, Pages: 1, Method: "image-ocr"}, nil
}

// recognize runs tesseract over one image.
func (e *Extractor) recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(strings.Split(e.cfg.Languages, "+")...); err != nil {
		return "", fmt.Errorf("setting ocr languages: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("loading image for ocr: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return strings.TrimSpace(text), nil
}
