package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hvtran/accounting-bot/internal/entity"
	"github.com/hvtran/accounting-bot/internal/invoice"
)

// Orchestrator turns raw OCR text into a normalized invoice. It owns no
// state besides its collaborators and is safe for concurrent use.
type Orchestrator struct {
	gen    TextGenerator
	logger *slog.Logger
}

func NewOrchestrator(gen TextGenerator, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{gen: gen, logger: logger}
}

// ExtractInvoice builds the extraction prompt, invokes the text-generation
// collaborator, decodes its reply leniently and normalizes the result. Only a
// provider failure returns an error (wrapped in ErrExtractionUnavailable);
// malformed or empty model output degrades to a default-populated invoice.
func (o *Orchestrator) ExtractInvoice(ctx context.Context, ocrText string) (*entity.Invoice, error) {
	reqID := uuid.New().String()
	start := time.Now()

	o.logger.Info("extract.llm.start", "req_id", reqID, "ocr_bytes", len(ocrText))

	reply, err := o.gen.GenerateText(ctx, BuildExtractionPrompt(ocrText))
	if err != nil {
		o.logger.Error("extract.llm.provider_error",
			"req_id", reqID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("%w: %v", ErrExtractionUnavailable, err)
	}

	fields := DecodeResponse(reply)
	if len(fields) == 0 {
		o.logger.Warn("extract.llm.empty_response",
			"req_id", reqID, "reply_bytes", len(reply),
		)
	}

	inv := invoice.Normalize(invoice.DecodeRaw(fields))
	inv.RawOCRText = ocrText

	if len(fields) > 0 {
		if err := CheckSchema(fields); err != nil {
			o.logger.Warn("extract.llm.schema_mismatch", "req_id", reqID, "error", err)
			appendReviewNote(inv, "Dữ liệu trích xuất không đúng định dạng, cần kiểm tra lại")
		}
	}

	o.logger.Info("extract.llm.ok",
		"req_id", reqID,
		"invoice_number", inv.InvoiceNumber,
		"supplier", inv.SupplierName,
		"total", inv.TotalAmount,
		"category", inv.Category,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return inv, nil
}

func appendReviewNote(inv *entity.Invoice, note string) {
	if inv.Notes != "" {
		inv.Notes += "; "
	}
	inv.Notes += note
}
