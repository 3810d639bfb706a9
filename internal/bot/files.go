package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hvtran/accounting-bot/constants"
	"github.com/hvtran/accounting-bot/internal/entity"
	"github.com/hvtran/accounting-bot/internal/extract"
	"github.com/hvtran/accounting-bot/internal/invoice"
	"github.com/hvtran/accounting-bot/internal/repository"
)

func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	b.reply(msg.Chat.ID, "📸 Đang xử lý ảnh của bạn, vui lòng đợi...")

	// largest rendition is last
	photo := msg.Photo[len(msg.Photo)-1]
	if b.tooLarge(msg.Chat.ID, photo.FileSize) {
		return
	}
	b.processUpload(ctx, msg, photo.FileID, "jpg")
}

func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	doc := msg.Document
	ext := constants.NormalizeExt(filepath.Ext(doc.FileName))
	if !constants.IsAllowedExtension(ext) {
		b.reply(msg.Chat.ID, "❌ Chỉ hỗ trợ file PDF, JPG, JPEG hoặc PNG. Vui lòng gửi file đúng định dạng.")
		return
	}
	if b.tooLarge(msg.Chat.ID, doc.FileSize) {
		return
	}

	b.reply(msg.Chat.ID, "📄 Đang xử lý file của bạn...")
	b.processUpload(ctx, msg, doc.FileID, ext)
}

func (b *Bot) tooLarge(chatID int64, sizeBytes int) bool {
	if sizeBytes > b.cfg.MaxFileSizeMB*1024*1024 {
		b.reply(chatID, fmt.Sprintf("❌ File quá lớn! Kích thước tối đa: %dMB", b.cfg.MaxFileSizeMB))
		return true
	}
	return false
}

// processUpload runs the full pipeline: download, OCR, extraction, save.
func (b *Bot) processUpload(ctx context.Context, msg *tgbotapi.Message, fileID, ext string) {
	user, err := b.touchUser(ctx, msg)
	if err != nil {
		b.logger.Error("bot.upload.user_error", "error", err)
		b.reply(msg.Chat.ID, "❌ Có lỗi xảy ra. Vui lòng thử lại.")
		return
	}

	data, err := b.download(ctx, fileID)
	if err != nil {
		b.logger.Error("bot.upload.download_error", "error", err)
		b.reply(msg.Chat.ID, "❌ Không thể tải file từ Telegram. Vui lòng thử lại.")
		return
	}

	filename := fmt.Sprintf("invoice_%d_%s.%s", user.TelegramUserID, time.Now().Format("20060102_150405"), ext)
	filePath := b.persistFile(filename, data)

	b.reply(msg.Chat.ID, "🔍 Đang đọc văn bản...")
	res, err := b.ocr.Extract(ctx, data, filename)
	if err != nil || strings.TrimSpace(res.Text) == "" {
		b.logger.Warn("bot.upload.ocr_failed", "error", err)
		b.reply(msg.Chat.ID, "❌ Không thể đọc được văn bản. Vui lòng thử lại với ảnh rõ hơn.")
		return
	}

	b.reply(msg.Chat.ID, "🤖 Đang phân tích thông tin hóa đơn...")
	inv, err := b.extractor.ExtractInvoice(ctx, res.Text)
	if err != nil {
		if errors.Is(err, extract.ErrExtractionUnavailable) {
			b.reply(msg.Chat.ID, "❌ Dịch vụ phân tích đang quá tải. Vui lòng thử lại sau ít phút.")
		} else {
			b.reply(msg.Chat.ID, "❌ Không thể trích xuất thông tin hóa đơn. Vui lòng kiểm tra lại ảnh.")
		}
		return
	}

	inv.CreatedByUserID = user.TelegramUserID
	inv.CreatedByUsername = user.Username
	inv.FilePath = filePath

	if err := b.saveInvoice(ctx, inv); err != nil {
		b.logger.Error("bot.upload.save_error", "error", err)
		b.reply(msg.Chat.ID, "❌ Lỗi khi lưu dữ liệu. Vui lòng thử lại.")
		return
	}
	if err := b.users.IncrementSubmitted(ctx, user.TelegramUserID); err != nil {
		b.logger.Warn("bot.upload.counter_error", "error", err)
	}

	b.reply(msg.Chat.ID, formatSaved(inv))
}

// saveInvoice retries once with a fresh generated number when the extracted
// one collides with an earlier submission.
func (b *Bot) saveInvoice(ctx context.Context, inv *entity.Invoice) error {
	err := b.invoices.Create(ctx, inv)
	if !errors.Is(err, repository.ErrDuplicateInvoiceNumber) {
		return err
	}
	b.logger.Warn("bot.upload.duplicate_number", "invoice_number", inv.InvoiceNumber)
	inv.InvoiceNumber = invoice.GenerateInvoiceNumber()
	if inv.Notes != "" {
		inv.Notes += "; "
	}
	inv.Notes += "Số hóa đơn trùng, đã cấp số mới"
	return b.invoices.Create(ctx, inv)
}

func (b *Bot) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram file download: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, int64(b.cfg.MaxFileSizeMB)*1024*1024+1))
}

// persistFile keeps the original upload on disk for the view callback.
// Failure is not fatal, the invoice is still processed.
func (b *Bot) persistFile(filename string, data []byte) string {
	if b.cfg.DataDir == "" {
		return ""
	}
	if err := os.MkdirAll(b.cfg.DataDir, 0o755); err != nil {
		b.logger.Warn("bot.upload.mkdir_error", "error", err)
		return ""
	}
	path := filepath.Join(b.cfg.DataDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		b.logger.Warn("bot.upload.write_error", "error", err)
		return ""
	}
	return path
}
