package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hvtran/accounting-bot/internal/entity"
)

func approvalKeyboard(invoiceID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Duyệt", fmt.Sprintf("approve_%d", invoiceID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Từ chối", fmt.Sprintf("reject_%d", invoiceID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👁️ Xem ảnh", fmt.Sprintf("view_%d", invoiceID)),
		),
	)
}

// parseCallback splits "approve_17" into its action and invoice id.
func parseCallback(data string) (action string, invoiceID int64, ok bool) {
	action, idStr, found := strings.Cut(data, "_")
	if !found {
		return "", 0, false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, false
	}
	return action, id, true
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	action, invoiceID, ok := parseCallback(cq.Data)
	if !ok {
		b.answerCallback(cq.ID, "", false)
		return
	}

	user, err := b.users.GetByTelegramID(ctx, cq.From.ID)
	if err != nil {
		b.answerCallback(cq.ID, "⛔ Bạn chưa đăng ký với bot!", true)
		return
	}

	switch action {
	case "approve":
		b.callbackApprove(ctx, cq, user, invoiceID)
	case "reject":
		b.callbackReject(ctx, cq, user, invoiceID)
	case "view":
		b.callbackView(ctx, cq, invoiceID)
	default:
		b.answerCallback(cq.ID, "", false)
	}
}

func (b *Bot) callbackApprove(ctx context.Context, cq *tgbotapi.CallbackQuery, user *entity.User, invoiceID int64) {
	if !user.Role.CanApprove() {
		b.answerCallback(cq.ID, "⛔ Bạn không có quyền!", true)
		return
	}

	inv, err := b.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		b.answerCallback(cq.ID, "❌ Không tìm thấy hóa đơn!", true)
		return
	}
	if err := b.invoices.Approve(ctx, invoiceID, user.TelegramUserID, user.Username); err != nil {
		b.answerCallback(cq.ID, "❌ Hóa đơn không còn ở trạng thái chờ duyệt!", true)
		return
	}
	if err := b.users.IncrementApproved(ctx, user.TelegramUserID); err != nil {
		b.logger.Warn("bot.approve.counter_error", "error", err)
	}
	b.logger.Info("bot.invoice.approved", "invoice_id", invoiceID, "approver", user.TelegramUserID)

	if cq.Message != nil {
		edited := fmt.Sprintf("✅ <b>ĐÃ DUYỆT</b>\n\n%s\n\n👤 Người duyệt: @%s\n⏰ Thời gian: %s",
			cq.Message.Text, user.Username, time.Now().Format("02/01/2006 15:04"))
		edit := tgbotapi.NewEditMessageText(cq.Message.Chat.ID, cq.Message.MessageID, edited)
		edit.ParseMode = tgbotapi.ModeHTML
		if _, err := b.api.Send(edit); err != nil {
			b.logger.Warn("bot.approve.edit_error", "error", err)
		}
	}

	b.notify(inv.CreatedByUserID, fmt.Sprintf(
		"✅ Hóa đơn #%s của bạn đã được duyệt!\n👤 Người duyệt: @%s", inv.InvoiceNumber, user.Username))
	b.answerCallback(cq.ID, "✅ Đã duyệt hóa đơn!", false)
}

func (b *Bot) callbackReject(ctx context.Context, cq *tgbotapi.CallbackQuery, user *entity.User, invoiceID int64) {
	if !user.Role.CanApprove() {
		b.answerCallback(cq.ID, "⛔ Bạn không có quyền!", true)
		return
	}
	if cq.Message == nil {
		b.answerCallback(cq.ID, "", false)
		return
	}

	b.mu.Lock()
	b.pendingRejections[cq.Message.Chat.ID] = invoiceID
	b.mu.Unlock()

	b.reply(cq.Message.Chat.ID, "📝 Vui lòng nhập lý do từ chối hóa đơn này:")
	b.answerCallback(cq.ID, "", false)
}

// handleText completes a rejection started from the inline keyboard. Any other
// free text gets a gentle usage hint.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	b.mu.Lock()
	invoiceID, waiting := b.pendingRejections[msg.Chat.ID]
	if waiting {
		delete(b.pendingRejections, msg.Chat.ID)
	}
	b.mu.Unlock()

	if !waiting {
		b.reply(msg.Chat.ID, "💡 Gửi ảnh hoặc file PDF hóa đơn để bắt đầu, hoặc dùng /help để xem hướng dẫn.")
		return
	}

	user, err := b.touchUser(ctx, msg)
	if err != nil || !user.Role.CanApprove() {
		b.reply(msg.Chat.ID, "⛔ Bạn không có quyền!")
		return
	}

	reason := strings.TrimSpace(msg.Text)
	inv, err := b.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		b.reply(msg.Chat.ID, "❌ Không tìm thấy hóa đơn!")
		return
	}
	if err := b.invoices.Reject(ctx, invoiceID, user.TelegramUserID, user.Username, reason); err != nil {
		b.reply(msg.Chat.ID, "❌ Hóa đơn không còn ở trạng thái chờ duyệt!")
		return
	}
	b.logger.Info("bot.invoice.rejected", "invoice_id", invoiceID, "approver", user.TelegramUserID)

	b.reply(msg.Chat.ID, fmt.Sprintf("❌ Đã từ chối hóa đơn #%s\n📝 Lý do: %s", inv.InvoiceNumber, reason))
	b.notify(inv.CreatedByUserID, fmt.Sprintf(
		"❌ Hóa đơn #%s đã bị từ chối\n\n📝 Lý do: %s\n👤 Người từ chối: @%s",
		inv.InvoiceNumber, reason, user.Username))
}

func (b *Bot) callbackView(ctx context.Context, cq *tgbotapi.CallbackQuery, invoiceID int64) {
	inv, err := b.invoices.GetByID(ctx, invoiceID)
	if err != nil || inv.FilePath == "" {
		b.answerCallback(cq.ID, "❌ Không tìm thấy file ảnh!", true)
		return
	}
	if cq.Message == nil {
		b.answerCallback(cq.ID, "", false)
		return
	}

	photo := tgbotapi.NewPhoto(cq.Message.Chat.ID, tgbotapi.FilePath(inv.FilePath))
	photo.Caption = fmt.Sprintf("📄 Hóa đơn #%s", inv.InvoiceNumber)
	if _, err := b.api.Send(photo); err != nil {
		b.answerCallback(cq.ID, "❌ Không thể tải ảnh!", true)
		return
	}
	b.answerCallback(cq.ID, "", false)
}

// notify sends a best-effort direct message to the submitter.
func (b *Bot) notify(telegramID int64, text string) {
	if telegramID == 0 {
		return
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(telegramID, text)); err != nil {
		b.logger.Warn("bot.notify.error", "telegram_user_id", telegramID, "error", err)
	}
}

func (b *Bot) answerCallback(id, text string, alert bool) {
	cb := tgbotapi.NewCallback(id, text)
	if alert {
		cb = tgbotapi.NewCallbackWithAlert(id, text)
	}
	if _, err := b.api.Request(cb); err != nil {
		b.logger.Warn("bot.callback.answer_error", "error", err)
	}
}
