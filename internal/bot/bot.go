package bot

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hvtran/accounting-bot/internal/common"
	"github.com/hvtran/accounting-bot/internal/entity"
	"github.com/hvtran/accounting-bot/internal/export"
	"github.com/hvtran/accounting-bot/internal/ocr"
	"github.com/hvtran/accounting-bot/internal/repository"
)

// Recognizer turns an uploaded file into text.
type Recognizer interface {
	Extract(ctx context.Context, data []byte, filename string) (ocr.Result, error)
}

// InvoiceExtractor turns recognized text into a normalized invoice.
type InvoiceExtractor interface {
	ExtractInvoice(ctx context.Context, ocrText string) (*entity.Invoice, error)
}

// Bot wires the Telegram transport to the invoice pipeline.
type Bot struct {
	api       *tgbotapi.BotAPI
	cfg       common.TelegramConfig
	users     *repository.UserRepository
	invoices  *repository.InvoiceRepository
	ocr       Recognizer
	extractor InvoiceExtractor
	exporter  *export.Service
	logger    *slog.Logger

	// chat id -> invoice id awaiting a rejection reason
	mu                sync.Mutex
	pendingRejections map[int64]int64
}

// New creates the bot and authenticates against the Telegram API.
func New(cfg common.TelegramConfig, users *repository.UserRepository, invoices *repository.InvoiceRepository,
	rec Recognizer, ext InvoiceExtractor, exporter *export.Service, logger *slog.Logger) (*Bot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, common.WrapError(err, "failed to authenticate telegram bot")
	}
	logger.Info("bot.authorized", "username", api.Self.UserName)

	return &Bot{
		api:               api,
		cfg:               cfg,
		users:             users,
		invoices:          invoices,
		ocr:               rec,
		extractor:         ext,
		exporter:          exporter,
		logger:            logger,
		pendingRejections: make(map[int64]int64),
	}, nil
}

// Run long-polls for updates until the context is canceled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(b.cfg.PollTimeout.Seconds())
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot.polling.start", "timeout_s", u.Timeout)
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot.polling.stop")
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("bot.dispatch.panic", "panic", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message == nil:
		// ignore edits, channel posts and the like
	case update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case len(update.Message.Photo) > 0:
		b.handlePhoto(ctx, update.Message)
	case update.Message.Document != nil:
		b.handleDocument(ctx, update.Message)
	case update.Message.Text != "":
		b.handleText(ctx, update.Message)
	}
}

// touchUser registers or refreshes the sender and returns their record.
func (b *Bot) touchUser(ctx context.Context, msg *tgbotapi.Message) (*entity.User, error) {
	from := msg.From
	if from == nil {
		return nil, common.ErrInvalidInput
	}
	return b.users.UpsertFromTelegram(ctx, from.ID, from.UserName, from.FirstName, from.LastName)
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("bot.send.error", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) replyWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("bot.send.error", "chat_id", chatID, "error", err)
	}
}
