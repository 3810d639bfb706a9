package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hvtran/accounting-bot/internal/bot"
	"github.com/hvtran/accounting-bot/internal/common"
	"github.com/hvtran/accounting-bot/internal/export"
	"github.com/hvtran/accounting-bot/internal/extract"
	"github.com/hvtran/accounting-bot/internal/extract/gemini"
	"github.com/hvtran/accounting-bot/internal/extract/openai"
	"github.com/hvtran/accounting-bot/internal/ocr"
	"github.com/hvtran/accounting-bot/internal/repository"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		ConnLifetime: cfg.Database.ConnLifetime,
		DialTimeout:  cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	users := repository.NewUserRepository(db, logger)
	invoices := repository.NewInvoiceRepository(db, logger)
	exporter := export.NewService(invoices, logger)

	recognizer := ocr.NewExtractor(ocr.Config{
		Languages: strings.Join(cfg.OCR.Languages, "+"),
	}, logger)

	gen, closeGen, err := newTextGenerator(ctx, cfg.AI, logger)
	if err != nil {
		logger.Error("creating ai provider", "provider", cfg.AI.Provider, "error", err)
		os.Exit(1)
	}
	if closeGen != nil {
		defer closeGen()
	}
	orchestrator := extract.NewOrchestrator(gen, logger)

	b, err := bot.New(cfg.Telegram, users, invoices, recognizer, orchestrator, exporter, logger)
	if err != nil {
		logger.Error("creating bot", "error", err)
		os.Exit(1)
	}

	logger.Info("accounting bot starting", "provider", cfg.AI.Provider)
	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("bot stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("accounting bot stopped")
}

func newTextGenerator(ctx context.Context, cfg common.AIConfig, logger *slog.Logger) (extract.TextGenerator, func(), error) {
	switch cfg.Provider {
	case "gemini":
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { _ = client.Close() }, nil
	case "openai":
		client := openai.NewClient(openai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.OpenAIModel,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger)
		return client, nil, nil
	default:
		return nil, nil, common.NewAppError("CONFIG_ERROR", "unknown AI provider "+cfg.Provider, common.ErrInvalidInput)
	}
}
