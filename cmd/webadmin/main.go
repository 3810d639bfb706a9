package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hvtran/accounting-bot/internal/common"
	"github.com/hvtran/accounting-bot/internal/export"
	"github.com/hvtran/accounting-bot/internal/repository"
	"github.com/hvtran/accounting-bot/internal/webadmin"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.ValidateAdmin(); err != nil {
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

	invoices := repository.NewInvoiceRepository(db, logger)
	users := repository.NewUserRepository(db, logger)
	exporter := export.NewService(invoices, logger)

	srv := webadmin.NewServer(cfg.Admin, invoices, users, exporter, logger)
	logger.Info("admin panel starting", "addr", cfg.Admin.HTTPAddr)
	err = srv.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("admin panel stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("admin panel stopped")
}
