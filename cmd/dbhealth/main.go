package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/hvtran/accounting-bot/internal/common"
	"github.com/hvtran/accounting-bot/internal/repository"
)

func main() {
	cfg := common.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		ConnLifetime: cfg.Database.ConnLifetime,
		DialTimeout:  cfg.Database.DialTimeout,
	}, nil)
	if err != nil {
		log.Fatalf("opening DB: %v", err)
	}
	defer db.Close()

	if err := db.HealthCheck(ctx, 1*time.Second); err != nil {
		log.Fatalf("DB health: FAIL (%v)", err)
	}
	log.Println("DB health: OK")
}
