package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/niva-data/ndbview/services/api/config"
	"github.com/niva-data/ndbview/services/api/db"
	httpserver "github.com/niva-data/ndbview/services/api/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := cfg.NewLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db connection error: %v", err)
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		logger.WithError(err).Warn("database not reachable yet; requests will retry on demand")
	}

	srv := httpserver.New(cfg, store, logger)
	logger.WithField("addr", cfg.ListenAddr()).Info("REST API listening")

	if err := srv.Run(ctx); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}
