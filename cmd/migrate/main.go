package main

import (
	"context"
	_ "embed"
	"time"

	"go.uber.org/zap"

	"portfoliohub/pkg/config"
	"portfoliohub/pkg/db"
	"portfoliohub/pkg/logger"
)

//go:embed schema.sql
var schema string

func main() {
	log := logger.New()
	defer log.Sync()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}

	log.Info("Migration applied")
}
