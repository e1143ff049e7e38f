package main

import (
	"context"
	"log"
	"time"

	"quiz-board/internal/config"
	"quiz-board/internal/database"
	"quiz-board/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	if cfg.Store.Driver != config.StoreDriverOracle {
		l.Info("Store driver has no schema to migrate", zap.String("driver", cfg.Store.Driver))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.NewSQLXOracleDB(ctx, cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db)
	if err != nil {
		l.Fatal("Failed to load migrations", zap.Error(err))
	}
	defer migrator.Close()

	applied, err := migrator.Up(ctx)
	if err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}
	l.Info("Migrations complete", zap.Int("applied", applied))
}
