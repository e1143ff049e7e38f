// Command reconcile restores user history entries that are missing for
// recorded submissions and drops the cached leaderboard when it repairs any.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"quiz-board/internal/bootstrap"
	"quiz-board/internal/config"
	"quiz-board/internal/logger"
	"quiz-board/internal/service"
	"quiz-board/internal/validation"

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg)
	if err != nil {
		l.Fatal("Failed to open stores", zap.Error(err))
	}
	defer stores.Close()

	retry := service.NewRetryPolicy(cfg.Submission)
	leaderboard := service.NewLeaderboardService(stores.Submissions, stores.Cache, cfg.Leaderboard.CacheTTL, retry)
	submissions := service.NewSubmissionService(stores.Quizzes, stores.Submissions, leaderboard, validation.NewValidator(), retry)

	repaired, err := submissions.ReconcileHistories(ctx)
	if err != nil {
		l.Fatal("History reconciliation failed", zap.Int("repaired", repaired), zap.Error(err))
	}
	l.Info("History reconciliation done", zap.Int("repaired", repaired))
}
