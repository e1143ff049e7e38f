// @title Quiz Board API
// @version 1.0
// @description Quiz CRUD, answer scoring and a global leaderboard.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quiz-board/internal/bootstrap"
	"quiz-board/internal/config"
	"quiz-board/internal/handler"
	"quiz-board/internal/logger"
	"quiz-board/internal/middleware"
	"quiz-board/internal/service"
	"quiz-board/internal/validation"

	_ "quiz-board/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	stores, err := bootstrap.OpenStores(startCtx, cfg)
	cancelStart()
	if err != nil {
		appLogger.Fatal("Failed to open stores", zap.Error(err))
	}
	defer stores.Close()

	validator := validation.NewValidator()
	retry := service.NewRetryPolicy(cfg.Submission)

	leaderboardService := service.NewLeaderboardService(stores.Submissions, stores.Cache, cfg.Leaderboard.CacheTTL, retry)
	quizService := service.NewQuizService(stores.Quizzes, validator, retry)
	submissionService := service.NewSubmissionService(stores.Quizzes, stores.Submissions, leaderboardService, validator, retry)

	quizHandler := handler.NewQuizHandler(quizService, submissionService, leaderboardService)
	healthHandler := handler.NewHealthHandler(stores.Health)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept," + handler.IdempotencyKeyHeader,
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/healthz", healthHandler.Health)
	quizHandler.RegisterRoutes(app)

	go func() {
		appLogger.Info("Starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("store", cfg.Store.Driver),
			zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
