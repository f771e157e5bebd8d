package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/app"
	"alfredoptarigan/resume-ranker/internal/config"
	"alfredoptarigan/resume-ranker/internal/handlers"
	"alfredoptarigan/resume-ranker/internal/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.Log.JSON, cfg.Log.Debug || cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	zapLogger.Info("config loaded",
		zap.String("env", cfg.Server.Env),
		zap.Int("eval_concurrency", cfg.Worker.Concurrency),
	)

	// Initialize services
	ctx := context.Background()
	components, err := app.Build(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to initialize services", zap.Error(err))
	}

	// Initialize Handlers
	evaluationHandler := handlers.NewEvaluationHandler(
		components.Evaluator,
		handlers.NewUploadParser(cfg.Storage.MaxFileSize),
		components.LLM,
		zapLogger,
	)
	healthHandler := handlers.NewHealthHandler(components.LLM)

	// Create Fiber app
	server := fiber.New(fiber.Config{
		AppName:      "Resume Ranker",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxRequestSize),
		Views:        handlers.NewViewEngine(),
		ErrorHandler: handlers.NewErrorHandler(zapLogger),
	})

	// Middleware
	server.Use(recover.New())
	server.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	server.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	server.Static("/static", cfg.Paths.Static)
	handlers.SetupRoutes(server, evaluationHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zapLogger.Info("shutting down server")
		if err := server.ShutdownWithTimeout(30 * time.Second); err != nil {
			zapLogger.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zapLogger.Info("server starting",
		zap.String("addr", addr),
		zap.String("url", "http://localhost"+addr),
	)

	if err := server.Listen(addr); err != nil {
		zapLogger.Fatal("failed to start server", zap.Error(err))
	}
}
