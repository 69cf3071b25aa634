package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/review-insight/backend/internal/analysis"
	"github.com/review-insight/backend/internal/api/handlers"
	"github.com/review-insight/backend/internal/artifacts"
	"github.com/review-insight/backend/internal/llm"
	"github.com/review-insight/backend/internal/metrics"
	"github.com/review-insight/backend/internal/middleware/security"
	"github.com/review-insight/backend/internal/middleware/validation"
	appValidation "github.com/review-insight/backend/internal/validation"
	"github.com/review-insight/backend/pkg/config"
	appLogger "github.com/review-insight/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Review Insight API Server")

	metrics.Init()

	store, err := artifacts.NewStore(cfg.Artifacts.DataDir)
	if err != nil {
		appLogger.Fatal("Failed to prepare artifact store", zap.Error(err))
	}

	llmClient := llm.NewClient(llm.Config{
		APIKey:        cfg.LLM.APIKey,
		AnalysisModel: cfg.LLM.AnalysisModel,
		SummaryModel:  cfg.LLM.SummaryModel,
		Seed:          cfg.LLM.Seed,
		MaxTokens:     cfg.LLM.MaxTokens,
		TimeoutSec:    cfg.LLM.TimeoutSec,
		SystemPrompt:  cfg.LLM.SystemPrompt,
	})

	pipeline := analysis.NewPipeline(llmClient, cfg.Analysis.BatchSize, cfg.Analysis.MinTextLength)
	harness := appValidation.NewHarness(llmClient, cfg.Analysis.BatchSize)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))
	app.Use(validation.Middleware(validation.Config{
		MaxUploadSize: cfg.Server.BodyLimit,
		Logger:        appLogger.GetLogger(),
	}))

	analyzeHandler := handlers.NewAnalyzeHandler(pipeline, llmClient, store)
	validateHandler := handlers.NewValidateHandler(harness, cfg.Artifacts.GoldStandard)
	artifactHandler := handlers.NewArtifactHandler(store)

	api := app.Group("/api/v1")

	api.Post("/analyze", analyzeHandler.HandleAnalyze)
	api.Get("/validate", validateHandler.HandleValidate)

	api.Get("/artifacts/data", artifactHandler.DownloadData)
	api.Get("/artifacts/report", artifactHandler.DownloadReport)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
