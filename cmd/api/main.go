package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/answerly/answerly-api/internal/config"
	"github.com/answerly/answerly-api/internal/database"
	"github.com/answerly/answerly-api/internal/handler"
	"github.com/answerly/answerly-api/internal/middleware"
	"github.com/answerly/answerly-api/internal/repository"
	"github.com/answerly/answerly-api/internal/router"
	"github.com/answerly/answerly-api/internal/service"
	"github.com/answerly/answerly-api/pkg/gemini"
	"github.com/answerly/answerly-api/pkg/scorer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := context.Background()

	dynamoClient, err := database.ConnectDynamo(ctx, database.DynamoConfig{
		Region:    cfg.AWSRegion,
		AccessKey: cfg.AWSAccessKey,
		SecretKey: cfg.AWSSecretKey,
		Endpoint:  cfg.DynamoEndpoint,
	})
	if err != nil {
		log.Fatalf("failed to create dynamodb client: %v", err)
	}

	geminiClient, err := gemini.New(ctx, gemini.Config{
		APIKey:     cfg.GeminiAPIKey,
		OCRModel:   cfg.GeminiOCRModel,
		TextModel:  cfg.GeminiScorerModel,
		EmbedModel: cfg.GeminiEmbedModel,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("failed to create gemini client: %v", err)
	}

	embedder, err := buildEmbedder(cfg, geminiClient)
	if err != nil {
		log.Fatalf("failed to create embedder: %v", err)
	}

	var extractionRepo repository.ExtractionRepository
	if cfg.RedisURL != "" {
		redisClient, err := database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		extractionRepo = repository.NewExtractionRepository(redisClient, cfg.HistoryTTL)
	} else {
		logger.Warn().Msg("redis url not set, extraction history disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not set, evaluation events disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	accountRepo := repository.NewAccountRepository(dynamoClient, cfg.AccountsTable)
	accountService := service.NewAccountService(accountRepo, validate, cfg.JWTSecret, cfg.JWTTokenTTL, logger)
	extractionService := service.NewExtractionService(geminiClient, logger)
	uploadService := service.NewUploadService(extractionService, extractionRepo, cfg.UploadMaxMB, logger)

	scorers := []scorer.Scorer{
		scorer.NewEmbeddingScorer(embedder, logger),
		scorer.NewLLMScorer(geminiClient, logger),
	}

	var events service.EventPublisher
	if natsConn != nil {
		events = natsConn
	}
	evaluationService := service.NewEvaluationService(extractionService, scorers, events, logger)

	authHandler := handler.NewAuthHandler(accountService, logger)
	userHandler := handler.NewUserHandler(accountService, logger)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, logger)
	uploadHandler := handler.NewUploadHandler(uploadService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.UploadMaxMB + 1) * 1024 * 1024 * 2,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.AllowOrigins,
	})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		UserHandler:       userHandler,
		EvaluationHandler: evaluationHandler,
		UploadHandler:     uploadHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// buildEmbedder selects the sentence embedding provider. The embedder is
// built once here and shared read-only across requests.
func buildEmbedder(cfg config.Config, geminiClient *gemini.Client) (scorer.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case "gemini":
		return geminiClient, nil
	default:
		return scorer.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIEmbedModel)
	}
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
