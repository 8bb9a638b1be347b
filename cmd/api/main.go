package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/crfpa-grader-api/internal/config"
	"github.com/noah-isme/crfpa-grader-api/internal/database"
	"github.com/noah-isme/crfpa-grader-api/internal/handler"
	"github.com/noah-isme/crfpa-grader-api/internal/middleware"
	"github.com/noah-isme/crfpa-grader-api/internal/repository"
	"github.com/noah-isme/crfpa-grader-api/internal/router"
	"github.com/noah-isme/crfpa-grader-api/internal/service"
	"github.com/noah-isme/crfpa-grader-api/pkg/ai"
	"github.com/noah-isme/crfpa-grader-api/pkg/supabase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.LogLevel)

	methodologyRepo, rubricRepo, closeStore, err := buildRepositories(cfg, logger)
	if err != nil {
		log.Fatalf("failed to initialise data store: %v", err)
	}
	defer closeStore()

	grader, closeGrader, err := buildGrader(cfg, logger)
	if err != nil {
		log.Fatalf("failed to initialise completion client: %v", err)
	}
	defer closeGrader()

	validate := validator.New(validator.WithRequiredStructEnabled())

	gradingService, err := service.NewGradingService(methodologyRepo, rubricRepo, grader, logger, service.GradingConfig{
		StrictSchema: cfg.StrictSchema,
	})
	if err != nil {
		log.Fatalf("failed to create grading service: %v", err)
	}

	gradeHandler := handler.NewGradeHandler(gradingService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		GradeHandler:  gradeHandler,
		EnableMetrics: true,
	})

	logger.Info().
		Str("address", cfg.HTTPAddress()).
		Str("store", cfg.StoreBackend).
		Str("provider", grader.Provider()).
		Str("model", grader.Model()).
		Msg("starting grader api")

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(parsed).With().Timestamp().Logger()
}

func buildRepositories(cfg config.Config, logger zerolog.Logger) (repository.MethodologyRepository, repository.RubricRepository, func(), error) {
	if cfg.StoreBackend == config.StorePostgres {
		db, err := database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewMethodologyRepository(db), repository.NewRubricRepository(db), closeDB, nil
	}

	client, err := supabase.New(supabase.Config{URL: cfg.SupabaseURL, APIKey: cfg.SupabaseKey}, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return repository.NewSupabaseMethodologyRepository(client), repository.NewSupabaseRubricRepository(client), func() {}, nil
}

func buildGrader(cfg config.Config, logger zerolog.Logger) (ai.Grader, func(), error) {
	if cfg.AIProvider == config.ProviderGemini {
		grader, err := ai.NewGeminiGrader(context.Background(), ai.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GraderModel,
			Logger: logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return grader, closer(grader), nil
	}

	grader, err := ai.NewOpenAIGrader(ai.OpenAIConfig{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.GraderModel,
		BaseURL: cfg.OpenAIBaseURL,
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return grader, func() {}, nil
}

func closer(c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Printf("close failed: %v", err)
		}
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
