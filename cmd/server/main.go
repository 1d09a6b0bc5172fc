package main

import (
	"log"

	"github.com/WesleyFreitsz/FitMindAI/internal"
	"github.com/WesleyFreitsz/FitMindAI/internal/ai"
	"github.com/WesleyFreitsz/FitMindAI/internal/api"
	"github.com/WesleyFreitsz/FitMindAI/internal/auth"
	"github.com/WesleyFreitsz/FitMindAI/internal/config"
	"github.com/WesleyFreitsz/FitMindAI/internal/service"
	"github.com/WesleyFreitsz/FitMindAI/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	repos, err := storage.New(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}
	defer repos.Close()

	if cfg.OpenAIKey == "" {
		logger.Warn("OPENAI_API_KEY is not set; AI features will answer with the fallback message")
	}
	completer := ai.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, logger)

	intake := service.NewIntake(
		ai.NewClassifier(completer, logger),
		ai.NewEstimator(completer, logger),
		ai.NewResponder(completer, logger),
		repos.Foods,
		repos.FoodLogs,
		repos.Exercises,
		logger,
	)

	app := &api.Application{
		Log:           logger,
		Repos:         repos,
		AuthProvider:  auth.NewJWTProvider(cfg.JWTSecret, 0, logger),
		IntakeService: intake,
	}

	r := api.NewRouter(app)
	logger.Infof("FitMind server running on %s (storage=%s)", cfg.Addr, cfg.DBType)
	if err := r.Run(cfg.Addr); err != nil {
		logger.Fatalf("failed to start server: %v", err)
	}
}
