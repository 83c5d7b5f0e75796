// Package main implements the entry point for the StudyForge API server,
// which turns articles and PDFs into study materials and exports flashcards
// as Anki .apkg decks.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/studyforge/studyforge/internal/anki"
	"github.com/studyforge/studyforge/internal/config"
	"github.com/studyforge/studyforge/internal/extract"
	"github.com/studyforge/studyforge/internal/platform/gemini"
	"github.com/studyforge/studyforge/internal/platform/logger"
	"github.com/studyforge/studyforge/internal/service"
)

// application holds the assembled dependencies of the server.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	extractor *extract.Extractor
	study     *service.StudyService
}

func main() {
	app, err := initializeApp(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		app.logger.Error("Server exited with error", "error", err)
	}
}

// initializeApp loads configuration and wires up the application components:
// logging, the Gemini generator, the content extractor, the deck builder,
// and the study service.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)
	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"model", cfg.LLM.ModelName)

	generator, err := gemini.NewGenerator(ctx, appLogger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	study, err := service.NewStudyService(generator, anki.NewBuilder(), appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create study service: %w", err)
	}

	return &application{
		config:    cfg,
		logger:    appLogger,
		extractor: extract.NewExtractor(appLogger),
		study:     study,
	}, nil
}
