package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mnemolab/mnemo-api/internal/config"
	"github.com/mnemolab/mnemo-api/internal/domain/ebbinghaus"
	"github.com/mnemolab/mnemo-api/internal/platform/postgres"
	"github.com/mnemolab/mnemo-api/internal/service/auth"
	"github.com/mnemolab/mnemo-api/internal/service/card"
	"github.com/mnemolab/mnemo-api/internal/service/study"
	"github.com/mnemolab/mnemo-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	cardStore    store.CardStore
	recordStore  store.LearningRecordStore
	sessionStore store.SessionStore

	// Service interfaces
	jwtService   auth.JWTService
	scheduler    ebbinghaus.Service
	cardService  card.CardService
	studyService study.StudyService
}

// newApplication creates a new application instance with all dependencies
// initialized. Configuration, logger and database connection must be
// established by the caller.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.cardStore = postgres.NewPostgresCardStore(db, logger)
	app.recordStore = postgres.NewPostgresLearningRecordStore(db, logger)
	app.sessionStore = postgres.NewPostgresSessionStore(db, logger)

	app.scheduler = ebbinghaus.NewDefaultService()

	app.cardService = card.NewCardService(app.cardStore, logger)
	app.studyService = study.NewStudyService(
		db,
		app.cardStore,
		app.recordStore,
		app.sessionStore,
		app.scheduler,
		logger,
	)

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
