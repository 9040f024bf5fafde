package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mnemolab/mnemo-api/internal/api"
	apiMiddleware "github.com/mnemolab/mnemo-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	studyHandler := api.NewStudyHandler(app.studyService, app.config.Study.DueCardLimit, app.logger)

	r.Route("/api", func(r chi.Router) {
		// All API routes require a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Card management endpoints
			r.Post("/cards", cardHandler.CreateCard)
			r.Get("/cards", cardHandler.ListCards)
			r.Get("/cards/{id}", cardHandler.GetCard)
			r.Put("/cards/{id}", cardHandler.UpdateCard)
			r.Delete("/cards/{id}", cardHandler.DeleteCard)

			// Study endpoints
			r.Post("/cards/{id}/review", studyHandler.SubmitReview)
			r.Get("/study/due", studyHandler.GetDueCards)
			r.Get("/study/stats", studyHandler.GetStats)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
