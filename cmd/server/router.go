package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ariatts/aria-api/internal/api"
	apiMiddleware "github.com/ariatts/aria-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	jobHandler := api.NewJobHandler(app.jobQueue, app.settingsService)
	settingsHandler := api.NewSettingsHandler(app.settingsService)
	voiceHandler := api.NewVoiceHandler()

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		// Voice catalog is public; it carries no user data.
		r.Get("/voices", voiceHandler.ListVoices)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Job endpoints
			r.Post("/jobs", jobHandler.CreateJob)
			r.Get("/jobs", jobHandler.ListJobs)
			r.Post("/jobs/process", jobHandler.StartProcessing)
			r.Delete("/jobs/process", jobHandler.StopProcessing)
			r.Get("/jobs/{id}", jobHandler.GetJob)
			r.Delete("/jobs/{id}", jobHandler.DeleteJob)
			r.Post("/jobs/{id}/regenerate", jobHandler.RegenerateJob)
			r.Get("/jobs/{id}/audio", jobHandler.GetJobAudio)

			// Settings endpoints
			r.Get("/settings", settingsHandler.GetSettings)
			r.Put("/settings", settingsHandler.UpdateSettings)
			r.Delete("/settings", settingsHandler.DeleteSettings)
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
