package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/inkhq/inkwell-api/internal/api"
	apimiddleware "github.com/inkhq/inkwell-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)

	authHandler := api.NewAuthHandler(app.credentials, app.accountService, app.logger)
	accountHandler := api.NewAccountHandler(app.accountService, app.logger)
	postHandler := api.NewPostHandler(app.postService, app.logger)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.credentials)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/set-password", authHandler.SetPassword)
		r.Post("/users", accountHandler.Create)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/users", accountHandler.List)
			r.Get("/users/export.csv", accountHandler.Export)
			r.Get("/users/{id}", accountHandler.Get)
			r.Put("/users/{id}", accountHandler.Update)
			r.Delete("/users/{id}", accountHandler.Delete)

			r.Get("/posts", postHandler.List)
			r.Post("/posts", postHandler.Create)
			r.Get("/posts/{id}", postHandler.Get)
			r.Put("/posts/{id}", postHandler.Update)
			r.Delete("/posts/{id}", postHandler.Delete)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
