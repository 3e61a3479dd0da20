package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/webspot/webspot/internal/httpserver/deps"
	"github.com/webspot/webspot/internal/httpserver/handlers"
)

func init() { Register(registerWebsites) }

func registerWebsites(r chi.Router, d deps.Deps) {
	r.Route("/api/websites", func(r chi.Router) {
		r.Get("/", handlers.ListWebsites(d))
		r.Post("/", handlers.AddWebsite(d))
		r.Patch("/{id}", handlers.UpdateWebsite(d))
		r.Delete("/{id}", handlers.RemoveWebsite(d))
		r.Post("/{id}/favorite", handlers.ToggleFavorite(d))
	})
}
