package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/othala/internal/tracker"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *tracker.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Post("/scan", h.Scan)
	r.Get("/inventory", h.Inventory)
	r.Put("/notes", h.SaveNotes)

	return r
}
