package match

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns /matches routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.RecordAction)
	r.Get("/", h.Matches)
	r.Get("/seen", h.Seen)
	r.Get("/{userId}", h.Get)

	return r
}
