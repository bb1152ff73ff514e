package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns /comments routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Post)
	r.Get("/", h.ListByTarget)
	r.Get("/{id}", h.Get)

	return r
}
