package keyword

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// KeywordRoutes returns /keywords routes. Writes require admin.
func (h *Handler) KeywordRoutes(authMiddleware, adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.ListKeywords)
	r.Get("/{id}", h.GetKeyword)
	r.Get("/{id}/assignments", h.ListAssignments)

	r.Group(func(r chi.Router) {
		r.Use(adminMiddleware)
		r.Post("/", h.CreateKeyword)
		r.Delete("/{id}", h.DeleteKeyword)
	})

	return r
}

// TagRoutes returns /tags routes
func (h *Handler) TagRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.ListTags)
	r.Post("/", h.AssignTag)
	r.Delete("/{id}", h.UnassignTag)

	return r
}
