package moderation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns moderation routes. The report queue and target listings require admin.
func (h *Handler) Routes(authMiddleware, adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// All routes require authentication
	r.Use(authMiddleware)

	r.Post("/actions", h.File)
	r.Get("/actions/mine", h.ListMine)
	r.Delete("/actions/{id}", h.Retract)
	r.Get("/blocks/{userId}", h.BlockStatus)

	r.Group(func(r chi.Router) {
		r.Use(adminMiddleware)

		r.Get("/actions", h.ListByTarget)
		r.Get("/reports", h.ListReports)
		r.Post("/reports/{id}/resolve", h.ResolveReport)
		r.Post("/reports/{id}/reject", h.RejectReport)
	})

	return r
}
