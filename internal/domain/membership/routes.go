package membership

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GroupRoutes returns /groups/{groupId} membership routes
func (h *Handler) GroupRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/{groupId}/requests", h.RequestJoin)
	r.Get("/{groupId}/requests", h.ListRequests)
	r.Post("/{groupId}/invites", h.Invite)
	r.Get("/{groupId}/invites", h.ListInvites)
	r.Get("/{groupId}/members", h.ListMembers)

	return r
}

// Routes returns /memberships routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/{id}/accept", h.Accept)
	r.Post("/{id}/promote", h.Promote)
	r.Post("/{id}/ban", h.Ban)
	r.Post("/{id}/unban", h.Unban)
	r.Delete("/{id}", h.Leave)

	return r
}

// InternalRoutes returns service-to-service routes mounted under /internal/groups
func (h *Handler) InternalRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{groupId}/creator", h.Found)
	return r
}
