package comment

import (
	"net/http"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
	"github.com/pawpals/pawpals-api/internal/middleware"
	"github.com/pawpals/pawpals-api/internal/pkg/errorhandler"
	"github.com/pawpals/pawpals-api/internal/pkg/httpparam"
	"github.com/pawpals/pawpals-api/internal/pkg/response"
	"github.com/pawpals/pawpals-api/internal/pkg/validator"
)

// Handler handles comment HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates comment handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Post handles POST /comments
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req PostCommentRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		errorhandler.Validation(r.Context(), w, errors)
		return
	}

	target, err := relation.NewTarget(req.TargetType, req.TargetID)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	c, err := h.service.Post(r.Context(), userID, target, req.Content)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.Created(w, c)
}

// Get handles GET /comments/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpparam.ID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid comment ID")
		return
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, c)
}

// ListByTarget handles GET /comments?target_type=&target_id=
func (h *Handler) ListByTarget(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target, err := relation.ParseTarget(q.Get("target_type"), q.Get("target_id"))
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	comments, err := h.service.ListByTarget(r.Context(), target)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, CommentListResponse{Comments: comments, Total: len(comments)})
}

// ListByAuthor handles GET /users/{id}/comments
func (h *Handler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, err := httpparam.ID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	comments, err := h.service.ListByAuthor(r.Context(), authorID)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, comments)
}
