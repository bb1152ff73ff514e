package keyword

import (
	"net/http"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
	"github.com/pawpals/pawpals-api/internal/pkg/errorhandler"
	"github.com/pawpals/pawpals-api/internal/pkg/httpparam"
	"github.com/pawpals/pawpals-api/internal/pkg/response"
	"github.com/pawpals/pawpals-api/internal/pkg/validator"
)

// Handler handles keyword and tag HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates keyword handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateKeyword handles POST /keywords
func (h *Handler) CreateKeyword(w http.ResponseWriter, r *http.Request) {
	var req CreateKeywordRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		errorhandler.Validation(r.Context(), w, errors)
		return
	}

	k, err := h.service.CreateKeyword(r.Context(), &req)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.Created(w, k)
}

// ListKeywords handles GET /keywords
func (h *Handler) ListKeywords(w http.ResponseWriter, r *http.Request) {
	keywords, err := h.service.ListKeywords(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, keywords)
}

// GetKeyword handles GET /keywords/{id}
func (h *Handler) GetKeyword(w http.ResponseWriter, r *http.Request) {
	id, err := httpparam.ID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid keyword ID")
		return
	}

	k, err := h.service.GetKeyword(r.Context(), id)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, k)
}

// DeleteKeyword handles DELETE /keywords/{id}
func (h *Handler) DeleteKeyword(w http.ResponseWriter, r *http.Request) {
	id, err := httpparam.ID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid keyword ID")
		return
	}

	if err := h.service.DeleteKeyword(r.Context(), id); err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.NoContent(w)
}

// ListAssignments handles GET /keywords/{id}/assignments
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	id, err := httpparam.ID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid keyword ID")
		return
	}

	assignments, err := h.service.ListByKeyword(r.Context(), id)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, assignments)
}

// AssignTag handles POST /tags
func (h *Handler) AssignTag(w http.ResponseWriter, r *http.Request) {
	var req AssignTagRequest
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

	ta, err := h.service.Assign(r.Context(), req.KeywordID, target)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.Created(w, ta)
}

// UnassignTag handles DELETE /tags/{id}
func (h *Handler) UnassignTag(w http.ResponseWriter, r *http.Request) {
	id, err := httpparam.ID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid tag ID")
		return
	}

	if err := h.service.Unassign(r.Context(), id); err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.NoContent(w)
}

// ListTags handles GET /tags?target_type=&target_id=
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target, err := relation.ParseTarget(q.Get("target_type"), q.Get("target_id"))
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	assignments, err := h.service.ListByTarget(r.Context(), target)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	keywords, err := h.service.KeywordsForTarget(r.Context(), target)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, NewTagResponses(assignments, keywords))
}
