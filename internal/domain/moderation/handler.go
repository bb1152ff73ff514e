package moderation

import (
	"context"
	"net/http"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
	"github.com/pawpals/pawpals-api/internal/middleware"
	"github.com/pawpals/pawpals-api/internal/pkg/errorhandler"
	"github.com/pawpals/pawpals-api/internal/pkg/httpparam"
	"github.com/pawpals/pawpals-api/internal/pkg/response"
	"github.com/pawpals/pawpals-api/internal/pkg/validator"
)

// Handler handles moderation HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates moderation handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// File blocks or reports a target
// POST /moderation/actions
func (h *Handler) File(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req FileActionRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		errorhandler.Validation(r.Context(), w, errors)
		return
	}

	actionType, err := ParseActionType(req.ActionType)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}
	target, err := relation.NewTarget(req.TargetType, req.TargetID)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	action, err := h.service.File(r.Context(), userID, actionType, target, req.Comment)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.Created(w, action)
}

// Retract removes the caller's own action
// DELETE /moderation/actions/{id}
func (h *Handler) Retract(w http.ResponseWriter, r *http.Request) {
	id, err := httpparam.ID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid action ID")
		return
	}

	if err := h.service.Retract(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.NoContent(w)
}

// ListMine lists actions filed by current user
// GET /moderation/actions/mine?action_type=
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	var actionType ActionType
	if raw := r.URL.Query().Get("action_type"); raw != "" {
		parsed, err := ParseActionType(raw)
		if err != nil {
			errorhandler.Handle(r.Context(), w, err)
			return
		}
		actionType = parsed
	}

	actions, err := h.service.ListByActor(r.Context(), middleware.GetUserID(r.Context()), actionType)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, actions)
}

// BlockStatus tells whether the caller and another user block each other
// GET /moderation/blocks/{userId}
func (h *Handler) BlockStatus(w http.ResponseWriter, r *http.Request) {
	otherID, err := httpparam.ID(r, "userId")
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	blocked, err := h.service.IsBlocked(r.Context(), middleware.GetUserID(r.Context()), otherID)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, BlockStatusResponse{UserID: otherID, Blocked: blocked})
}

// ListByTarget lists every action on a target (admin only)
// GET /moderation/actions?target_type=&target_id=
func (h *Handler) ListByTarget(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target, err := relation.ParseTarget(q.Get("target_type"), q.Get("target_id"))
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	actions, err := h.service.ListByTarget(r.Context(), target)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, actions)
}

// ListReports lists reports (admin only)
// GET /moderation/reports?status=&limit=&offset=
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit, offset := httpparam.Page(r, 50, 200)
	filter := &ListReportsFilter{Limit: limit, Offset: offset}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := ParseStatus(raw)
		if err != nil {
			errorhandler.Handle(r.Context(), w, err)
			return
		}
		filter.Status = status
	}

	reports, err := h.service.ListReports(r.Context(), filter)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	total, err := h.service.CountReports(r.Context(), filter)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.WithMeta(w, reports, response.NewMeta(total, filter.Limit, filter.Offset))
}

// ResolveReport resolves a report (admin only)
// POST /moderation/reports/{id}/resolve
func (h *Handler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.service.Resolve)
}

// RejectReport rejects a report (admin only)
// POST /moderation/reports/{id}/reject
func (h *Handler) RejectReport(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.service.Reject)
}

type reviewFunc func(ctx context.Context, moderatorID, id int64, note string) (*Action, error)

func (h *Handler) review(w http.ResponseWriter, r *http.Request, fn reviewFunc) {
	id, err := httpparam.ID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return
	}

	var req ReviewReportRequest
	if r.ContentLength != 0 {
		if err := response.DecodeJSON(r.Body, &req); err != nil {
			response.BadRequest(w, "Invalid request body")
			return
		}
	}

	if errors := validator.Validate(&req); errors != nil {
		errorhandler.Validation(r.Context(), w, errors)
		return
	}

	action, err := fn(r.Context(), middleware.GetUserID(r.Context()), id, req.Note)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, action)
}
