package membership

import (
	"context"
	"net/http"

	"github.com/pawpals/pawpals-api/internal/middleware"
	"github.com/pawpals/pawpals-api/internal/pkg/errorhandler"
	"github.com/pawpals/pawpals-api/internal/pkg/httpparam"
	"github.com/pawpals/pawpals-api/internal/pkg/jwt"
	"github.com/pawpals/pawpals-api/internal/pkg/response"
	"github.com/pawpals/pawpals-api/internal/pkg/validator"
)

// Handler handles membership HTTP requests. Authorization is decided here through
// Policy before the state machine runs.
type Handler struct {
	service *Service
	policy  Policy
}

// NewHandler creates membership handler
func NewHandler(service *Service, policy Policy) *Handler {
	return &Handler{service: service, policy: policy}
}

func (h *Handler) authorize(ctx context.Context, groupID int64) error {
	if middleware.GetRole(ctx) == jwt.RoleAdmin {
		return nil
	}
	ok, err := h.policy.CanManage(ctx, middleware.GetUserID(ctx), groupID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotGroupManager
	}
	return nil
}

// RequestJoin handles POST /groups/{groupId}/requests
func (h *Handler) RequestJoin(w http.ResponseWriter, r *http.Request) {
	groupID, err := httpparam.ID(r, "groupId")
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	m, err := h.service.RequestJoin(r.Context(), middleware.GetUserID(r.Context()), groupID)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.Created(w, m)
}

// Invite handles POST /groups/{groupId}/invites
func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	groupID, err := httpparam.ID(r, "groupId")
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	var req InviteRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		errorhandler.Validation(r.Context(), w, errors)
		return
	}

	if err := h.authorize(r.Context(), groupID); err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	m, err := h.service.Invite(r.Context(), req.UserID, groupID)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.Created(w, m)
}

// ListMembers handles GET /groups/{groupId}/members
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	h.listGroup(w, r, false, h.service.ActiveMembers)
}

// ListRequests handles GET /groups/{groupId}/requests
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	h.listGroup(w, r, true, h.service.PendingRequests)
}

// ListInvites handles GET /groups/{groupId}/invites
func (h *Handler) ListInvites(w http.ResponseWriter, r *http.Request) {
	h.listGroup(w, r, true, h.service.PendingInvites)
}

func (h *Handler) listGroup(w http.ResponseWriter, r *http.Request, managersOnly bool, list func(context.Context, int64) ([]*Membership, error)) {
	groupID, err := httpparam.ID(r, "groupId")
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	if managersOnly {
		if err := h.authorize(r.Context(), groupID); err != nil {
			errorhandler.Handle(r.Context(), w, err)
			return
		}
	}

	memberships, err := list(r.Context(), groupID)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, memberships)
}

// Accept handles POST /memberships/{id}/accept. Invitations are accepted by the
// invitee, join requests by a group manager.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	m, ok := h.load(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	switch m.Status {
	case StatusInvited:
		if m.UserID != middleware.GetUserID(ctx) {
			errorhandler.Handle(ctx, w, ErrNotInvitee)
			return
		}
	default:
		if err := h.authorize(ctx, m.GroupID); err != nil {
			errorhandler.Handle(ctx, w, err)
			return
		}
	}

	accepted, err := h.service.Accept(ctx, m.ID)
	if err != nil {
		errorhandler.Handle(ctx, w, err)
		return
	}

	response.OK(w, accepted)
}

// Promote handles POST /memberships/{id}/promote
func (h *Handler) Promote(w http.ResponseWriter, r *http.Request) {
	m, ok := h.load(w, r)
	if !ok {
		return
	}

	var req PromoteRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		errorhandler.Validation(r.Context(), w, errors)
		return
	}

	role, err := ParseRole(req.Role)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	if err := h.authorize(r.Context(), m.GroupID); err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	promoted, err := h.service.Promote(r.Context(), m.ID, role)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, promoted)
}

// Ban handles POST /memberships/{id}/ban
func (h *Handler) Ban(w http.ResponseWriter, r *http.Request) {
	h.managed(w, r, h.service.Ban)
}

// Unban handles POST /memberships/{id}/unban
func (h *Handler) Unban(w http.ResponseWriter, r *http.Request) {
	h.managed(w, r, h.service.Unban)
}

func (h *Handler) managed(w http.ResponseWriter, r *http.Request, apply func(context.Context, int64) (*Membership, error)) {
	m, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := h.authorize(r.Context(), m.GroupID); err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	updated, err := apply(r.Context(), m.ID)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, updated)
}

// Leave handles DELETE /memberships/{id}. Members remove themselves; managers remove others.
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	m, ok := h.load(w, r)
	if !ok {
		return
	}

	if m.UserID != middleware.GetUserID(r.Context()) {
		if err := h.authorize(r.Context(), m.GroupID); err != nil {
			errorhandler.Handle(r.Context(), w, err)
			return
		}
	}

	if err := h.service.Leave(r.Context(), m.ID); err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.NoContent(w)
}

// Mine handles GET /users/me/memberships
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	memberships, err := h.service.MembershipsOf(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, memberships)
}

// Found handles POST /internal/groups/{groupId}/creator
func (h *Handler) Found(w http.ResponseWriter, r *http.Request) {
	groupID, err := httpparam.ID(r, "groupId")
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	var req FoundRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		errorhandler.Validation(r.Context(), w, errors)
		return
	}

	m, err := h.service.Found(r.Context(), groupID, req.CreatorUserID)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.Created(w, m)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*Membership, bool) {
	id, err := httpparam.ID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid membership ID")
		return nil, false
	}

	m, err := h.service.Get(r.Context(), id)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return nil, false
	}
	return m, true
}
