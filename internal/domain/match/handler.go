package match

import (
	"net/http"

	"github.com/pawpals/pawpals-api/internal/middleware"
	"github.com/pawpals/pawpals-api/internal/pkg/errorhandler"
	"github.com/pawpals/pawpals-api/internal/pkg/httpparam"
	"github.com/pawpals/pawpals-api/internal/pkg/response"
	"github.com/pawpals/pawpals-api/internal/pkg/validator"
)

// Handler handles match HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates match handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RecordAction handles POST /matches
func (h *Handler) RecordAction(w http.ResponseWriter, r *http.Request) {
	var req RecordActionRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		errorhandler.Validation(r.Context(), w, errors)
		return
	}

	action, err := ParseAction(req.Action)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	result, err := h.service.RecordAction(r.Context(), middleware.GetUserID(r.Context()), req.TargetUserID, action, req.Score)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, result)
}

// Matches handles GET /matches
func (h *Handler) Matches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.service.Matches(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, matches)
}

// Seen handles GET /matches/seen
func (h *Handler) Seen(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.SeenTargets(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, SeenResponse{UserIDs: ids})
}

// Get handles GET /matches/{userId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	targetUserID, err := httpparam.ID(r, "userId")
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	m, err := h.service.Get(r.Context(), middleware.GetUserID(r.Context()), targetUserID)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	response.OK(w, m)
}
