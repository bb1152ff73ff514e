package relation

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pawpals/pawpals-api/internal/pkg/errorhandler"
	"github.com/pawpals/pawpals-api/internal/pkg/logger"
	"github.com/pawpals/pawpals-api/internal/pkg/metrics"
	"github.com/pawpals/pawpals-api/internal/pkg/response"
)

// PurgeResponse reports an aggregate purge
type PurgeResponse struct {
	Target  Target `json:"target"`
	Removed int64  `json:"removed"`
}

// PurgeHandler lets owning services drop everything kept about a deleted entity.
type PurgeHandler struct {
	cascade *Cascade
	// afterPurge runs once the purge committed, e.g. to evict cached descriptors.
	afterPurge []func(ctx context.Context, target Target) error
}

// NewPurgeHandler creates purge handler
func NewPurgeHandler(cascade *Cascade, afterPurge ...func(ctx context.Context, target Target) error) *PurgeHandler {
	return &PurgeHandler{cascade: cascade, afterPurge: afterPurge}
}

// Purge handles DELETE /internal/entities/{type}/{id}
func (h *PurgeHandler) Purge(w http.ResponseWriter, r *http.Request) {
	target, err := ParseTarget(chi.URLParam(r, "type"), chi.URLParam(r, "id"))
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	removed, err := h.cascade.DeleteAggregate(r.Context(), target, nil)
	if err != nil {
		errorhandler.Handle(r.Context(), w, err)
		return
	}

	for _, fn := range h.afterPurge {
		if err := fn(r.Context(), target); err != nil {
			logger.LogWarn(r.Context(), "Post-purge hook failed", "target", target.String(), "error", err.Error())
		}
	}

	metrics.RelationsRemoved("AGGREGATE", removed)
	logger.LogInfo(r.Context(), "Aggregate purged", "target", target.String(), "removed", removed)
	response.OK(w, PurgeResponse{Target: target, Removed: removed})
}

// Routes returns /entities routes
func (h *PurgeHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Delete("/{type}/{id}", h.Purge)
	return r
}
