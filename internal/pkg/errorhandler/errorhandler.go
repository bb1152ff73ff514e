package errorhandler

import (
	"context"
	"net/http"

	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
	"github.com/pawpals/pawpals-api/internal/pkg/logger"
	"github.com/pawpals/pawpals-api/internal/pkg/metrics"
	"github.com/pawpals/pawpals-api/internal/pkg/response"
)

// Handle translates err into the JSON error envelope. Errors from the shared domain
// taxonomy are reported with their own message; anything else is logged and hidden
// behind a generic 500.
func Handle(ctx context.Context, w http.ResponseWriter, err error) {
	code := domainerr.Code(err)
	status := domainerr.Status(err)
	metrics.DomainError(code)

	if !domainerr.IsDomain(err) {
		logger.LogError(ctx, err, "Request failed", "status_code", status)
		response.InternalError(w)
		return
	}

	logger.LogDebug(ctx, "Request rejected",
		"error_code", code,
		"status_code", status,
		"error", err.Error(),
	)
	response.Error(w, status, code, domainerr.Message(err))
}

// Validation logs and writes a validator field-error map.
func Validation(ctx context.Context, w http.ResponseWriter, fieldErrors map[string]string) {
	logger.LogDebug(ctx, "Validation error", "validation_errors", fieldErrors)
	metrics.DomainError("VALIDATION_ERROR")
	response.ValidationError(w, fieldErrors)
}
