// Package httpparam parses path and query parameters shared by the handlers.
package httpparam

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
)

// ID parses a positive int64 path parameter.
func ID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", domainerr.ErrValidation, name, raw)
	}
	return id, nil
}

// Int parses an optional integer query parameter clamped to [min, max].
func Int(r *http.Request, name string, def, min, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

// Page reads limit/offset query parameters.
func Page(r *http.Request, defLimit, maxLimit int) (limit, offset int) {
	return Int(r, "limit", defLimit, 1, maxLimit), Int(r, "offset", 0, 0, 0)
}
