package errorhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
	"github.com/pawpals/pawpals-api/internal/pkg/response"
)

func TestHandle(t *testing.T) {
	driverErr := &pq.Error{Code: "23505", Constraint: "tag_assignments_keyword_target_key", Message: "duplicate key value violates unique constraint"}
	duplicate := domainerr.WithCause(fmt.Errorf("%w: tag already exists", domainerr.ErrDuplicateRelation), driverErr)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "storage cause stays out of the body",
			err:         duplicate,
			wantStatus:  http.StatusConflict,
			wantCode:    "DUPLICATE_RELATION",
			wantMessage: "duplicate relation: tag already exists",
		},
		{
			name:        "domain error without cause",
			err:         fmt.Errorf("%w: keyword not found", domainerr.ErrNotFound),
			wantStatus:  http.StatusNotFound,
			wantCode:    "NOT_FOUND",
			wantMessage: "not found: keyword not found",
		},
		{
			name:        "unknown error is hidden",
			err:         errors.New("connection reset"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "INTERNAL_ERROR",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			Handle(context.Background(), rr, tc.err)

			assert.Equal(t, tc.wantStatus, rr.Code)
			var body response.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tc.wantCode, body.Error.Code)
			assert.Equal(t, tc.wantMessage, body.Error.Message)
			assert.NotContains(t, rr.Body.String(), "tag_assignments_keyword_target_key")
		})
	}
}

func TestWithCauseKeepsChain(t *testing.T) {
	driverErr := &pq.Error{Code: "23505"}
	err := domainerr.WithCause(domainerr.ErrDuplicateMembership, driverErr)

	assert.ErrorIs(t, err, domainerr.ErrDuplicateMembership)
	var pqErr *pq.Error
	assert.True(t, errors.As(err, &pqErr))
	assert.Contains(t, err.Error(), "pq:")
	assert.Equal(t, "duplicate membership", domainerr.Message(err))
}
