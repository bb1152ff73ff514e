package httpparam

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
)

func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "12", want: 12},
		{raw: "0", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "x", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			r := withParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", tc.raw)
			got, err := ID(r, "id")
			if tc.wantErr {
				if !errors.Is(err, domainerr.ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("got %d, %v", got, err)
			}
		})
	}
}

func TestPage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=500&offset=-4", nil)
	limit, offset := Page(r, 50, 100)
	if limit != 100 || offset != 0 {
		t.Fatalf("got limit=%d offset=%d", limit, offset)
	}

	r = httptest.NewRequest(http.MethodGet, "/?limit=abc", nil)
	limit, offset = Page(r, 50, 100)
	if limit != 50 || offset != 0 {
		t.Fatalf("got limit=%d offset=%d", limit, offset)
	}
}
