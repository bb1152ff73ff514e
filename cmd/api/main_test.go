package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/pawpals/pawpals-api/internal/config"
	"github.com/pawpals/pawpals-api/internal/middleware"
	"github.com/pawpals/pawpals-api/internal/pkg/jwt"
)

func newTestRouter(t *testing.T) (http.Handler, *jwt.Service) {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		ResolverCacheTTL: time.Minute,
		NotifyTimeout:    time.Second,
	}
	jwtService := jwt.NewService("test-secret", time.Hour)
	a := newApp(cfg, sqlx.NewDb(db, "postgres"), nil)
	return a.router(middleware.Auth(jwtService), nil), jwtService
}

func token(t *testing.T, s *jwt.Service, userID int64, role string) string {
	t.Helper()
	tok, err := s.GenerateAccessToken(userID, role)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + tok
}

func TestRouter(t *testing.T) {
	router, jwtService := newTestRouter(t)
	user := token(t, jwtService, 1, jwt.RoleUser)
	service := token(t, jwtService, 900, jwt.RoleService)

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{name: "health", method: http.MethodGet, path: "/health", want: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", want: http.StatusOK},
		{name: "api requires auth", method: http.MethodGet, path: "/api/v1/matches", want: http.StatusUnauthorized},
		{name: "users route requires auth", method: http.MethodGet, path: "/api/v1/users/me/memberships", want: http.StatusUnauthorized},
		{name: "bad author id", method: http.MethodGet, path: "/api/v1/users/abc/comments", auth: user, want: http.StatusBadRequest},
		{name: "report queue is admin only", method: http.MethodGet, path: "/api/v1/moderation/reports", auth: user, want: http.StatusForbidden},
		{name: "keyword writes are admin only", method: http.MethodPost, path: "/api/v1/keywords/", auth: user, want: http.StatusForbidden},
		{name: "internal requires service role", method: http.MethodDelete, path: "/internal/entities/USER/1", auth: user, want: http.StatusForbidden},
		{name: "internal rejects unknown entity type", method: http.MethodDelete, path: "/internal/entities/CAT/1", auth: service, want: http.StatusBadRequest},
		{name: "stream without redis", method: http.MethodGet, path: "/ws/notifications", auth: user, want: http.StatusServiceUnavailable},
		{name: "unknown route", method: http.MethodGet, path: "/api/v2/matches", want: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("expected status %d, got %d: %s", tc.want, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-ID"); got != "req-123" {
		t.Fatalf("expected request id to be echoed, got %q", got)
	}
}
