package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hrinsight/internal/domain/auth"
)

type stubPerms struct {
	allowed bool
	err     error
}

func (s stubPerms) HasPermission(context.Context, string, string) (bool, error) {
	return s.allowed, s.err
}

func TestRequirePermission(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	user := auth.UserContext{UserID: "u1", TenantID: "t1", RoleID: "r1"}

	cases := []struct {
		name   string
		perms  stubPerms
		user   bool
		status int
	}{
		{name: "anonymous", perms: stubPerms{allowed: true}, status: http.StatusUnauthorized},
		{name: "allowed", perms: stubPerms{allowed: true}, user: true, status: http.StatusNoContent},
		{name: "denied", perms: stubPerms{}, user: true, status: http.StatusForbidden},
		{name: "store error", perms: stubPerms{err: errors.New("down")}, user: true, status: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.user {
				req = req.WithContext(WithUser(req.Context(), user))
			}
			rec := httptest.NewRecorder()
			RequirePermission(auth.PermAnalyticsRead, tc.perms)(ok).ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
		})
	}
}

func TestRecovererReturnsEnvelope(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestBodyLimitRejectsLargeContentLength(t *testing.T) {
	handler := BodyLimit(1024)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.ContentLength = 4096
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}
