package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"swms-backend/internal/auth"
	"swms-backend/internal/models"
)

func newTokenService(t *testing.T) *auth.Service {
	t.Helper()
	return auth.NewService("middleware-test-secret", "")
}

func issueToken(t *testing.T, tokens *auth.Service, role string) string {
	t.Helper()
	token, err := tokens.Issue(&models.User{ID: "user-1", Email: "u@example.com", Role: role})
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestAuthenticateNoHeader(t *testing.T) {
	tokens := newTokenService(t)
	handler := Authenticate(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no token") {
		t.Errorf("body = %s, want no-token message", rec.Body.String())
	}
}

func TestAuthenticateBadHeaderFormat(t *testing.T) {
	tokens := newTokenService(t)
	handler := Authenticate(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with a malformed header")
	}))

	for _, header := range []string{"Bearer", "Basic abc", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, rec.Code)
		}
	}
}

func TestAuthenticateValidToken(t *testing.T) {
	tokens := newTokenService(t)
	token := issueToken(t, tokens, models.RoleDriver)

	var got auth.Claims
	var reached bool
	handler := Authenticate(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		got, _ = GetUserFromContext(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !reached {
		t.Fatalf("handler not reached, status = %d body = %s", rec.Code, rec.Body.String())
	}
	if got.UserID != "user-1" || got.Role != models.RoleDriver {
		t.Errorf("claims = %+v, want user-1/driver", got)
	}
}

func TestAuthenticateRejectedToken(t *testing.T) {
	tokens := newTokenService(t)
	other := auth.NewService("a-different-secret", "")
	foreign := issueToken(t, other, models.RoleAdmin)

	handler := Authenticate(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with a foreign token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+foreign)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid token") {
		t.Errorf("body = %s, want invalid-token message", rec.Body.String())
	}
}

func TestRequireRoleWithoutAuthenticate(t *testing.T) {
	handler := RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without authentication")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not authenticated") {
		t.Errorf("body = %s, want not-authenticated message", rec.Body.String())
	}
}

func TestRequireRoleForbidsWrongRole(t *testing.T) {
	tokens := newTokenService(t)
	token := issueToken(t, tokens, models.RoleCitizen)

	handler := Authenticate(tokens)(RequireRole("admin", "driver")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler reached with the wrong role")
		})))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "citizen") || !strings.Contains(body, "admin or driver") {
		t.Errorf("body = %s, want role and required-roles named", body)
	}
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	tokens := newTokenService(t)
	token := issueToken(t, tokens, models.RoleAdmin)

	var reached bool
	handler := Authenticate(tokens)(RequireRole("admin")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
		})))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !reached {
		t.Errorf("handler not reached, status = %d body = %s", rec.Code, rec.Body.String())
	}
}
