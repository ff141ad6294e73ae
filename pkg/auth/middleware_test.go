package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var testSecret = SecretBytes("dev-secret-change-in-production-32bytes")

func issue(t *testing.T, subject string, ttl time.Duration) string {
	t.Helper()
	tok, err := IssueAdminToken(subject, testSecret, ttl, time.Now())
	if err != nil {
		t.Fatalf("IssueAdminToken: %v", err)
	}
	return tok
}

func TestRequireAdmin_NoToken_Returns401(t *testing.T) {
	mw := RequireAdmin(testSecret)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called")
	})

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON error body, got Content-Type %q", ct)
	}
}

func TestRequireAdmin_InvalidToken_Returns401(t *testing.T) {
	mw := RequireAdmin(testSecret)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called")
	})

	for _, header := range []string{"Bearer invalid.token", "Basic abc", "Bearer " + issue(t, "ops", -time.Minute)} {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		mw(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestRequireAdmin_BearerToken_CallsNextWithSubject(t *testing.T) {
	token := issue(t, "ops@aurasat", time.Hour)
	mw := RequireAdmin(testSecret)

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = AdminFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if got != "ops@aurasat" {
		t.Errorf("expected subject=ops@aurasat, got %q", got)
	}
}

func TestRequireAdmin_Cookie_CallsNext(t *testing.T) {
	token := issue(t, "ops", time.Hour)
	mw := RequireAdmin(testSecret)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookieName(), Value: token})
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)

	if !called {
		t.Errorf("expected next to be called, got status %d", rec.Code)
	}
}

func TestDevAuth_SetsDevAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := AdminFromContext(r.Context())
		if !ok {
			t.Error("admin not in context")
			return
		}
		if subject != DevAdmin {
			t.Errorf("expected %q, got %q", DevAdmin, subject)
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	DevAuth(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
