package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/velmarket/storefront-backend/pkg/config"
)

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		CookieName:   "storefront_session",
		AnonymousTTL: 720 * time.Hour,
	}
}

func TestAnonymousSessionMintsCookie(t *testing.T) {
	cfg := testSessionConfig()
	var captured string
	handler := AnonymousSession(cfg, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionKeyFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if captured == "" {
		t.Fatal("expected session key in context")
	}
	if _, err := uuid.Parse(captured); err != nil {
		t.Fatalf("expected uuid session key, got %q", captured)
	}

	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != cfg.CookieName {
		t.Fatalf("expected %s cookie, got %v", cfg.CookieName, cookies)
	}
	if cookies[0].Value != captured {
		t.Fatalf("cookie %q does not match context key %q", cookies[0].Value, captured)
	}
	if !cookies[0].HttpOnly {
		t.Fatal("expected HttpOnly cookie")
	}
}

func TestAnonymousSessionReusesValidCookie(t *testing.T) {
	cfg := testSessionConfig()
	existing := uuid.NewString()

	var captured string
	handler := AnonymousSession(cfg, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionKeyFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: existing})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if captured != existing {
		t.Fatalf("expected key %q got %q", existing, captured)
	}
	if len(resp.Result().Cookies()) != 0 {
		t.Fatal("expected no Set-Cookie for an existing session")
	}
}

func TestAnonymousSessionReplacesGarbageCookie(t *testing.T) {
	cfg := testSessionConfig()

	var captured string
	handler := AnonymousSession(cfg, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionKeyFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: "not-a-uuid"})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if captured == "not-a-uuid" {
		t.Fatal("expected garbage cookie to be replaced")
	}
	if _, err := uuid.Parse(captured); err != nil {
		t.Fatalf("expected uuid session key, got %q", captured)
	}
}

func TestAnonymousSessionSkipsAuthenticatedRequests(t *testing.T) {
	cfg := testSessionConfig()

	var captured string
	handler := AnonymousSession(cfg, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionKeyFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if captured != "" {
		t.Fatal("expected no session key for an authenticated request")
	}
	if len(resp.Result().Cookies()) != 0 {
		t.Fatal("expected no cookie for an authenticated request")
	}
}
