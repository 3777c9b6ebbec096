package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"personal_finance/internal/auth"
	"personal_finance/internal/repository/memory"
	"personal_finance/internal/service"
)

func newTestHandler(t *testing.T) *APIHandler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenManager("handler-test-secret", time.Hour)
	users := service.NewUserService(memory.NewUserRepository(), tokens, logger)

	return NewAPIHandler(nil, users, tokens, logger)
}

func TestRegisterHandlerRejectsMalformedBody(t *testing.T) {
	h := newTestHandler(t)

	r := httptest.NewRequest("POST", "/api/register", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.RegisterHandler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code != "INVALID_REQUEST" {
		t.Errorf("expected INVALID_REQUEST code, got %q", resp.Code)
	}
}

func TestRegisterHandlerRequiresCredentials(t *testing.T) {
	h := newTestHandler(t)

	cases := []string{
		`{}`,
		`{"username":"bob"}`,
		`{"password":"pw"}`,
	}
	for _, body := range cases {
		r := httptest.NewRequest("POST", "/api/register", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.RegisterHandler(w, r)

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestLoginHandlerUnknownUser(t *testing.T) {
	h := newTestHandler(t)

	r := httptest.NewRequest("POST", "/api/login", strings.NewReader(`{"username":"ghost","password":"pw"}`))
	w := httptest.NewRecorder()
	h.LoginHandler(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestCreateTransactionHandlerWithoutIdentity(t *testing.T) {
	h := newTestHandler(t)

	// Called directly, bypassing the auth middleware: no user in context.
	r := httptest.NewRequest("POST", "/api/transactions", strings.NewReader(`{"amount":50,"category":"Groceries"}`))
	w := httptest.NewRecorder()
	h.CreateTransactionHandler(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestHealthCheckHandler(t *testing.T) {
	h := newTestHandler(t)

	r := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	h.HealthCheckHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", resp["status"])
	}
}

func TestRegisterRoutesMethodMatching(t *testing.T) {
	h := newTestHandler(t)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	r := httptest.NewRequest("GET", "/api/register", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for GET /api/register, got %d", w.Code)
	}
}
