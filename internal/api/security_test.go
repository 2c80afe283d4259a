package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func authTestHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_PlainToken(t *testing.T) {
	handler := AuthMiddleware("secret", authTestHandler())

	tests := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "/api/runs", "Bearer secret", http.StatusOK},
		{"wrong token", "/api/runs", "Bearer wrong", http.StatusUnauthorized},
		{"missing header", "/api/runs", "", http.StatusUnauthorized},
		{"malformed header", "/api/runs", "secret", http.StatusUnauthorized},
		{"non-api path skips auth", "/healthz", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestAuthMiddleware_BcryptToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash token: %v", err)
	}

	handler := AuthMiddleware(string(hash), authTestHandler())

	req := httptest.NewRequest("GET", "/api/runs", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for matching bcrypt token, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/runs", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for wrong bcrypt token, got %d", w.Code)
	}
}

func TestAuthMiddleware_NoTokenConfigured(t *testing.T) {
	handler := AuthMiddleware("", authTestHandler())

	req := httptest.NewRequest("GET", "/api/runs", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected auth to be skipped when no token configured, got %d", w.Code)
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	handler := SecurityHeadersMiddleware(authTestHandler())

	req := httptest.NewRequest("GET", "/api/runs", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("Expected nosniff header, got %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("Expected DENY frame options, got %q", got)
	}
}
