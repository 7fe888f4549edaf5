package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vdsearch/vdsearch/internal/auth"
	"github.com/vdsearch/vdsearch/internal/logger"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "valid header", header: "Bearer abc.def.ghi", expected: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc.def.ghi", expected: "abc.def.ghi"},
		{name: "missing header", header: "", expected: ""},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", expected: ""},
		{name: "scheme only", header: "Bearer ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bearerToken(tt.header); got != tt.expected {
				t.Errorf("bearerToken(%q) = %q, want %q", tt.header, got, tt.expected)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	sessions, err := auth.NewManager("batman", time.Hour)
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	token, err := sessions.Login("batman")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	handler := RequireAdmin(sessions, logger.New("error", false))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "valid token", authHeader: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "no header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer not-a-token", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/promotions", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
