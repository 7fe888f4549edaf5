package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vdsearch/vdsearch/internal/logger"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		origins    []string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{
			name:       "wildcard allows any origin",
			origins:    []string{"*"},
			method:     http.MethodGet,
			origin:     "https://search.example",
			wantStatus: http.StatusOK,
			wantAllow:  "*",
		},
		{
			name:       "preflight short-circuits",
			origins:    []string{"*"},
			method:     http.MethodOptions,
			origin:     "https://search.example",
			wantStatus: http.StatusNoContent,
			wantAllow:  "*",
		},
		{
			name:       "listed origin is echoed",
			origins:    []string{"https://search.example"},
			method:     http.MethodGet,
			origin:     "https://search.example",
			wantStatus: http.StatusOK,
			wantAllow:  "https://search.example",
		},
		{
			name:       "unlisted origin gets no allow header",
			origins:    []string{"https://search.example"},
			method:     http.MethodGet,
			origin:     "https://evil.example",
			wantStatus: http.StatusOK,
			wantAllow:  "",
		},
		{
			name:       "non-browser request untouched",
			origins:    []string{"*"},
			method:     http.MethodGet,
			origin:     "",
			wantStatus: http.StatusOK,
			wantAllow:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CORS(tt.origins, logger.New("error", false))(next)

			req := httptest.NewRequest(tt.method, "/api/search", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
		})
	}
}
