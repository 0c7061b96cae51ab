package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"txguard-lab/pkg/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAdminAuth(t *testing.T) {
	h := AdminAuth("token", logger.NewNop())(okHandler())

	tests := []struct {
		name   string
		method string
		header string
		value  string
		want   int
	}{
		{"missing", http.MethodPost, "", "", http.StatusUnauthorized},
		{"admin header", http.MethodPost, "X-Admin-Token", "token", http.StatusNoContent},
		{"bearer", http.MethodPost, "Authorization", "Bearer token", http.StatusNoContent},
		{"bearer lowercase scheme", http.MethodPost, "Authorization", "bearer token", http.StatusNoContent},
		{"basic scheme ignored", http.MethodPost, "Authorization", "Basic token", http.StatusUnauthorized},
		{"wrong token", http.MethodDelete, "X-Admin-Token", "nope", http.StatusForbidden},
		{"preflight", http.MethodOptions, "", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/patterns", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want >= http.StatusBadRequest {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

func TestClientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:52100"
	assert.Equal(t, "ip:203.0.113.7", clientID(req))

	req.RemoteAddr = "203.0.113.7"
	assert.Equal(t, "ip:203.0.113.7", clientID(req))
}

func TestLogger_LevelByStatus(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "info", Format: "json", Output: &buf})

	failing := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	Logger(log)(failing).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"status":500`)
	assert.Contains(t, buf.String(), `"component":"http"`)

	buf.Reset()
	Logger(log)(okHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), `"path":"/health"`)
}
