package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"txguard-lab/pkg/logger"
)

// AdminAuth guards catalog mutations. The token is read from X-Admin-Token or
// an "Authorization: Bearer" header. An empty configured token disables the check.
func AdminAuth(token string, log *logger.Logger) func(next http.Handler) http.Handler {
	log = log.WithComponent("admin-auth")
	if token == "" {
		log.Warn().Msg("no admin token configured, catalog mutations are unauthenticated")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip auth for CORS preflight
			if r.Method == http.MethodOptions || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			presented := adminToken(r)
			if presented == "" {
				writeError(w, http.StatusUnauthorized, "admin token required")
				return
			}
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				log.Warn().Str("remote_addr", r.RemoteAddr).Str("path", r.URL.Path).Msg("invalid admin token")
				writeError(w, http.StatusForbidden, "invalid admin token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func adminToken(r *http.Request) string {
	if t := r.Header.Get("X-Admin-Token"); t != "" {
		return t
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
