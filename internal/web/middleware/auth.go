// Package middleware provides HTTP middleware for the web server.
package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/asanahub/poseadmin/internal/config"
)

// APIKeyAuth returns middleware that validates the X-API-Key header against
// the configured keys. If RequireAPIKey is false, all requests pass through.
// If RequireAPIKey is true but no keys are configured, all requests are
// rejected.
func APIKeyAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAPIKey {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				slog.Warn("auth: missing API key",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, `{"error":"missing API key"}`, http.StatusUnauthorized)
				return
			}

			if !isValidAPIKey(apiKey, cfg.APIKeys) {
				slog.Warn("auth: invalid API key",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, `{"error":"invalid API key"}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isValidAPIKey checks the key against every configured key in constant
// time, regardless of which one matches (or none), to avoid timing leaks.
func isValidAPIKey(key string, validKeys []string) bool {
	valid := 0
	for _, validKey := range validKeys {
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(validKey))
	}
	return valid == 1
}
