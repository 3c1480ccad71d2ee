// Package auth carries the HTTP edge checks that run before any handler:
// CORS, rate limiting and session token extraction. Session validation
// itself lives in the directory; handlers pass the bearer token down and
// the engine rejects unknown tokens.
package auth

import (
	"net"
	"net/http"
	"strings"

	"huddle/pkg/logger"
	"huddle/pkg/utils"
)

// SecConfig mirrors the security-related configuration used to drive
// CORS and rate limiting behavior. Put here so limiter.go and gateway.go
// can reference the shared type.
type SecConfig struct {
	AllowedOrigins []string
	RPS            float64
	Burst          int
}

// GatewayMiddleware applies CORS headers and per-caller rate limiting.
// Limiters are keyed by session token when present, falling back to the
// remote IP for unauthenticated traffic.
func GatewayMiddleware(cfg SecConfig) func(http.Handler) http.Handler {
	limiters := &limiterPool{cfg: cfg}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// log request (redacts sensitive headers)
			logger.LogRequest(r)

			// cors preflight
			origin := r.Header.Get("Origin")
			if origin != "" && originAllowed(origin, cfg.AllowedOrigins) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
				w.Header().Set("Access-Control-Max-Age", "600")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			// probes and scrapes skip the limiter
			if p := r.URL.Path; p == "/healthz" || p == "/readyz" || p == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			key := BearerToken(r)
			if key == "" {
				key = clientIP(r)
			}
			if !limiters.Allow(key) {
				utils.JSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				logger.Warn("rate_limited", "path", r.URL.Path)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the session token from the Authorization header.
// Returns the empty string when the header is absent or malformed; the
// directory then rejects the empty token.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

func originAllowed(origin string, allowed []string) bool {
	if len(allowed) == 0 {
		return false
	}
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
