package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/taskdeckapp/taskdeck-server/internal/ratelimit"
)

// newAuthRateLimiter builds the limiter applied to authentication endpoints.
// rate is requests per interval; burst is the maximum burst size.
func newAuthRateLimiter(ratePerInterval int, interval time.Duration, burst int) *ratelimit.KeyedRateLimiter {
	rps := float64(ratePerInterval) / interval.Seconds()
	return ratelimit.New(rps, burst)
}

// authRateLimitMiddleware rate limits authentication endpoints by client IP.
// Other paths pass through untouched. Returns 429 when the limit is hit.
func (s *Server) authRateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/v1/auth/") {
			next.ServeHTTP(w, r)
			return
		}

		key := getClientIP(r)
		if !s.authLimiter.Allow(key) {
			s.logger.Warn("rate limit exceeded", "ip", key, "path", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprintf(w, `{"v":%d,"success":false,"error":"Too many requests. Please try again later.","code":"RATE_LIMITED","message":"Too many requests. Please try again later."}`, envelopeVersion)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP from the request. Checks
// X-Forwarded-For and X-Real-IP before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First IP in the chain is the client.
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}
