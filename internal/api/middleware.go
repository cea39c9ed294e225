package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/wonny/autovault/pkg/logger"
	"github.com/wonny/autovault/pkg/redis"
)

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiter throttles /api requests. With Redis enabled the window is
// shared by every API replica; otherwise a local token bucket is used.
type RateLimiter struct {
	local  *rate.Limiter
	shared *redis.RateLimiter
	cfg    redis.RateLimitConfig
}

// NewRateLimiter creates a limiter for perSecond requests with burst.
// shared may be nil or disabled.
func NewRateLimiter(perSecond float64, burst int, shared *redis.RateLimiter) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	l := &RateLimiter{
		local: rate.NewLimiter(rate.Limit(perSecond), burst),
		cfg:   redis.APIRateLimit(perSecond, burst),
	}
	if shared.Enabled() {
		l.shared = shared
	}
	return l
}

// Allow reports whether one more request may proceed
func (l *RateLimiter) Allow(r *http.Request) bool {
	if l.shared != nil {
		allowed, _, err := l.shared.Allow(r.Context(), l.cfg)
		if err == nil {
			return allowed
		}
		// Redis 장애 시 로컬 버킷으로 대체
	}
	return l.local.Allow()
}

// rateLimitMiddleware rejects requests over the limit with 429
func rateLimitMiddleware(limiter *RateLimiter, log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(r) {
				log.WithFields(map[string]interface{}{
					"path":   r.URL.Path,
					"remote": r.RemoteAddr,
				}).Warn("Rate limit exceeded")

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Rate limit exceeded",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
