package api

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter manages per-client rate limiting for API requests.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex

	limit rate.Limit

	// Burst size (number of requests that can be made in a burst)
	burstSize int
}

// NewRateLimiter creates a new rate limiter allowing rps requests per
// second per client.
func NewRateLimiter(rps int) *RateLimiter {
	return &RateLimiter{
		limiters:  make(map[string]*rate.Limiter),
		limit:     rate.Limit(rps),
		burstSize: 10, // Allow bursts of 10 requests
	}
}

// getLimiter returns the rate limiter for a specific client key.
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[key]
	rl.mu.RUnlock()

	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Double-check in case another goroutine created it
	if limiter, exists := rl.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rl.limit, rl.burstSize)
	rl.limiters[key] = limiter

	return limiter
}

// clientKey identifies the caller by IP, falling back to the raw
// RemoteAddr when it cannot be split.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware creates a middleware that enforces rate limiting
func RateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := rl.getLimiter(clientKey(r))

			if !limiter.Allow() {
				respondJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
