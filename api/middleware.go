package api

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/vapeguard/insurance-api/models"
	"github.com/vapeguard/insurance-api/utils"
)

type contextKey string

// UserIDKey carries the authenticated user id through the request context.
const UserIDKey contextKey = "user_id"

// CORSMiddleware sets the portal's CORS headers and answers preflights.
func CORSMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

// AuthMiddleware validates the Bearer token and stashes the user id in the
// request context.
func AuthMiddleware(jwtSecret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.RespondError(w, nil, http.StatusUnauthorized, "Missing or malformed Authorization header", models.CodeUnauthorized)
			return
		}

		userID, err := utils.ValidateToken(strings.TrimPrefix(header, "Bearer "), jwtSecret)
		if err != nil {
			utils.RespondError(w, nil, http.StatusUnauthorized, "Invalid or expired token", models.CodeUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// RateLimiter is a fixed-window in-memory counter per client IP. Counters for
// a window are discarded when the window rolls over.
type RateLimiter struct {
	mu       sync.Mutex
	window   time.Duration
	limit    int
	start    time.Time
	counters map[string]int
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		window:   window,
		limit:    limit,
		start:    time.Now(),
		counters: make(map[string]int),
	}
}

// Allow counts one request for ip and reports whether it is within the limit.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.start) >= rl.window {
		rl.start = now
		rl.counters = make(map[string]int)
	}

	rl.counters[ip]++
	return rl.counters[ip] <= rl.limit
}

// Middleware rejects over-limit requests with 429.
func (rl *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			utils.RespondError(w, nil, http.StatusTooManyRequests, "Too many requests. Please try again later.", models.CodeRateLimited)
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
