package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"edubatch/internal/ratelimit"
)

// ActionLimit guards one mutating action with the shared fixed-window
// limiter. The identifier is the authenticated user when available, falling
// back to the caller's network address (chi's RealIP runs earlier in the
// chain, so RemoteAddr is already the client address).
func ActionLimit(limiter *ratelimit.Limiter, action string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identifier := r.RemoteAddr
			if claims, ok := GetClaims(r.Context()); ok {
				identifier = strconv.FormatInt(claims.UserID, 10)
			}

			if !limiter.Allow(r.Context(), action, identifier, limit, window) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"Too many requests. Please try again later."}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IPLimiter is an in-process token bucket per client address, used as a
// coarse first-line guard in front of the whole API. The distributed
// fixed-window limiter handles per-action budgets; this one only absorbs
// floods before they reach the store.
type IPLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipEntry
	rate     rate.Limit
	burst    int
}

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const ipEntryTTL = 15 * time.Minute

// NewIPLimiter creates the guard and starts a cleanup loop bound to ctx.
func NewIPLimiter(ctx context.Context, requestsPerSecond float64, burst int) *IPLimiter {
	l := &IPLimiter{
		limiters: make(map[string]*ipEntry),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.cleanup()
			}
		}
	}()

	return l
}

func (l *IPLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > ipEntryTTL {
			delete(l.limiters, key)
		}
	}
}

func (l *IPLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[key]
	if !ok {
		entry = &ipEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// Middleware returns a chi-compatible middleware function
func (l *IPLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.get(r.RemoteAddr).Allow() {
				http.Error(w, `{"error":"Rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
