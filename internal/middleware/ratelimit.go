package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

// AttemptLimiter caps state-changing requests per client IP over a
// sliding window. Used on the login and register forms, where the
// backend would otherwise see every guessed password.
type AttemptLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

// NewAttemptLimiter creates a limiter allowing limit attempts per
// window for each IP.
func NewAttemptLimiter(limit int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{
		attempts: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow records an attempt and reports whether it is within the limit.
// Rejected attempts are not recorded, so a blocked client recovers as
// soon as its earlier attempts age out.
func (l *AttemptLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.prune(ip)
	if len(recent) >= l.limit {
		l.attempts[ip] = recent
		return false
	}
	l.attempts[ip] = append(recent, l.now())
	return true
}

// RetryAfter returns how long until the oldest counted attempt ages
// out. Zero when the IP is under the limit.
func (l *AttemptLimiter) RetryAfter(ip string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.prune(ip)
	l.attempts[ip] = recent
	if len(recent) < l.limit {
		return 0
	}
	return recent[0].Add(l.window).Sub(l.now())
}

// prune drops aged-out attempts for ip and empty entries for everyone
// else. Caller holds the lock.
func (l *AttemptLimiter) prune(ip string) []time.Time {
	cutoff := l.now().Add(-l.window)
	var recent []time.Time
	for _, at := range l.attempts[ip] {
		if at.After(cutoff) {
			recent = append(recent, at)
		}
	}
	if len(recent) == 0 {
		delete(l.attempts, ip)
	}
	return recent
}

// LimitAttempts rate-limits POST requests through the wrapped handler.
// Reads pass through untouched so the form page itself stays
// reachable.
func LimitAttempts(limiter *AttemptLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := getClientIP(r)
			if !limiter.Allow(ip) {
				retry := limiter.RetryAfter(ip).Round(time.Second)
				msg := fmt.Sprintf("Too many attempts. Please try again in %s.", retry)
				if IsHTMXRequest(r) {
					w.Header().Set("Content-Type", "text/html")
					w.WriteHeader(http.StatusTooManyRequests)
					fmt.Fprintf(w, `<div class="bg-red-50 border border-red-200 text-red-800 p-4 rounded-lg"><p class="text-sm">%s</p></div>`, msg)
				} else {
					http.Error(w, msg, http.StatusTooManyRequests)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
