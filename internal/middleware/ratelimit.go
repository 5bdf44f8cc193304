package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type window struct {
	count int
	until time.Time
}

// Limiter is a fixed-window request counter keyed by client IP.
type Limiter struct {
	limit int
	per   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

func NewLimiter(limit int, per time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		per:     per,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

// Allow counts one hit for key. When the window is exhausted it returns false
// and the time left until the window resets.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.until) {
		l.prune(now)
		w = &window{until: now.Add(l.per)}
		l.windows[key] = w
	}
	if w.count >= l.limit {
		return false, w.until.Sub(now)
	}
	w.count++
	return true, 0
}

func (l *Limiter) prune(now time.Time) {
	for k, w := range l.windows {
		if !now.Before(w.until) {
			delete(l.windows, k)
		}
	}
}

// Handler rejects requests over the limit with 429 and a Retry-After header.
func (l *Limiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retry := l.Allow(clientIPForRateLimit(r))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"code":"rate_limited","message":"Too many requests, slow down."}}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit allows limit requests per client IP in each window of length per.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	return NewLimiter(limit, per).Handler
}

// clientIPForRateLimit keys on RemoteAddr only. Forwarding headers are the
// business of chi's RealIP, which runs first and rewrites RemoteAddr.
func clientIPForRateLimit(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
