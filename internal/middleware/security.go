package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/AnshRaj112/codinglearn-backend/pkg/clientip"
	"golang.org/x/time/rate"
)

const (
	headerXContentTypeOptions = "X-Content-Type-Options"
	headerXFrameOptions       = "X-Frame-Options"
	headerReferrerPolicy      = "Referrer-Policy"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerXContentTypeOptions, "nosniff")
		w.Header().Set(headerXFrameOptions, "DENY")
		w.Header().Set(headerReferrerPolicy, "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// --- Per-IP rate limiting for credential routes ---

const (
	// CredentialRateEvery is how often one attempt is refilled per IP.
	CredentialRateEvery = 2 * time.Second
	// CredentialRateBurst is how many attempts an IP may make back to back.
	CredentialRateBurst = 5

	limiterSweepInterval = 5 * time.Minute
	limiterTTL           = 30 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// IPRateLimiter hands out one token bucket per client IP. Idle buckets are
// swept on access, so no goroutine is needed.
type IPRateLimiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	every     time.Duration
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewIPRateLimiter(every time.Duration, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		entries: make(map[string]*limiterEntry),
		every:   every,
		burst:   burst,
		now:     time.Now,
	}
}

// Allow reports whether ip may make another request now.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterSweepInterval {
		for key, e := range l.entries {
			if now.Sub(e.lastUse) > limiterTTL {
				delete(l.entries, key)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.entries[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.entries[ip] = e
	}
	e.lastUse = now
	return e.limiter.AllowN(now, 1)
}

// Middleware returns 429 once the client IP runs out of attempts.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientip.RealClientIP(r)) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"message":"Too many attempts. Please try again later."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
