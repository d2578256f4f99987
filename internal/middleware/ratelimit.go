package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"go-checklist-api/internal/metrics"
	"go-checklist-api/pkg/apierror"
)

const (
	authPathPrefix = "/api/auth"

	defaultAuthRPM = 10
	sweepThreshold = 1000
	idleBucketTTL  = 10 * time.Minute
)

type bucketScope uint8

const (
	scopeGeneral bucketScope = iota
	scopeAuth
)

type bucketKey struct {
	client string
	scope  bucketScope
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware keeps a token bucket per client IP and scope. The auth
// scope is tighter and covers the credential endpoints. A general rate of
// zero or less leaves everything outside /api/auth unlimited.
type RateLimitMiddleware struct {
	generalRPM int
	authRPM    int
	now        func() time.Time

	mu      sync.Mutex
	buckets map[bucketKey]*bucket
}

func NewRateLimitMiddleware(generalRPM int, authRPM int) *RateLimitMiddleware {
	if authRPM <= 0 {
		authRPM = defaultAuthRPM
	}

	return &RateLimitMiddleware{
		generalRPM: generalRPM,
		authRPM:    authRPM,
		now:        time.Now,
		buckets:    map[bucketKey]*bucket{},
	}
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope := scopeGeneral
		if strings.HasPrefix(strings.ToLower(r.URL.Path), authPathPrefix) {
			scope = scopeAuth
		} else if m.generalRPM <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		limiter := m.limiter(bucketKey{client: extractClientIP(r), scope: scope})
		now := m.now()
		reservation := limiter.ReserveN(now, 1)
		if delay := reservation.DelayFrom(now); delay > 0 {
			reservation.CancelAt(now)
			metrics.RecordDenied("rate_limited")
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			writeAPIError(w, apierror.New("RATE_LIMITED", "Too many requests", "", http.StatusTooManyRequests))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *RateLimitMiddleware) limiter(key bucketKey) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if b, ok := m.buckets[key]; ok {
		b.lastSeen = now
		return b.limiter
	}

	if len(m.buckets) >= sweepThreshold {
		m.sweepLocked(now)
	}

	rpm := m.generalRPM
	if key.scope == scopeAuth {
		rpm = m.authRPM
	}
	b := &bucket{
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm),
		lastSeen: now,
	}
	m.buckets[key] = b
	return b.limiter
}

func (m *RateLimitMiddleware) sweepLocked(now time.Time) {
	cutoff := now.Add(-idleBucketTTL)
	for key, b := range m.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(m.buckets, key)
		}
	}
}

// extractClientIP returns the host part of r.RemoteAddr. Forwarding headers
// are honoured only through ClientIP, which rewrites RemoteAddr for trusted
// proxies.
func extractClientIP(r *http.Request) string {
	if addr, ok := remoteAddr(r.RemoteAddr); ok {
		return addr.String()
	}
	if remote := strings.TrimSpace(r.RemoteAddr); remote != "" {
		return remote
	}
	return "unknown"
}
