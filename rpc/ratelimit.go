package rpc

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"stallion/core"
	"stallion/observability"
)

// RateLimit configures per-visitor throttling. Forwarding headers are only
// honoured when TrustProxyHeaders is set or the peer is a trusted proxy.
type RateLimit struct {
	PerSecond         float64
	Burst             int
	TrustProxyHeaders bool
	TrustedProxies    []string
}

type rateEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per caller address, falling back to the
// client IP for anonymous requests.
type RateLimiter struct {
	limit    RateLimit
	trusted  map[string]struct{}
	mu       sync.Mutex
	visitors map[string]*rateEntry
	clockNow func() time.Time
}

const visitorTTL = 5 * time.Minute

func NewRateLimiter(limit RateLimit) *RateLimiter {
	trusted := make(map[string]struct{}, len(limit.TrustedProxies))
	for _, proxy := range limit.TrustedProxies {
		if trimmed := strings.TrimSpace(proxy); trimmed != "" {
			trusted[trimmed] = struct{}{}
		}
	}
	return &RateLimiter{
		limit:    limit,
		trusted:  trusted,
		visitors: make(map[string]*rateEntry),
		clockNow: time.Now,
	}
}

func (r *RateLimiter) Middleware(module string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if r == nil || r.limit.PerSecond <= 0 {
				next.ServeHTTP(w, req)
				return
			}
			if !r.allow(r.visitorID(req)) {
				observability.RPC().RecordThrottle(module, "rate_limit")
				writeProblem(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func (r *RateLimiter) allow(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clockNow()
	for key, entry := range r.visitors {
		if now.Sub(entry.lastSeen) > visitorTTL {
			delete(r.visitors, key)
		}
	}
	entry, ok := r.visitors[id]
	if !ok {
		burst := r.limit.Burst
		if burst <= 0 {
			burst = 1
		}
		entry = &rateEntry{limiter: rate.NewLimiter(rate.Limit(r.limit.PerSecond), burst)}
		r.visitors[id] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (r *RateLimiter) visitorID(req *http.Request) string {
	if caller := core.CallerFrom(req.Context()); !caller.IsZero() {
		return caller.Hex()
	}
	return r.clientSource(req)
}

func (r *RateLimiter) clientSource(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		host = req.RemoteAddr
	}
	if !r.trustsProxy(host) {
		return host
	}
	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		if candidate := strings.TrimSpace(strings.Split(forwarded, ",")[0]); candidate != "" {
			return candidate
		}
	}
	if ip := strings.TrimSpace(req.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return host
}

func (r *RateLimiter) trustsProxy(host string) bool {
	if r.limit.TrustProxyHeaders {
		return true
	}
	_, ok := r.trusted[host]
	return ok
}
