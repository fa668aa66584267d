package rpc

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientSourceIgnoresForwardingHeadersByDefault(t *testing.T) {
	limiter := NewRateLimiter(RateLimit{PerSecond: 1, Burst: 1})
	req := httptest.NewRequest(http.MethodGet, "/v1/bounties", nil)
	req.RemoteAddr = "192.0.2.10:7000"
	req.Header.Set("X-Real-IP", "198.51.100.7")
	req.Header.Set("X-Forwarded-For", "198.51.100.8")
	require.Equal(t, "192.0.2.10", limiter.visitorID(req))
}

func TestClientSourceHonorsHeadersFromTrustedProxy(t *testing.T) {
	limiter := NewRateLimiter(RateLimit{PerSecond: 1, Burst: 1, TrustedProxies: []string{"10.0.0.1"}})
	req := httptest.NewRequest(http.MethodGet, "/v1/bounties", nil)
	req.RemoteAddr = "10.0.0.1:8080"
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	require.Equal(t, "198.51.100.7", limiter.clientSource(req))

	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-IP", "198.51.100.9")
	require.Equal(t, "198.51.100.9", limiter.clientSource(req))

	req.RemoteAddr = "10.0.0.2:8080"
	require.Equal(t, "10.0.0.2", limiter.clientSource(req))
}

func TestClientSourceHonorsHeadersWhenTrustFlagEnabled(t *testing.T) {
	limiter := NewRateLimiter(RateLimit{PerSecond: 1, Burst: 1, TrustProxyHeaders: true})
	req := httptest.NewRequest(http.MethodGet, "/v1/bounties", nil)
	req.RemoteAddr = "192.0.2.10:7000"
	req.Header.Set("X-Real-IP", "198.51.100.8")
	require.Equal(t, "198.51.100.8", limiter.clientSource(req))
}

func TestRateLimitSpoofedRealIP(t *testing.T) {
	limiter := NewRateLimiter(RateLimit{PerSecond: 0.001, Burst: 2})
	handler := limiter.Middleware("query")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(i int) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/bounties", nil)
		req.RemoteAddr = "10.1.1.1:9000"
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}
	require.Equal(t, http.StatusNoContent, send(1))
	require.Equal(t, http.StatusNoContent, send(2))
	require.Equal(t, http.StatusTooManyRequests, send(3), "rotating X-Real-IP must not reset the budget")
}
