package observability

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"stallion/core/types"
)

// RPCMetrics records HTTP handler activity per route group.
type RPCMetrics struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	inflight  *prometheus.GaugeVec
	throttles *prometheus.CounterVec
}

var (
	rpcOnce     sync.Once
	rpcRegistry *RPCMetrics
)

// RPC returns the process-wide HTTP metrics, registering them on first use.
func RPC() *RPCMetrics {
	rpcOnce.Do(func() {
		rpcRegistry = &RPCMetrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "stallion",
				Subsystem: "rpc",
				Name:      "requests_total",
				Help:      "HTTP requests by route group, route and status code.",
			}, []string{"group", "route", "code"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "stallion",
				Subsystem: "rpc",
				Name:      "request_duration_seconds",
				Help:      "HTTP handler latency by route group and route.",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			}, []string{"group", "route"}),
			inflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "stallion",
				Subsystem: "rpc",
				Name:      "requests_in_flight",
				Help:      "HTTP requests currently being served.",
			}, []string{"group"}),
			throttles: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "stallion",
				Subsystem: "rpc",
				Name:      "throttles_total",
				Help:      "HTTP requests rejected by the rate limiter.",
			}, []string{"group", "reason"}),
		}
		prometheus.MustRegister(
			rpcRegistry.requests,
			rpcRegistry.latency,
			rpcRegistry.inflight,
			rpcRegistry.throttles,
		)
	})
	return rpcRegistry
}

// Begin marks a request in flight. The returned func records its outcome
// with the status finally written and the matched route pattern.
func (m *RPCMetrics) Begin(group string) func(route string, status int) {
	if m == nil {
		return func(string, int) {}
	}
	group = orUnknown(group)
	start := time.Now()
	m.inflight.WithLabelValues(group).Inc()
	return func(route string, status int) {
		m.inflight.WithLabelValues(group).Dec()
		route = orUnknown(route)
		m.requests.WithLabelValues(group, route, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(group, route).Observe(time.Since(start).Seconds())
	}
}

// RecordThrottle counts a rejected request, e.g. reason "rate_limit".
func (m *RPCMetrics) RecordThrottle(group, reason string) {
	if m == nil {
		return
	}
	m.throttles.WithLabelValues(orUnknown(group), orUnknown(reason)).Inc()
}

func orUnknown(v string) string {
	if strings.TrimSpace(v) == "" {
		return "unknown"
	}
	return v
}

// LabelAsset canonicalises a token symbol for use as a metric label.
func LabelAsset(asset string) string {
	normalized := types.NormalizeToken(asset)
	if normalized == "" {
		return "UNKNOWN"
	}
	return normalized
}

// BigToFloat converts an amount for counter updates. Values outside the
// float64 range map to zero.
func BigToFloat(value *big.Int) float64 {
	if value == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(value).Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}
