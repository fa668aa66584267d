package metrics

import (
	"context"
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"stallion/observability"
)

// EscrowMetrics tracks fund movement through the bounty and project engines.
// Amounts are recorded in base units.
type EscrowMetrics struct {
	operations   *prometheus.CounterVec
	escrowed     *prometheus.CounterVec
	paidOut      *prometheus.CounterVec
	refunded     *prometheus.CounterVec
	fees         *prometheus.CounterVec
	roundingDust *prometheus.CounterVec
	sweeperRuns  *prometheus.CounterVec

	operationCounter metric.Int64Counter
}

var (
	escrowOnce     sync.Once
	escrowRegistry *EscrowMetrics
)

func Escrow() *EscrowMetrics {
	escrowOnce.Do(func() {
		escrowRegistry = &EscrowMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stallion_operations_total",
				Help: "Count of engine operations by name and outcome.",
			}, []string{"op", "outcome"}),
			escrowed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stallion_escrowed_total",
				Help: "Base units moved into the escrow vault per token.",
			}, []string{"token"}),
			paidOut: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stallion_paid_out_total",
				Help: "Base units paid to winners and contributors per token.",
			}, []string{"token"}),
			refunded: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stallion_refunded_total",
				Help: "Base units returned to owners per token.",
			}, []string{"token"}),
			fees: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stallion_fees_collected_total",
				Help: "Base units forwarded to the fee account per token.",
			}, []string{"token"}),
			roundingDust: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stallion_rounding_dust",
				Help: "Cumulative equal-split remainder retained by the vault per token.",
			}, []string{"token"}),
			sweeperRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stallion_sweeper_settlements_total",
				Help: "Bounties examined by the deadline sweeper by outcome.",
			}, []string{"outcome"}),
		}
		prometheus.MustRegister(
			escrowRegistry.operations,
			escrowRegistry.escrowed,
			escrowRegistry.paidOut,
			escrowRegistry.refunded,
			escrowRegistry.fees,
			escrowRegistry.roundingDust,
			escrowRegistry.sweeperRuns,
		)
		escrowRegistry.initMeter(otel.GetMeterProvider())
	})
	return escrowRegistry
}

// initMeter mirrors operation outcomes onto an OTLP counter. The global
// provider delegates to the exporter installed by the telemetry package.
func (m *EscrowMetrics) initMeter(provider metric.MeterProvider) {
	meter := provider.Meter("stallion/escrow")
	counter, err := meter.Int64Counter("stallion.operations",
		metric.WithDescription("Count of engine operations by name and outcome."))
	if err != nil {
		counter, _ = noop.NewMeterProvider().Meter("stallion/escrow").Int64Counter("stallion.operations")
	}
	m.operationCounter = counter
}

func (m *EscrowMetrics) ObserveOperation(op string, err error) {
	if m == nil {
		return
	}
	if op == "" {
		op = "unknown"
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.operations.WithLabelValues(op, outcome).Inc()
	if m.operationCounter != nil {
		m.operationCounter.Add(
			context.Background(),
			1,
			metric.WithAttributes(
				attribute.String("op", op),
				attribute.String("outcome", outcome),
			),
		)
	}
}

func (m *EscrowMetrics) AddEscrowed(token string, amount *big.Int) {
	if m == nil {
		return
	}
	addAmount(m.escrowed, token, amount)
}

func (m *EscrowMetrics) AddPaidOut(token string, amount *big.Int) {
	if m == nil {
		return
	}
	addAmount(m.paidOut, token, amount)
}

func (m *EscrowMetrics) AddRefunded(token string, amount *big.Int) {
	if m == nil {
		return
	}
	addAmount(m.refunded, token, amount)
}

func (m *EscrowMetrics) AddFee(token string, amount *big.Int) {
	if m == nil {
		return
	}
	addAmount(m.fees, token, amount)
}

func (m *EscrowMetrics) AddRoundingDust(token string, amount *big.Int) {
	if m == nil {
		return
	}
	addAmount(m.roundingDust, token, amount)
}

func (m *EscrowMetrics) ObserveSweep(outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.sweeperRuns.WithLabelValues(outcome).Inc()
}

func addAmount(vec *prometheus.CounterVec, token string, amount *big.Int) {
	if amount == nil || amount.Sign() <= 0 {
		return
	}
	vec.WithLabelValues(observability.LabelAsset(token)).Add(observability.BigToFloat(amount))
}
