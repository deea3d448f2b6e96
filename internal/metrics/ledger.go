// Package metrics exposes Prometheus instrumentation for the ledger.
package metrics

import (
	"time"

	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "docledger"

// Ledger groups the ledger collectors. A nil *Ledger is valid and records nothing.
type Ledger struct {
	transactions  *prometheus.CounterVec
	outcomes      *prometheus.CounterVec
	lockTimeouts  prometheus.Counter
	numbersIssued *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// NewLedger registers the ledger collectors with reg.
func NewLedger(reg prometheus.Registerer) *Ledger {
	factory := promauto.With(reg)
	return &Ledger{
		transactions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Ledger transactions written, by direction and whether they are reversals.",
		}, []string{"type", "reversal"}),
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_outcomes_total",
			Help:      "Results of apply and reverse operations.",
		}, []string{"outcome"}),
		lockTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lock_timeouts_total",
			Help:      "Units of work rolled back because a row lock was not granted in time.",
		}),
		numbersIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_numbers_issued_total",
			Help:      "Document numbers issued by the sequence generator.",
		}, []string{"document_type"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of document lifecycle operations, including lock waits.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

// ObserveResult counts a committed ledger result.
func (m *Ledger) ObserveResult(r domain.LedgerResult) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(string(r.Outcome)).Inc()
	if r.Transaction != nil {
		reversal := "false"
		if r.Transaction.IsReversal() {
			reversal = "true"
		}
		m.transactions.WithLabelValues(string(r.Transaction.Type), reversal).Inc()
	}
}

// ObserveLockTimeout counts a rolled back unit of work.
func (m *Ledger) ObserveLockTimeout() {
	if m == nil {
		return
	}
	m.lockTimeouts.Inc()
}

// ObserveNumberIssued counts an issued document number.
func (m *Ledger) ObserveNumberIssued(t domain.DocumentType) {
	if m == nil {
		return
	}
	m.numbersIssued.WithLabelValues(string(t)).Inc()
}

// ObserveDuration records the time since start for operation.
func (m *Ledger) ObserveDuration(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// Collector accessors, used by tests and dashboards that read values in-process.

func (m *Ledger) Transactions() *prometheus.CounterVec  { return m.transactions }
func (m *Ledger) Outcomes() *prometheus.CounterVec      { return m.outcomes }
func (m *Ledger) LockTimeouts() prometheus.Counter      { return m.lockTimeouts }
func (m *Ledger) NumbersIssued() *prometheus.CounterVec { return m.numbersIssued }
