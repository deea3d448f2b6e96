package metrics_test

import (
	"testing"
	"time"

	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/SscSPs/docledger/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewLedger(reg)

	orig := "t1"
	m.ObserveResult(domain.LedgerResult{Outcome: domain.OutcomeApplied, Transaction: &domain.Transaction{Type: domain.Increase, Amount: decimal.NewFromInt(10)}})
	m.ObserveResult(domain.LedgerResult{Outcome: domain.OutcomeReversed, Transaction: &domain.Transaction{
		Type: domain.Decrease, Amount: decimal.NewFromInt(10), Metadata: domain.TransactionMetadata{IsReversal: true, OriginalTransactionID: &orig},
	}})
	m.ObserveResult(domain.LedgerResult{Outcome: domain.OutcomeAlreadyApplied})
	m.ObserveLockTimeout()
	m.ObserveNumberIssued(domain.Receipt)
	m.ObserveNumberIssued(domain.Receipt)
	m.ObserveDuration("change_status", time.Now())

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Positive(t, count)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LockTimeouts()))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.NumbersIssued().WithLabelValues("receipt")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Outcomes().WithLabelValues("already_applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transactions().WithLabelValues("decrease", "true")))
}

func TestNilLedgerIsNoop(t *testing.T) {
	var m *metrics.Ledger
	assert.NotPanics(t, func() {
		m.ObserveResult(domain.LedgerResult{Outcome: domain.OutcomeNoEffect})
		m.ObserveLockTimeout()
		m.ObserveNumberIssued(domain.Invoice)
		m.ObserveDuration("x", time.Now())
	})
}
