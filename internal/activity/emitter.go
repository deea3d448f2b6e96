// Package activity publishes audit records for committed ledger transactions.
package activity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/SscSPs/docledger/internal/middleware"
)

// Emitter receives one record per committed transaction or reversal.
// Emit is called after commit and must not fail the operation.
type Emitter interface {
	Emit(ctx context.Context, record domain.ActivityRecord)
}

// LogEmitter writes activity records as structured log lines.
type LogEmitter struct {
	fallback *slog.Logger
}

// NewLogEmitter creates a LogEmitter. Records use the request logger when
// the context carries one and fallback otherwise.
func NewLogEmitter(fallback *slog.Logger) *LogEmitter {
	if fallback == nil {
		fallback = slog.Default()
	}
	return &LogEmitter{fallback: fallback}
}

func (e *LogEmitter) Emit(ctx context.Context, r domain.ActivityRecord) {
	logger, ok := middleware.LoggerFromCtx(ctx)
	if !ok {
		logger = e.fallback
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "ledger activity",
		slog.String("activity", "ledger_transaction"),
		slog.String("transaction_id", r.TransactionID),
		slog.String("document_id", r.DocumentID),
		slog.String("account_id", r.AccountID),
		slog.String("transaction_type", string(r.Type)),
		slog.String("amount", r.Amount.String()),
		slog.String("balance_before", r.BalanceBefore.String()),
		slog.String("balance_after", r.BalanceAfter.String()),
		slog.Time("timestamp", r.Timestamp),
		slog.Bool("is_reversal", r.IsReversal),
		slog.String("actor_id", r.ActorID),
	)
}

// Recorder keeps records in memory.
type Recorder struct {
	mu      sync.Mutex
	records []domain.ActivityRecord
}

func (r *Recorder) Emit(_ context.Context, record domain.ActivityRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
}

// Records returns a copy of everything emitted so far.
func (r *Recorder) Records() []domain.ActivityRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ActivityRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Multi fans a record out to several emitters.
type Multi []Emitter

func (m Multi) Emit(ctx context.Context, record domain.ActivityRecord) {
	for _, e := range m {
		if e != nil {
			e.Emit(ctx, record)
		}
	}
}

// Nop discards records.
type Nop struct{}

func (Nop) Emit(context.Context, domain.ActivityRecord) {}
