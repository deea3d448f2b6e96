package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/docledger/internal/activity"
	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/SscSPs/docledger/internal/metrics"
	"github.com/SscSPs/docledger/internal/middleware"
	"github.com/google/uuid"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Clock    func() time.Time
	NewID    func() string
	Activity activity.Emitter
	Metrics  *metrics.Ledger
}

// BaseOption configures the shared dependencies of a service.
type BaseOption func(*BaseService)

// WithClock overrides time.Now.
func WithClock(clock func() time.Time) BaseOption {
	return func(b *BaseService) {
		b.Clock = clock
	}
}

// WithIDGenerator overrides uuid.NewString.
func WithIDGenerator(newID func() string) BaseOption {
	return func(b *BaseService) {
		b.NewID = newID
	}
}

// WithActivityEmitter sets where ledger activity records go.
func WithActivityEmitter(e activity.Emitter) BaseOption {
	return func(b *BaseService) {
		if e != nil {
			b.Activity = e
		}
	}
}

// WithMetrics sets the ledger collectors.
func WithMetrics(m *metrics.Ledger) BaseOption {
	return func(b *BaseService) {
		b.Metrics = m
	}
}

func newBaseService(opts ...BaseOption) BaseService {
	b := BaseService{
		Clock:    time.Now,
		NewID:    uuid.NewString,
		Activity: activity.Nop{},
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (s *BaseService) now() time.Time {
	return s.Clock().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// publish emits activity records and metrics for committed ledger results.
func (s *BaseService) publish(ctx context.Context, results []domain.LedgerResult) {
	for _, r := range results {
		s.Metrics.ObserveResult(r)
		if r.Transaction != nil {
			s.Activity.Emit(ctx, domain.NewActivityRecord(*r.Transaction))
		}
	}
}

// logFailure logs a failed unit of work at a level matching its cause.
func (s *BaseService) logFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	switch {
	case apperrors.IsRetryable(err):
		s.Metrics.ObserveLockTimeout()
		s.GetLogger(ctx).Warn(msg, append([]any{slog.String("error", err.Error()), slog.Bool("retryable", true)}, keyvals...)...)
	case errors.Is(err, apperrors.ErrIntegrity):
		s.LogError(ctx, err, msg, keyvals...)
	case apperrors.IsValidation(err), errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrConflict):
		s.GetLogger(ctx).Warn(msg, append([]any{slog.String("error", err.Error())}, keyvals...)...)
	default:
		s.LogError(ctx, err, msg, keyvals...)
	}
}
