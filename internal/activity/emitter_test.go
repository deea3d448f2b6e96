package activity_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/docledger/internal/activity"
	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/SscSPs/docledger/internal/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleRecord() domain.ActivityRecord {
	return domain.ActivityRecord{
		TransactionID: "t1",
		DocumentID:    "d1",
		AccountID:     "a1",
		Type:          domain.Increase,
		Amount:        decimal.NewFromInt(2500),
		BalanceBefore: decimal.NewFromInt(1000),
		BalanceAfter:  decimal.NewFromInt(3500),
		Timestamp:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		ActorID:       "u1",
	}
}

func TestLogEmitterUsesFallback(t *testing.T) {
	var buf bytes.Buffer
	e := activity.NewLogEmitter(slog.New(slog.NewJSONHandler(&buf, nil)))

	e.Emit(context.Background(), sampleRecord())

	out := buf.String()
	assert.Contains(t, out, `"msg":"ledger activity"`)
	assert.Contains(t, out, `"balance_after":"3500"`)
	assert.Contains(t, out, `"is_reversal":false`)
}

func TestLogEmitterPrefersRequestLogger(t *testing.T) {
	var fallback, request bytes.Buffer
	e := activity.NewLogEmitter(slog.New(slog.NewJSONHandler(&fallback, nil)))
	ctx := middleware.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&request, nil)).With(slog.String("request_id", "r1")))

	e.Emit(ctx, sampleRecord())

	assert.Empty(t, fallback.String())
	assert.Contains(t, request.String(), `"request_id":"r1"`)
	assert.Contains(t, request.String(), `"document_id":"d1"`)
}

func TestMultiAndRecorder(t *testing.T) {
	a, b := &activity.Recorder{}, &activity.Recorder{}
	activity.Multi{a, nil, b, activity.Nop{}}.Emit(context.Background(), sampleRecord())

	assert.Len(t, a.Records(), 1)
	assert.Len(t, b.Records(), 1)
	assert.Equal(t, "t1", a.Records()[0].TransactionID)
}
