// Package cache keeps document numbering counters in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/SscSPs/docledger/internal/core/domain"
	portsrepo "github.com/SscSPs/docledger/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

// SequenceKeyFmt is seq:{company}:{type}:{yyyymmdd}.
const SequenceKeyFmt = "seq:%s:%s:%s"

// SequenceTTL keeps a day's counter around long enough for admin reads and resets.
const SequenceTTL = 35 * 24 * time.Hour

// SequenceRepository implements portsrepo.SequenceRepository with INCR.
type SequenceRepository struct {
	client redis.UniversalClient
}

// NewSequenceRepository wraps an existing client.
func NewSequenceRepository(client redis.UniversalClient) *SequenceRepository {
	return &SequenceRepository{client: client}
}

var _ portsrepo.SequenceRepository = (*SequenceRepository)(nil)

// NewClient connects and pings Redis.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func sequenceKey(key domain.SequenceKey) string {
	return fmt.Sprintf(SequenceKeyFmt, key.CompanyID, key.DocumentType, key.DateKey)
}

func (r *SequenceRepository) IncrementSequence(ctx context.Context, key domain.SequenceKey) (int64, error) {
	k := sequenceKey(key)
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, SequenceTTL)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", k, err)
	}
	return incr.Val(), nil
}

func (r *SequenceRepository) CurrentSequence(ctx context.Context, key domain.SequenceKey) (int64, error) {
	k := sequenceKey(key)
	value, err := r.client.Get(ctx, k).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", k, err)
	}
	return value, nil
}

func (r *SequenceRepository) ResetSequence(ctx context.Context, key domain.SequenceKey, value int64) error {
	if value < 0 {
		return fmt.Errorf("%w: sequence value must not be negative", apperrors.ErrValidation)
	}
	k := sequenceKey(key)
	if err := r.client.Set(ctx, k, value, SequenceTTL).Err(); err != nil {
		return fmt.Errorf("failed to reset %s: %w", k, err)
	}
	return nil
}
