// Package memory provides in-memory repositories for tests and local development.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/SscSPs/docledger/internal/core/domain"
	portsrepo "github.com/SscSPs/docledger/internal/core/ports/repositories"
)

// DefaultLockTimeout bounds how long a unit of work waits for a row lock.
const DefaultLockTimeout = 5 * time.Second

// Store keeps every table in maps guarded by one RWMutex. Row locks are
// separate one-slot channels so a unit of work can hold them across calls.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	documents    map[string]domain.Document
	transactions []domain.Transaction
	sequences    map[domain.SequenceKey]int64
	settings     map[string]domain.CompanySettings

	locksMu     sync.Mutex
	locks       map[string]chan struct{}
	lockTimeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithLockTimeout overrides DefaultLockTimeout.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.lockTimeout = d
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		accounts:    make(map[string]domain.Account),
		documents:   make(map[string]domain.Document),
		sequences:   make(map[domain.SequenceKey]int64),
		settings:    make(map[string]domain.CompanySettings),
		locks:       make(map[string]chan struct{}),
		lockTimeout: DefaultLockTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRepositoryProvider exposes the store through the repository ports.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     s,
		TransactionRepo: s,
		DocumentRepo:    s,
		SequenceRepo:    s,
		CompanyRepo:     s,
		UnitOfWork:      s,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade         = (*Store)(nil)
	_ portsrepo.TransactionReader               = (*Store)(nil)
	_ portsrepo.DocumentRepositoryFacade        = (*Store)(nil)
	_ portsrepo.SequenceRepository              = (*Store)(nil)
	_ portsrepo.CompanySettingsRepositoryFacade = (*Store)(nil)
	_ portsrepo.UnitOfWork                      = (*Store)(nil)
)

func (s *Store) rowLock(key string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	return ch
}

func (s *Store) acquire(ctx context.Context, key string) error {
	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()

	select {
	case s.rowLock(key) <- struct{}{}:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: waited %s for %s", apperrors.ErrConcurrencyTimeout, s.lockTimeout, key)
	case <-ctx.Done():
		return fmt.Errorf("%w: %s: %v", apperrors.ErrConcurrencyTimeout, key, ctx.Err())
	}
}

func (s *Store) release(key string) {
	<-s.rowLock(key)
}

func cloneDocument(d domain.Document) domain.Document {
	switch p := d.Payload.(type) {
	case *domain.InvoicePayload:
		c := *p
		d.Payload = &c
	case *domain.ReceiptPayload:
		c := *p
		d.Payload = &c
	case *domain.PaymentVoucherPayload:
		c := *p
		d.Payload = &c
	case *domain.StatementOfPaymentPayload:
		c := *p
		d.Payload = &c
	}
	return d
}
