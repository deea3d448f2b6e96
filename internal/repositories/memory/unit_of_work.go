package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/SscSPs/docledger/internal/core/domain"
	portsrepo "github.com/SscSPs/docledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type balanceWrite struct {
	balance   decimal.Decimal
	updatedBy string
	updatedAt time.Time
}

// unitOfWork stages writes and applies them in one step on commit. Reads see
// committed state overlaid with the unit's own writes.
type unitOfWork struct {
	store    *Store
	held     []string
	heldSet  map[string]struct{}
	balances map[string]balanceWrite
	docs     map[string]domain.Document
	txns     []domain.Transaction
}

var (
	_ portsrepo.TxRepositories          = (*unitOfWork)(nil)
	_ portsrepo.AccountTxRepository     = (*unitOfWork)(nil)
	_ portsrepo.TransactionTxRepository = (*unitOfWork)(nil)
	_ portsrepo.DocumentTxRepository    = (*unitOfWork)(nil)
)

// RunInTx implements portsrepo.UnitOfWork.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	u := &unitOfWork{
		store:    s,
		heldSet:  make(map[string]struct{}),
		balances: make(map[string]balanceWrite),
		docs:     make(map[string]domain.Document),
	}
	defer u.releaseAll()

	if err := fn(ctx, u); err != nil {
		return err
	}
	u.commit()
	return nil
}

func (u *unitOfWork) Accounts() portsrepo.AccountTxRepository         { return u }
func (u *unitOfWork) Transactions() portsrepo.TransactionTxRepository { return u }
func (u *unitOfWork) Documents() portsrepo.DocumentTxRepository       { return u }

func (u *unitOfWork) lock(ctx context.Context, key string) error {
	if _, ok := u.heldSet[key]; ok {
		return nil
	}
	if err := u.store.acquire(ctx, key); err != nil {
		return err
	}
	u.heldSet[key] = struct{}{}
	u.held = append(u.held, key)
	return nil
}

func (u *unitOfWork) releaseAll() {
	for i := len(u.held) - 1; i >= 0; i-- {
		u.store.release(u.held[i])
	}
	u.held = nil
}

func (u *unitOfWork) commit() {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, w := range u.balances {
		acc := s.accounts[id]
		acc.CurrentBalance = w.balance
		acc.LastUpdatedAt = w.updatedAt
		acc.LastUpdatedBy = w.updatedBy
		s.accounts[id] = acc
	}
	for id, doc := range u.docs {
		s.documents[id] = doc
	}
	s.transactions = append(s.transactions, u.txns...)
}

// --- accounts ---

func (u *unitOfWork) LockAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	if err := u.lock(ctx, "account:"+accountID); err != nil {
		return nil, err
	}
	u.store.mu.RLock()
	acc, ok := u.store.accounts[accountID]
	u.store.mu.RUnlock()
	if !ok || acc.IsDeleted() {
		return nil, apperrors.ErrNotFound
	}
	if w, staged := u.balances[accountID]; staged {
		acc.CurrentBalance = w.balance
	}
	return &acc, nil
}

func (u *unitOfWork) UpdateAccountBalance(_ context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	if _, ok := u.heldSet["account:"+accountID]; !ok {
		return fmt.Errorf("account %s updated without holding its lock", accountID)
	}
	u.balances[accountID] = balanceWrite{balance: balance, updatedBy: userID, updatedAt: now}
	return nil
}

// --- transactions ---

func (u *unitOfWork) visibleTransactions() []domain.Transaction {
	u.store.mu.RLock()
	all := make([]domain.Transaction, 0, len(u.store.transactions)+len(u.txns))
	all = append(all, u.store.transactions...)
	u.store.mu.RUnlock()
	return append(all, u.txns...)
}

func (u *unitOfWork) FindLatestApplication(_ context.Context, documentID string) (*domain.Transaction, error) {
	var latest *domain.Transaction
	for _, txn := range u.visibleTransactions() {
		if txn.DocumentID != documentID || txn.IsReversal() {
			continue
		}
		if latest == nil || txn.ApplicationNo > latest.ApplicationNo {
			t := txn
			latest = &t
		}
	}
	if latest == nil {
		return nil, apperrors.ErrNotFound
	}
	return latest, nil
}

func (u *unitOfWork) FindReversalOf(_ context.Context, transactionID string) (*domain.Transaction, error) {
	for _, txn := range u.visibleTransactions() {
		if txn.IsReversal() && txn.Metadata.OriginalTransactionID != nil && *txn.Metadata.OriginalTransactionID == transactionID {
			t := txn
			return &t, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (u *unitOfWork) CountApplications(_ context.Context, documentID string) (int, error) {
	n := 0
	for _, txn := range u.visibleTransactions() {
		if txn.DocumentID == documentID && !txn.IsReversal() {
			n++
		}
	}
	return n, nil
}

func (u *unitOfWork) InsertTransaction(_ context.Context, txn domain.Transaction) error {
	if _, ok := u.heldSet["account:"+txn.AccountID]; !ok {
		return fmt.Errorf("transaction for account %s inserted without holding its lock", txn.AccountID)
	}
	for _, existing := range u.visibleTransactions() {
		if existing.TransactionID == txn.TransactionID {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
		}
		if !txn.IsReversal() && !existing.IsReversal() &&
			existing.DocumentID == txn.DocumentID && existing.ApplicationNo == txn.ApplicationNo {
			return fmt.Errorf("%w: application %d of document %s", apperrors.ErrDuplicate, txn.ApplicationNo, txn.DocumentID)
		}
		if txn.IsReversal() && existing.IsReversal() && originalID(existing) == originalID(txn) {
			return fmt.Errorf("%w: reversal of %s", apperrors.ErrDuplicate, originalID(txn))
		}
	}
	u.txns = append(u.txns, txn)
	return nil
}

func originalID(t domain.Transaction) string {
	if t.Metadata.OriginalTransactionID == nil {
		return ""
	}
	return *t.Metadata.OriginalTransactionID
}

// --- documents ---

func (u *unitOfWork) document(documentID string) (domain.Document, bool) {
	if doc, ok := u.docs[documentID]; ok {
		return doc, true
	}
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()
	doc, ok := u.store.documents[documentID]
	if !ok {
		return domain.Document{}, false
	}
	return cloneDocument(doc), true
}

func (u *unitOfWork) visibleDocuments() []domain.Document {
	u.store.mu.RLock()
	out := make([]domain.Document, 0, len(u.store.documents))
	for id, doc := range u.store.documents {
		if staged, ok := u.docs[id]; ok {
			doc = staged
		}
		out = append(out, doc)
	}
	u.store.mu.RUnlock()
	return out
}

func (u *unitOfWork) LockDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	if err := u.lock(ctx, "document:"+documentID); err != nil {
		return nil, err
	}
	doc, ok := u.document(documentID)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	doc = cloneDocument(doc)
	return &doc, nil
}

func (u *unitOfWork) stage(documentID string, mutate func(*domain.Document)) error {
	doc, ok := u.document(documentID)
	if !ok {
		return apperrors.ErrNotFound
	}
	mutate(&doc)
	u.docs[documentID] = doc
	return nil
}

func (u *unitOfWork) UpdateDocumentStatus(_ context.Context, documentID string, status domain.DocumentStatus, userID string, now time.Time) error {
	return u.stage(documentID, func(d *domain.Document) {
		d.Status = status
		d.LastUpdatedAt = now
		d.LastUpdatedBy = userID
	})
}

func (u *unitOfWork) UpdateDocument(_ context.Context, doc domain.Document) error {
	return u.stage(doc.DocumentID, func(d *domain.Document) {
		d.AccountID = doc.AccountID
		d.CurrencyCode = doc.CurrencyCode
		d.Amount = doc.Amount
		d.Payload = cloneDocument(doc).Payload
		d.LastUpdatedAt = doc.LastUpdatedAt
		d.LastUpdatedBy = doc.LastUpdatedBy
	})
}

func (u *unitOfWork) SoftDeleteDocument(_ context.Context, documentID string, userID string, now time.Time) error {
	return u.stage(documentID, func(d *domain.Document) {
		deletedAt := now
		d.DeletedAt = &deletedAt
		d.LastUpdatedAt = now
		d.LastUpdatedBy = userID
	})
}

func (u *unitOfWork) SumSettledReceipts(_ context.Context, invoiceID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, doc := range u.visibleDocuments() {
		if doc.Type != domain.Receipt || doc.IsDeleted() {
			continue
		}
		if doc.Status != domain.StatusCompleted && doc.Status != domain.StatusPaid {
			continue
		}
		if linked := doc.LinkedDocumentID(); linked != nil && *linked == invoiceID {
			total = total.Add(doc.Amount)
		}
	}
	return total, nil
}

func (u *unitOfWork) CountCompletedStatements(_ context.Context, voucherID string) (int, error) {
	n := 0
	for _, doc := range u.visibleDocuments() {
		if doc.Type != domain.StatementOfPayment || doc.IsDeleted() || doc.Status != domain.StatusCompleted {
			continue
		}
		if linked := doc.LinkedDocumentID(); linked != nil && *linked == voucherID {
			n++
		}
	}
	return n, nil
}
