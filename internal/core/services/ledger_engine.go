package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/SscSPs/docledger/internal/core/domain"
	portsrepo "github.com/SscSPs/docledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// ledgerEngine posts and reverses the ledger entries of single documents.
// Its methods run inside a unit of work opened by the caller.
type ledgerEngine struct {
	*BaseService
	companies portsrepo.CompanySettingsReader
}

// ledgerEffect returns the signed amount a completed document moves and
// whether the document type moves money at all.
func ledgerEffect(doc domain.Document) (decimal.Decimal, bool, error) {
	var amount decimal.Decimal
	switch doc.Type {
	case domain.Receipt:
		amount = doc.Amount
	case domain.StatementOfPayment:
		ext, ok := doc.Payload.(*domain.StatementOfPaymentPayload)
		if !ok || ext == nil {
			return decimal.Zero, true, apperrors.NewIntegrityError("statement of payment %s has no extension record", doc.DocumentID)
		}
		amount = doc.Amount
		if ext.TotalDeducted != nil {
			amount = *ext.TotalDeducted
		}
	default:
		return decimal.Zero, false, nil
	}
	if !amount.IsPositive() {
		return decimal.Zero, true, fmt.Errorf("%s %s amount %s: %w", doc.Type, doc.DocumentID, amount.String(), apperrors.ErrInvalidAmount)
	}
	if doc.Type == domain.StatementOfPayment {
		return amount.Neg(), true, nil
	}
	return amount, true, nil
}

func (e *ledgerEngine) allowNegativeBalance(ctx context.Context, companyID string) (bool, error) {
	settings, err := e.companies.FindCompanySettings(ctx, companyID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read settings for company %s: %w", companyID, err)
	}
	return settings.AllowNegativeBalance, nil
}

// apply posts the document's effect unless an unreversed application exists.
func (e *ledgerEngine) apply(ctx context.Context, repos portsrepo.TxRepositories, doc domain.Document, actorID string) (domain.LedgerResult, error) {
	signed, affects, err := ledgerEffect(doc)
	if err != nil {
		return domain.LedgerResult{}, err
	}
	if !affects {
		return domain.LedgerResult{Outcome: domain.OutcomeNoEffect}, nil
	}
	if doc.AccountID == nil || *doc.AccountID == "" {
		return domain.LedgerResult{}, fmt.Errorf("%s %s: %w", doc.Type, doc.DocumentID, apperrors.ErrAccountRequired)
	}
	accountID := *doc.AccountID

	allowNegative, err := e.allowNegativeBalance(ctx, doc.CompanyID)
	if err != nil {
		return domain.LedgerResult{}, err
	}

	account, err := repos.Accounts().LockAccount(ctx, accountID)
	if err != nil {
		return domain.LedgerResult{}, fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}
	if account.CompanyID != doc.CompanyID {
		return domain.LedgerResult{}, fmt.Errorf("%w: account %s does not belong to company %s", apperrors.ErrValidation, accountID, doc.CompanyID)
	}

	applied, err := e.activeApplication(ctx, repos, doc.DocumentID)
	if err != nil {
		return domain.LedgerResult{}, err
	}
	if applied != nil {
		e.LogDebug(ctx, "Document already applied to ledger",
			slog.String("document_id", doc.DocumentID),
			slog.String("transaction_id", applied.TransactionID))
		return domain.LedgerResult{Outcome: domain.OutcomeAlreadyApplied}, nil
	}

	if !account.IsActive {
		return domain.LedgerResult{}, fmt.Errorf("account %s: %w", accountID, apperrors.ErrAccountInactive)
	}
	if account.CurrencyCode != doc.CurrencyCode {
		return domain.LedgerResult{}, &apperrors.CurrencyMismatchError{
			AccountID:        accountID,
			AccountCurrency:  account.CurrencyCode,
			DocumentCurrency: doc.CurrencyCode,
		}
	}

	txnType, amount := domain.TransactionFromSigned(signed)
	balanceAfter := account.CurrentBalance.Add(signed)
	if txnType == domain.Decrease && balanceAfter.IsNegative() && !allowNegative {
		return domain.LedgerResult{}, &apperrors.InsufficientBalanceError{
			AccountID: accountID,
			Balance:   account.CurrentBalance,
			Requested: amount,
		}
	}

	applications, err := repos.Transactions().CountApplications(ctx, doc.DocumentID)
	if err != nil {
		return domain.LedgerResult{}, fmt.Errorf("failed to count applications of document %s: %w", doc.DocumentID, err)
	}

	txn := domain.Transaction{
		TransactionID: e.NewID(),
		AccountID:     accountID,
		DocumentID:    doc.DocumentID,
		Type:          txnType,
		Amount:        amount,
		BalanceBefore: account.CurrentBalance,
		BalanceAfter:  balanceAfter,
		Timestamp:     e.now(),
		ApplicationNo: applications + 1,
		CreatedBy:     actorID,
	}
	if err := e.write(ctx, repos, txn); err != nil {
		return domain.LedgerResult{}, err
	}
	return domain.LedgerResult{Outcome: domain.OutcomeApplied, Transaction: &txn}, nil
}

// reverse undoes the document's latest application using its stored amount.
func (e *ledgerEngine) reverse(ctx context.Context, repos portsrepo.TxRepositories, doc domain.Document, actorID string) (domain.LedgerResult, error) {
	if !doc.Type.AffectsLedger() {
		return domain.LedgerResult{Outcome: domain.OutcomeNoEffect}, nil
	}

	original, err := repos.Transactions().FindLatestApplication(ctx, doc.DocumentID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.LedgerResult{}, apperrors.NewIntegrityError("completed %s %s has no ledger entry to reverse", doc.Type, doc.DocumentID)
	}
	if err != nil {
		return domain.LedgerResult{}, fmt.Errorf("failed to find ledger entry of document %s: %w", doc.DocumentID, err)
	}

	account, err := repos.Accounts().LockAccount(ctx, original.AccountID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.LedgerResult{}, apperrors.NewIntegrityError("account %s of transaction %s no longer exists", original.AccountID, original.TransactionID)
	}
	if err != nil {
		return domain.LedgerResult{}, fmt.Errorf("failed to lock account %s: %w", original.AccountID, err)
	}

	_, err = repos.Transactions().FindReversalOf(ctx, original.TransactionID)
	if err == nil {
		e.LogDebug(ctx, "Transaction already reversed",
			slog.String("document_id", doc.DocumentID),
			slog.String("transaction_id", original.TransactionID))
		return domain.LedgerResult{Outcome: domain.OutcomeAlreadyReversed}, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return domain.LedgerResult{}, fmt.Errorf("failed to look up reversal of %s: %w", original.TransactionID, err)
	}

	originalID := original.TransactionID
	txn := domain.Transaction{
		TransactionID: e.NewID(),
		AccountID:     original.AccountID,
		DocumentID:    doc.DocumentID,
		Type:          original.Type.Opposite(),
		Amount:        original.Amount,
		BalanceBefore: account.CurrentBalance,
		Timestamp:     e.now(),
		Metadata: domain.TransactionMetadata{
			IsReversal:            true,
			OriginalTransactionID: &originalID,
		},
		CreatedBy: actorID,
	}
	txn.BalanceAfter = account.CurrentBalance.Add(txn.SignedAmount())
	if err := e.write(ctx, repos, txn); err != nil {
		return domain.LedgerResult{}, err
	}
	return domain.LedgerResult{Outcome: domain.OutcomeReversed, Transaction: &txn}, nil
}

// activeApplication returns the document's latest application if no reversal references it.
func (e *ledgerEngine) activeApplication(ctx context.Context, repos portsrepo.TxRepositories, documentID string) (*domain.Transaction, error) {
	latest, err := repos.Transactions().FindLatestApplication(ctx, documentID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger entry of document %s: %w", documentID, err)
	}
	_, err = repos.Transactions().FindReversalOf(ctx, latest.TransactionID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return latest, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up reversal of %s: %w", latest.TransactionID, err)
	}
	return nil, nil
}

func (e *ledgerEngine) write(ctx context.Context, repos portsrepo.TxRepositories, txn domain.Transaction) error {
	if err := repos.Transactions().InsertTransaction(ctx, txn); err != nil {
		return fmt.Errorf("failed to insert transaction for document %s: %w", txn.DocumentID, err)
	}
	if err := repos.Accounts().UpdateAccountBalance(ctx, txn.AccountID, txn.BalanceAfter, txn.CreatedBy, txn.Timestamp); err != nil {
		return fmt.Errorf("failed to update balance of account %s: %w", txn.AccountID, err)
	}
	return nil
}
