package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/docledger/internal/activity"
	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/SscSPs/docledger/internal/core/domain"
	portsrepo "github.com/SscSPs/docledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/docledger/internal/core/ports/services"
	"github.com/SscSPs/docledger/internal/core/services"
	"github.com/SscSPs/docledger/internal/dto"
	"github.com/SscSPs/docledger/internal/metrics"
	"github.com/SscSPs/docledger/internal/repositories/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	testCompany  = "company-1"
	otherCompany = "company-2"
	testUser     = "user-1"
)

var fixedNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

type DocumentServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	recorder *activity.Recorder
	metrics  *metrics.Ledger

	accounts  portssvc.AccountSvcFacade
	companies portssvc.CompanySvcFacade
	documents portssvc.DocumentSvcFacade
	ledger    portssvc.LedgerSvcFacade
	sequences portssvc.SequenceSvcFacade
}

func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}

func (s *DocumentServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore(memory.WithLockTimeout(200 * time.Millisecond))
	s.recorder = &activity.Recorder{}
	s.metrics = metrics.NewLedger(prometheus.NewRegistry())

	repos := memory.NewRepositoryProvider(s.store)
	opts := []services.BaseOption{
		services.WithClock(func() time.Time { return fixedNow }),
		services.WithActivityEmitter(s.recorder),
		services.WithMetrics(s.metrics),
	}
	s.sequences = services.NewSequenceService(repos.SequenceRepo, time.UTC, opts...)
	s.companies = services.NewCompanyService(repos.CompanyRepo, opts...)
	s.accounts = services.NewAccountService(repos.AccountRepo, repos.TransactionRepo, opts...)
	s.ledger = services.NewLedgerService(repos.UnitOfWork, repos.CompanyRepo, opts...)
	s.documents = services.NewDocumentService(repos.UnitOfWork, repos.DocumentRepo, repos.AccountRepo, repos.CompanyRepo, s.sequences, opts...)
}

// --- helpers ---

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func (s *DocumentServiceTestSuite) newAccount(balance int64, currency string) *domain.Account {
	acc, err := s.accounts.CreateAccount(s.ctx, dto.CreateAccountRequest{
		CompanyID:      testCompany,
		Name:           fmt.Sprintf("Bank %s %d", currency, balance),
		CurrencyCode:   currency,
		InitialBalance: dec(balance),
	}, testUser)
	s.Require().NoError(err)
	return acc
}

func (s *DocumentServiceTestSuite) balance(accountID string) string {
	acc, err := s.accounts.GetAccountByID(s.ctx, accountID)
	s.Require().NoError(err)
	return acc.CurrentBalance.String()
}

func (s *DocumentServiceTestSuite) newDocument(req dto.CreateDocumentRequest) *domain.Document {
	if req.CompanyID == "" {
		req.CompanyID = testCompany
	}
	if req.CurrencyCode == "" {
		req.CurrencyCode = "JPY"
	}
	if req.Status == "" {
		req.Status = domain.StatusIssued
	}
	doc, err := s.documents.CreateDocument(s.ctx, req, testUser)
	s.Require().NoError(err)
	return doc
}

func (s *DocumentServiceTestSuite) newReceipt(accountID string, amount int64, invoiceID *string) *domain.Document {
	return s.newDocument(dto.CreateDocumentRequest{
		Type:             domain.Receipt,
		AccountID:        &accountID,
		Amount:           dec(amount),
		LinkedDocumentID: invoiceID,
	})
}

func (s *DocumentServiceTestSuite) newStatement(accountID string, amount int64, deducted *decimal.Decimal, voucherID *string) *domain.Document {
	return s.newDocument(dto.CreateDocumentRequest{
		Type:             domain.StatementOfPayment,
		AccountID:        &accountID,
		Amount:           dec(amount),
		TotalDeducted:    deducted,
		LinkedDocumentID: voucherID,
	})
}

func (s *DocumentServiceTestSuite) change(doc *domain.Document, from, to domain.DocumentStatus) (*domain.ChangeResult, error) {
	return s.documents.ChangeStatus(s.ctx, domain.StatusChange{
		DocumentID: doc.DocumentID,
		From:       from,
		To:         to,
		ActorID:    testUser,
	})
}

func (s *DocumentServiceTestSuite) complete(doc *domain.Document) *domain.ChangeResult {
	res, err := s.change(doc, domain.StatusIssued, domain.StatusCompleted)
	s.Require().NoError(err)
	return res
}

func (s *DocumentServiceTestSuite) status(id string) domain.DocumentStatus {
	doc, err := s.documents.GetDocument(s.ctx, id)
	s.Require().NoError(err)
	return doc.Status
}

func (s *DocumentServiceTestSuite) transactions(accountID string) []dto.TransactionResponse {
	page, err := s.accounts.ListTransactions(s.ctx, accountID, dto.ListTransactionsParams{Limit: 200})
	s.Require().NoError(err)
	return page.Transactions
}

func (s *DocumentServiceTestSuite) assertConsistent(accountID string) {
	check, err := s.accounts.VerifyBalance(s.ctx, accountID)
	s.Require().NoError(err)
	s.True(check.Consistent(), "drift %s", check.Drift.String())
}

// --- scenarios ---

func (s *DocumentServiceTestSuite) TestScenarioReceiptStatementAndDelete() {
	acc := s.newAccount(5000, "JPY")

	receipt := s.newReceipt(acc.AccountID, 2000, nil)
	res := s.complete(receipt)
	s.Require().Len(res.Ledger, 1)
	s.Equal(domain.OutcomeApplied, res.Ledger[0].Outcome)
	txn := res.Ledger[0].Transaction
	s.Equal(domain.Increase, txn.Type)
	s.Equal("2000", txn.Amount.String())
	s.Equal("5000", txn.BalanceBefore.String())
	s.Equal("7000", txn.BalanceAfter.String())
	s.Equal("7000", s.balance(acc.AccountID))

	sop := s.newStatement(acc.AccountID, 1600, decPtr(1500), nil)
	res = s.complete(sop)
	txn = res.Ledger[0].Transaction
	s.Equal(domain.Decrease, txn.Type)
	s.Equal("1500", txn.Amount.String())
	s.Equal("7000", txn.BalanceBefore.String())
	s.Equal("5500", txn.BalanceAfter.String())
	s.Equal("5500", s.balance(acc.AccountID))

	res, err := s.documents.DeleteDocument(s.ctx, receipt.DocumentID, testUser)
	s.Require().NoError(err)
	s.Require().Len(res.Ledger, 1)
	s.Equal(domain.OutcomeReversed, res.Ledger[0].Outcome)
	rev := res.Ledger[0].Transaction
	s.Equal(domain.Decrease, rev.Type)
	s.Equal("2000", rev.Amount.String())
	s.Equal("5500", rev.BalanceBefore.String())
	s.Equal("3500", rev.BalanceAfter.String())
	s.True(rev.Metadata.IsReversal)
	s.Require().NotNil(rev.Metadata.OriginalTransactionID)
	s.Equal(txnIDOf(s, acc.AccountID, receipt.DocumentID), *rev.Metadata.OriginalTransactionID)
	s.Equal("3500", s.balance(acc.AccountID))

	s.Len(s.recorder.Records(), 3)
	s.assertConsistent(acc.AccountID)
}

// txnIDOf returns the first non-reversal entry posted for the document.
func txnIDOf(s *DocumentServiceTestSuite, accountID, documentID string) string {
	for _, t := range s.transactions(accountID) {
		if t.DocumentID == documentID && !t.IsReversal {
			return t.TransactionID
		}
	}
	s.FailNow("no application found", documentID)
	return ""
}

func (s *DocumentServiceTestSuite) TestScenarioInsufficientBalance() {
	acc := s.newAccount(100, "JPY")
	sop := s.newStatement(acc.AccountID, 500, decPtr(500), nil)

	_, err := s.change(sop, domain.StatusIssued, domain.StatusCompleted)

	var insufficient *apperrors.InsufficientBalanceError
	s.Require().ErrorAs(err, &insufficient)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Equal("100", insufficient.Balance.String())
	s.Equal("500", insufficient.Requested.String())
	s.Equal("100", s.balance(acc.AccountID))
	s.Empty(s.transactions(acc.AccountID))
	s.Equal(domain.StatusIssued, s.status(sop.DocumentID))
	s.Empty(s.recorder.Records())
}

func (s *DocumentServiceTestSuite) TestScenarioInvoicePropagation() {
	acc := s.newAccount(0, "JPY")
	invoice := s.newDocument(dto.CreateDocumentRequest{Type: domain.Invoice, Amount: dec(1000)})

	first := s.newReceipt(acc.AccountID, 400, &invoice.DocumentID)
	res := s.complete(first)
	s.Empty(res.Propagated)
	s.Equal(domain.StatusIssued, s.status(invoice.DocumentID))

	second := s.newReceipt(acc.AccountID, 600, &invoice.DocumentID)
	res = s.complete(second)
	s.Require().Len(res.Propagated, 1)
	s.Equal(domain.PropagatedStatus{
		DocumentID: invoice.DocumentID,
		Type:       domain.Invoice,
		From:       domain.StatusIssued,
		To:         domain.StatusPaid,
	}, res.Propagated[0])
	s.Equal(domain.StatusPaid, s.status(invoice.DocumentID))

	res, err := s.documents.DeleteDocument(s.ctx, second.DocumentID, testUser)
	s.Require().NoError(err)
	s.Require().Len(res.Propagated, 1)
	s.Equal(domain.StatusIssued, res.Propagated[0].To)
	s.Equal(domain.StatusIssued, s.status(invoice.DocumentID))
	s.Equal("400", s.balance(acc.AccountID))
}

// --- ledger rules ---

func (s *DocumentServiceTestSuite) TestNegativeBalanceAllowedByCompanySetting() {
	allow := true
	_, err := s.companies.UpdateSettings(s.ctx, testCompany, dto.UpdateCompanySettingsRequest{AllowNegativeBalance: &allow})
	s.Require().NoError(err)

	acc := s.newAccount(100, "JPY")
	sop := s.newStatement(acc.AccountID, 500, nil, nil)
	s.complete(sop)

	s.Equal("-400", s.balance(acc.AccountID))
	s.assertConsistent(acc.AccountID)
}

func (s *DocumentServiceTestSuite) TestCurrencyMismatchRejected() {
	acc := s.newAccount(100, "JPY")
	receipt := s.newDocument(dto.CreateDocumentRequest{
		Type:         domain.Receipt,
		AccountID:    &acc.AccountID,
		CurrencyCode: "USD",
		Amount:       dec(10),
	})

	_, err := s.change(receipt, domain.StatusIssued, domain.StatusCompleted)

	var mismatch *apperrors.CurrencyMismatchError
	s.Require().ErrorAs(err, &mismatch)
	s.Equal("JPY", mismatch.AccountCurrency)
	s.Equal("USD", mismatch.DocumentCurrency)
	s.Equal("100", s.balance(acc.AccountID))
	s.Equal(domain.StatusIssued, s.status(receipt.DocumentID))
}

func (s *DocumentServiceTestSuite) TestMissingStatementExtensionIsIntegrityError() {
	acc := s.newAccount(1000, "JPY")
	accountID := acc.AccountID
	s.Require().NoError(s.store.SaveDocument(s.ctx, domain.Document{
		DocumentID:   "sop-no-ext",
		CompanyID:    testCompany,
		AccountID:    &accountID,
		Type:         domain.StatementOfPayment,
		Number:       "SOP-20250314-999",
		Status:       domain.StatusIssued,
		CurrencyCode: "JPY",
		Amount:       dec(300),
	}))

	_, err := s.documents.ChangeStatus(s.ctx, domain.StatusChange{
		DocumentID: "sop-no-ext",
		From:       domain.StatusIssued,
		To:         domain.StatusCompleted,
		ActorID:    testUser,
	})

	s.ErrorIs(err, apperrors.ErrIntegrity)
	s.Equal("1000", s.balance(acc.AccountID))
	s.Equal(domain.StatusIssued, s.status("sop-no-ext"))
}

func (s *DocumentServiceTestSuite) TestStatementWithoutDeductionUsesAmount() {
	acc := s.newAccount(1000, "JPY")
	sop := s.newStatement(acc.AccountID, 250, nil, nil)
	s.complete(sop)
	s.Equal("750", s.balance(acc.AccountID))
}

func (s *DocumentServiceTestSuite) TestReceiptWithoutAccountRejected() {
	receipt := s.newDocument(dto.CreateDocumentRequest{Type: domain.Receipt, Amount: dec(10)})
	_, err := s.change(receipt, domain.StatusIssued, domain.StatusCompleted)
	s.ErrorIs(err, apperrors.ErrAccountRequired)
	s.Equal(domain.StatusIssued, s.status(receipt.DocumentID))
}

func (s *DocumentServiceTestSuite) TestUserCannotMarkInvoicePaid() {
	invoice := s.newDocument(dto.CreateDocumentRequest{Type: domain.Invoice, Amount: dec(10)})
	_, err := s.change(invoice, domain.StatusIssued, domain.StatusPaid)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

// --- lifecycle ---

func (s *DocumentServiceTestSuite) TestStaleFromStatusIsConflict() {
	acc := s.newAccount(0, "JPY")
	receipt := s.newReceipt(acc.AccountID, 10, nil)

	_, err := s.change(receipt, domain.StatusDraft, domain.StatusIssued)

	s.ErrorIs(err, apperrors.ErrStaleStatus)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *DocumentServiceTestSuite) TestSameStatusIsNoop() {
	acc := s.newAccount(0, "JPY")
	receipt := s.newReceipt(acc.AccountID, 10, nil)
	s.complete(receipt)

	res, err := s.change(receipt, domain.StatusCompleted, domain.StatusCompleted)
	s.Require().NoError(err)
	s.Empty(res.Ledger)
	s.Len(s.transactions(acc.AccountID), 1)
}

func (s *DocumentServiceTestSuite) TestCancelReversesAndRecompletionReapplies() {
	acc := s.newAccount(1000, "JPY")
	receipt := s.newReceipt(acc.AccountID, 300, nil)
	s.complete(receipt)

	res, err := s.change(receipt, domain.StatusCompleted, domain.StatusCancelled)
	s.Require().NoError(err)
	s.Equal(domain.OutcomeReversed, res.Ledger[0].Outcome)
	s.Equal(domain.Decrease, res.Ledger[0].Transaction.Type)
	s.Equal("1000", s.balance(acc.AccountID))

	_, err = s.change(receipt, domain.StatusCancelled, domain.StatusDraft)
	s.Require().NoError(err)
	_, err = s.change(receipt, domain.StatusDraft, domain.StatusIssued)
	s.Require().NoError(err)
	res = s.complete(receipt)
	s.Equal(domain.OutcomeApplied, res.Ledger[0].Outcome)
	s.Equal(2, res.Ledger[0].Transaction.ApplicationNo)
	s.Equal("1300", s.balance(acc.AccountID))

	s.Len(s.transactions(acc.AccountID), 3)
	s.assertConsistent(acc.AccountID)
}

func (s *DocumentServiceTestSuite) TestDeleteIsIdempotent() {
	acc := s.newAccount(0, "JPY")
	receipt := s.newReceipt(acc.AccountID, 10, nil)
	s.complete(receipt)

	_, err := s.documents.DeleteDocument(s.ctx, receipt.DocumentID, testUser)
	s.Require().NoError(err)
	res, err := s.documents.DeleteDocument(s.ctx, receipt.DocumentID, testUser)
	s.Require().NoError(err)
	s.Empty(res.Ledger)
	s.Equal("0", s.balance(acc.AccountID))
	s.Len(s.transactions(acc.AccountID), 2)

	_, err = s.change(receipt, domain.StatusCompleted, domain.StatusCancelled)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *DocumentServiceTestSuite) TestVoucherPropagation() {
	acc := s.newAccount(1000, "JPY")
	voucher := s.newDocument(dto.CreateDocumentRequest{Type: domain.PaymentVoucher, Amount: dec(400), Payee: "ACME"})

	sop := s.newStatement(acc.AccountID, 400, nil, &voucher.DocumentID)
	res := s.complete(sop)
	s.Require().Len(res.Propagated, 1)
	s.Equal(domain.StatusCompleted, s.status(voucher.DocumentID))

	res, err := s.change(sop, domain.StatusCompleted, domain.StatusCancelled)
	s.Require().NoError(err)
	s.Require().Len(res.Propagated, 1)
	s.Equal(domain.StatusIssued, s.status(voucher.DocumentID))
	s.Equal("1000", s.balance(acc.AccountID))
}

// --- edits ---

func (s *DocumentServiceTestSuite) TestEditCompletedAmountPostsDelta() {
	acc := s.newAccount(1000, "JPY")
	receipt := s.newReceipt(acc.AccountID, 2000, nil)
	s.complete(receipt)

	res, err := s.documents.EditDocument(s.ctx, receipt.DocumentID, dto.EditDocumentRequest{Amount: decPtr(2500)}, testUser)
	s.Require().NoError(err)

	s.Require().Len(res.Ledger, 2)
	s.Equal(domain.OutcomeReversed, res.Ledger[0].Outcome)
	s.Equal(domain.OutcomeApplied, res.Ledger[1].Outcome)
	s.Equal("2500", res.Ledger[1].Transaction.Amount.String())
	s.Equal("3500", s.balance(acc.AccountID))
	s.assertConsistent(acc.AccountID)
}

func (s *DocumentServiceTestSuite) TestEditCompletedAccountMovesBalance() {
	from := s.newAccount(0, "JPY")
	to := s.newAccount(0, "JPY")
	receipt := s.newReceipt(from.AccountID, 700, nil)
	s.complete(receipt)

	_, err := s.documents.EditDocument(s.ctx, receipt.DocumentID, dto.EditDocumentRequest{AccountID: &to.AccountID}, testUser)
	s.Require().NoError(err)

	s.Equal("0", s.balance(from.AccountID))
	s.Equal("700", s.balance(to.AccountID))
	s.assertConsistent(from.AccountID)
	s.assertConsistent(to.AccountID)
}

func (s *DocumentServiceTestSuite) TestEditWithoutLedgerChangeWritesNothing() {
	acc := s.newAccount(0, "JPY")
	receipt := s.newReceipt(acc.AccountID, 700, nil)
	s.complete(receipt)

	res, err := s.documents.EditDocument(s.ctx, receipt.DocumentID, dto.EditDocumentRequest{Amount: decPtr(700)}, testUser)
	s.Require().NoError(err)
	s.Empty(res.Ledger)
	s.Len(s.transactions(acc.AccountID), 1)
}

func (s *DocumentServiceTestSuite) TestEditRejectsNonPositiveAmount() {
	acc := s.newAccount(0, "JPY")
	receipt := s.newReceipt(acc.AccountID, 700, nil)
	_, err := s.documents.EditDocument(s.ctx, receipt.DocumentID, dto.EditDocumentRequest{Amount: decPtr(0)}, testUser)
	s.ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (s *DocumentServiceTestSuite) foreignAccount(balance int64) *domain.Account {
	acc, err := s.accounts.CreateAccount(s.ctx, dto.CreateAccountRequest{
		CompanyID:      otherCompany,
		Name:           "Foreign bank",
		CurrencyCode:   "JPY",
		InitialBalance: dec(balance),
	}, testUser)
	s.Require().NoError(err)
	return acc
}

func (s *DocumentServiceTestSuite) TestEditRejectsAccountOfAnotherCompany() {
	own := s.newAccount(0, "JPY")
	foreign := s.foreignAccount(0)
	receipt := s.newReceipt(own.AccountID, 700, nil)
	s.complete(receipt)

	_, err := s.documents.EditDocument(s.ctx, receipt.DocumentID, dto.EditDocumentRequest{AccountID: &foreign.AccountID}, testUser)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.Equal("700", s.balance(own.AccountID))
	s.Equal("0", s.balance(foreign.AccountID))
	doc, err := s.documents.GetDocument(s.ctx, receipt.DocumentID)
	s.Require().NoError(err)
	s.Equal(own.AccountID, *doc.AccountID)
}

func (s *DocumentServiceTestSuite) TestEditRejectsInvoiceOfAnotherCompany() {
	acc := s.newAccount(0, "JPY")
	foreignInvoice := s.newDocument(dto.CreateDocumentRequest{CompanyID: otherCompany, Type: domain.Invoice, Amount: dec(500)})
	receipt := s.newReceipt(acc.AccountID, 700, nil)
	s.complete(receipt)

	_, err := s.documents.EditDocument(s.ctx, receipt.DocumentID, dto.EditDocumentRequest{LinkedDocumentID: &foreignInvoice.DocumentID}, testUser)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.Equal(domain.StatusIssued, s.status(foreignInvoice.DocumentID))
	s.Equal("700", s.balance(acc.AccountID))
}

func (s *DocumentServiceTestSuite) TestEditRejectsDeletedOrWrongTypeLink() {
	acc := s.newAccount(0, "JPY")
	deleted := s.newDocument(dto.CreateDocumentRequest{Type: domain.Invoice, Amount: dec(500)})
	_, err := s.documents.DeleteDocument(s.ctx, deleted.DocumentID, testUser)
	s.Require().NoError(err)
	voucher := s.newDocument(dto.CreateDocumentRequest{Type: domain.PaymentVoucher, Amount: dec(500)})
	receipt := s.newReceipt(acc.AccountID, 500, nil)

	for _, target := range []string{deleted.DocumentID, voucher.DocumentID} {
		_, err := s.documents.EditDocument(s.ctx, receipt.DocumentID, dto.EditDocumentRequest{LinkedDocumentID: &target}, testUser)
		s.ErrorIs(err, apperrors.ErrValidation, target)
	}
}

func (s *DocumentServiceTestSuite) TestApplyRejectsAccountOfAnotherCompany() {
	foreign := s.foreignAccount(0)
	accountID := foreign.AccountID
	s.Require().NoError(s.store.SaveDocument(s.ctx, domain.Document{
		DocumentID:   "rcp-cross-company",
		CompanyID:    testCompany,
		AccountID:    &accountID,
		Type:         domain.Receipt,
		Number:       "RCP-20250314-998",
		Status:       domain.StatusCompleted,
		CurrencyCode: "JPY",
		Amount:       dec(300),
		Payload:      &domain.ReceiptPayload{},
	}))

	_, err := s.ledger.ApplyOnCompletion(s.ctx, "rcp-cross-company", testUser)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.ErrorContains(err, "does not belong to company")
	s.Equal("0", s.balance(foreign.AccountID))
	s.Empty(s.transactions(foreign.AccountID))
}

func (s *DocumentServiceTestSuite) TestEditInvoiceTotalRederivesStatus() {
	acc := s.newAccount(0, "JPY")
	invoice := s.newDocument(dto.CreateDocumentRequest{Type: domain.Invoice, Amount: dec(1000)})
	s.complete(s.newReceipt(acc.AccountID, 1000, &invoice.DocumentID))
	s.Require().Equal(domain.StatusPaid, s.status(invoice.DocumentID))

	res, err := s.documents.EditDocument(s.ctx, invoice.DocumentID, dto.EditDocumentRequest{Amount: decPtr(2000)}, testUser)
	s.Require().NoError(err)
	s.Empty(res.Ledger)
	s.Require().Len(res.Propagated, 1)
	s.Equal(domain.StatusIssued, res.Propagated[0].To)
	s.Equal(domain.StatusIssued, res.Document.Status)
	s.Equal(domain.StatusIssued, s.status(invoice.DocumentID))

	_, err = s.documents.EditDocument(s.ctx, invoice.DocumentID, dto.EditDocumentRequest{Amount: decPtr(1000)}, testUser)
	s.Require().NoError(err)
	s.Equal(domain.StatusPaid, s.status(invoice.DocumentID))
	s.Equal("1000", s.balance(acc.AccountID))
}

func (s *DocumentServiceTestSuite) TestEditMovesReceiptBetweenInvoices() {
	acc := s.newAccount(0, "JPY")
	first := s.newDocument(dto.CreateDocumentRequest{Type: domain.Invoice, Amount: dec(500)})
	second := s.newDocument(dto.CreateDocumentRequest{Type: domain.Invoice, Amount: dec(500)})
	receipt := s.newReceipt(acc.AccountID, 500, &first.DocumentID)
	s.complete(receipt)
	s.Require().Equal(domain.StatusPaid, s.status(first.DocumentID))

	res, err := s.documents.EditDocument(s.ctx, receipt.DocumentID, dto.EditDocumentRequest{LinkedDocumentID: &second.DocumentID}, testUser)
	s.Require().NoError(err)

	s.Empty(res.Ledger)
	s.Len(res.Propagated, 2)
	s.Equal(domain.StatusIssued, s.status(first.DocumentID))
	s.Equal(domain.StatusPaid, s.status(second.DocumentID))
	s.Equal("500", s.balance(acc.AccountID))
	s.Len(s.transactions(acc.AccountID), 1)
	s.assertConsistent(acc.AccountID)
}

func (s *DocumentServiceTestSuite) TestConcurrentAccountSwapEditsComplete() {
	a := s.newAccount(0, "JPY")
	b := s.newAccount(0, "JPY")
	onA := s.newReceipt(a.AccountID, 700, nil)
	onB := s.newReceipt(b.AccountID, 300, nil)
	s.complete(onA)
	s.complete(onB)

	for round := 0; round < 10; round++ {
		targetA, targetB := b.AccountID, a.AccountID
		if round%2 == 1 {
			targetA, targetB = a.AccountID, b.AccountID
		}
		var wg sync.WaitGroup
		errs := make([]error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, errs[0] = s.documents.EditDocument(s.ctx, onA.DocumentID, dto.EditDocumentRequest{AccountID: &targetA}, testUser)
		}()
		go func() {
			defer wg.Done()
			_, errs[1] = s.documents.EditDocument(s.ctx, onB.DocumentID, dto.EditDocumentRequest{AccountID: &targetB}, testUser)
		}()
		wg.Wait()
		s.Require().NoError(errs[0], "round %d", round)
		s.Require().NoError(errs[1], "round %d", round)
	}

	s.Equal("700", s.balance(a.AccountID))
	s.Equal("300", s.balance(b.AccountID))
	s.assertConsistent(a.AccountID)
	s.assertConsistent(b.AccountID)
}

// --- creation ---

func (s *DocumentServiceTestSuite) TestCreateAssignsSequentialNumbers() {
	acc := s.newAccount(0, "JPY")
	first := s.newReceipt(acc.AccountID, 1, nil)
	second := s.newReceipt(acc.AccountID, 1, nil)
	invoice := s.newDocument(dto.CreateDocumentRequest{Type: domain.Invoice, Amount: dec(1)})

	s.Equal("RCP-20250314-001", first.Number)
	s.Equal("RCP-20250314-002", second.Number)
	s.Equal("INV-20250314-001", invoice.Number)
}

func (s *DocumentServiceTestSuite) TestCreateRejectsLinkToWrongType() {
	acc := s.newAccount(0, "JPY")
	voucher := s.newDocument(dto.CreateDocumentRequest{Type: domain.PaymentVoucher, Amount: dec(1)})

	_, err := s.documents.CreateDocument(s.ctx, dto.CreateDocumentRequest{
		CompanyID:        testCompany,
		Type:             domain.Receipt,
		AccountID:        &acc.AccountID,
		CurrencyCode:     "JPY",
		Amount:           dec(1),
		LinkedDocumentID: &voucher.DocumentID,
	}, testUser)
	s.ErrorIs(err, apperrors.ErrValidation)
}

// --- concurrency ---

func (s *DocumentServiceTestSuite) TestConcurrentCompletionAppliesOnce() {
	acc := s.newAccount(0, "JPY")
	receipt := s.newReceipt(acc.AccountID, 100, nil)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.change(receipt, domain.StatusIssued, domain.StatusCompleted)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, apperrors.ErrStaleStatus)
	}
	s.Equal(1, succeeded)
	s.Equal("100", s.balance(acc.AccountID))
	s.Len(s.transactions(acc.AccountID), 1)
}

func (s *DocumentServiceTestSuite) TestConcurrentApplyIsIdempotent() {
	acc := s.newAccount(0, "JPY")
	accountID := acc.AccountID
	s.Require().NoError(s.store.SaveDocument(s.ctx, domain.Document{
		DocumentID:   "rcp-completed",
		CompanyID:    testCompany,
		AccountID:    &accountID,
		Type:         domain.Receipt,
		Number:       "RCP-20250314-900",
		Status:       domain.StatusCompleted,
		CurrencyCode: "JPY",
		Amount:       dec(50),
		Payload:      &domain.ReceiptPayload{},
	}))

	const workers = 10
	var wg sync.WaitGroup
	outcomes := make([]domain.LedgerOutcome, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := s.ledger.ApplyOnCompletion(s.ctx, "rcp-completed", testUser)
			errs[i] = err
			if err == nil {
				outcomes[i] = res.Outcome
			}
		}(i)
	}
	wg.Wait()

	applied := 0
	for i := range outcomes {
		s.Require().NoError(errs[i])
		if outcomes[i] == domain.OutcomeApplied {
			applied++
		} else {
			s.Equal(domain.OutcomeAlreadyApplied, outcomes[i])
		}
	}
	s.Equal(1, applied)
	s.Equal("50", s.balance(acc.AccountID))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Outcomes().WithLabelValues(string(domain.OutcomeApplied))))
}

func (s *DocumentServiceTestSuite) TestReverseTwiceReportsAlreadyReversed() {
	acc := s.newAccount(0, "JPY")
	receipt := s.newReceipt(acc.AccountID, 30, nil)
	s.complete(receipt)
	_, err := s.change(receipt, domain.StatusCompleted, domain.StatusCancelled)
	s.Require().NoError(err)

	res, err := s.ledger.ReverseOnUncompletion(s.ctx, receipt.DocumentID, testUser)
	s.Require().NoError(err)
	s.Equal(domain.OutcomeAlreadyReversed, res.Outcome)
	s.Equal("0", s.balance(acc.AccountID))
}

func (s *DocumentServiceTestSuite) TestConcurrentReceiptsSettleInvoice() {
	acc := s.newAccount(0, "JPY")
	invoice := s.newDocument(dto.CreateDocumentRequest{Type: domain.Invoice, Amount: dec(1000)})
	receipts := []*domain.Document{
		s.newReceipt(acc.AccountID, 500, &invoice.DocumentID),
		s.newReceipt(acc.AccountID, 500, &invoice.DocumentID),
	}

	var wg sync.WaitGroup
	errs := make([]error, len(receipts))
	for i, r := range receipts {
		wg.Add(1)
		go func(i int, r *domain.Document) {
			defer wg.Done()
			_, errs[i] = s.change(r, domain.StatusIssued, domain.StatusCompleted)
		}(i, r)
	}
	wg.Wait()

	for _, err := range errs {
		s.Require().NoError(err)
	}
	s.Equal(domain.StatusPaid, s.status(invoice.DocumentID))
	s.Equal("1000", s.balance(acc.AccountID))
	s.assertConsistent(acc.AccountID)
}

func (s *DocumentServiceTestSuite) TestLockTimeoutRollsBack() {
	acc := s.newAccount(0, "JPY")
	receipt := s.newReceipt(acc.AccountID, 10, nil)

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.store.RunInTx(s.ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
			if _, err := repos.Accounts().LockAccount(ctx, acc.AccountID); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	_, err := s.change(receipt, domain.StatusIssued, domain.StatusCompleted)
	close(release)
	s.Require().NoError(<-done)

	s.ErrorIs(err, apperrors.ErrConcurrencyTimeout)
	s.True(apperrors.IsRetryable(err))
	s.Equal(domain.StatusIssued, s.status(receipt.DocumentID))
	s.Equal("0", s.balance(acc.AccountID))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.LockTimeouts()))

	// the retry succeeds once the lock is free
	s.complete(receipt)
	s.Equal("10", s.balance(acc.AccountID))
}

func (s *DocumentServiceTestSuite) TestConcurrentNumbersAreUnique() {
	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := s.sequences.NextDocumentNumber(s.ctx, testCompany, domain.Invoice)
			if err != nil {
				return
			}
			mu.Lock()
			seen[number] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.Len(seen, workers)
	current, err := s.sequences.CurrentSequence(s.ctx, testCompany, domain.Invoice, "20250314")
	s.Require().NoError(err)
	s.Equal(int64(workers), current)
}

func (s *DocumentServiceTestSuite) TestGetMissingDocument() {
	_, err := s.documents.GetDocument(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}
