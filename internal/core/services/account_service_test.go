package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/SscSPs/docledger/internal/core/domain"
	portssvc "github.com/SscSPs/docledger/internal/core/ports/services"
	"github.com/SscSPs/docledger/internal/core/services"
	"github.com/SscSPs/docledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountIDs(ctx context.Context, companyID string) ([]string, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockTransactionReader is a mock type for the TransactionReader interface
type MockTransactionReader struct {
	mock.Mock
}

func (m *MockTransactionReader) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return txns, next, args.Error(2)
}

func (m *MockTransactionReader) SumSignedTransactions(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	mockTxns *MockTransactionReader
	now      time.Time
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.mockTxns = new(MockTransactionReader)
	suite.now = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
}

func (suite *AccountServiceTestSuite) service() portssvc.AccountSvcFacade {
	return services.NewAccountService(suite.mockRepo, suite.mockTxns,
		services.WithClock(func() time.Time { return suite.now }),
		services.WithIDGenerator(func() string { return "acc-1" }),
	)
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		CompanyID:      "c1",
		Name:           "Main bank",
		CurrencyCode:   "JPY",
		InitialBalance: decimal.NewFromInt(5000),
	}
	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.AccountID == "acc-1" &&
			acc.CurrentBalance.Equal(acc.InitialBalance) &&
			acc.IsActive &&
			acc.CreatedBy == "user-1" &&
			acc.CreatedAt.Equal(suite.now)
	})).Return(nil).Once()

	acc, err := suite.service().CreateAccount(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal("5000", acc.CurrentBalance.String())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_RepoError() {
	ctx := context.Background()
	repoErr := errors.New("db down")
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(repoErr).Once()

	acc, err := suite.service().CreateAccount(ctx, dto.CreateAccountRequest{CompanyID: "c1", Name: "x", CurrencyCode: "JPY"}, "user-1")

	suite.Nil(acc)
	suite.ErrorIs(err, repoErr)
}

func (suite *AccountServiceTestSuite) TestVerifyBalance_ReportsDrift() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(&domain.Account{
		AccountID:      "acc-1",
		InitialBalance: decimal.NewFromInt(100),
		CurrentBalance: decimal.NewFromInt(180),
	}, nil).Once()
	suite.mockTxns.On("SumSignedTransactions", ctx, "acc-1").Return(decimal.NewFromInt(50), nil).Once()

	check, err := suite.service().VerifyBalance(ctx, "acc-1")

	suite.Require().NoError(err)
	suite.False(check.Consistent())
	suite.Equal("150", check.ExpectedBalance.String())
	suite.Equal("30", check.Drift.String())
}

func (suite *AccountServiceTestSuite) TestVerifyAllBalances_SkipsVanishedAccounts() {
	ctx := context.Background()
	suite.mockRepo.On("ListAccountIDs", ctx, "c1").Return([]string{"a", "b"}, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, "a").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountByID", ctx, "b").Return(&domain.Account{
		AccountID:      "b",
		InitialBalance: decimal.NewFromInt(10),
		CurrentBalance: decimal.NewFromInt(10),
	}, nil).Once()
	suite.mockTxns.On("SumSignedTransactions", ctx, "b").Return(decimal.Zero, nil).Once()

	checks, err := suite.service().VerifyAllBalances(ctx, "c1")

	suite.Require().NoError(err)
	suite.Require().Len(checks, 1)
	suite.True(checks[0].Consistent())
}

func (suite *AccountServiceTestSuite) TestListAccounts_NilBecomesEmpty() {
	ctx := context.Background()
	suite.mockRepo.On("ListAccounts", ctx, "c1", 20, 0).Return(nil, nil).Once()

	accounts, err := suite.service().ListAccounts(ctx, "c1", 20, 0)

	suite.Require().NoError(err)
	suite.NotNil(accounts)
	suite.Empty(accounts)
}

func (suite *AccountServiceTestSuite) TestListTransactions_UnknownAccount() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "nope").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service().ListTransactions(ctx, "nope", dto.ListTransactionsParams{})

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxns.AssertNotCalled(suite.T(), "ListTransactionsByAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCompanyService_DefaultsWhenMissing(t *testing.T) {
	repo := new(MockCompanyRepository)
	ctx := context.Background()
	repo.On("FindCompanySettings", ctx, "c1").Return(nil, apperrors.ErrNotFound).Once()

	settings, err := services.NewCompanyService(repo).GetSettings(ctx, "c1")

	require.NoError(t, err)
	assert.Equal(t, "c1", settings.CompanyID)
	assert.False(t, settings.AllowNegativeBalance)
}

func TestCompanyService_UpdateRequiresFlag(t *testing.T) {
	repo := new(MockCompanyRepository)
	_, err := services.NewCompanyService(repo).UpdateSettings(context.Background(), "c1", dto.UpdateCompanySettingsRequest{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "SaveCompanySettings", mock.Anything, mock.Anything)
}

// MockCompanyRepository is a mock type for the CompanySettingsRepositoryFacade interface
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindCompanySettings(ctx context.Context, companyID string) (*domain.CompanySettings, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanySettings), args.Error(1)
}

func (m *MockCompanyRepository) SaveCompanySettings(ctx context.Context, settings domain.CompanySettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}
