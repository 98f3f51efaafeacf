package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/dawingroup/dawinos-sub003/internal/apperrors"
	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
	portsrepo "github.com/dawingroup/dawinos-sub003/internal/core/ports/repositories"
	portssvc "github.com/dawingroup/dawinos-sub003/internal/core/ports/services"
	"github.com/dawingroup/dawinos-sub003/internal/core/services"
	"github.com/dawingroup/dawinos-sub003/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) ListEntriesByCompany(ctx context.Context, companyID string, fiscalYear int, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, companyID, fiscalYear, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) ListPostedLinesByAccount(ctx context.Context, companyID string, accountID string, from, to time.Time, limit int, nextToken *string) ([]domain.PostedLine, *string, error) {
	args := m.Called(ctx, companyID, accountID, from, to, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.PostedLine), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) SumPostedLinesByAccount(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	if args.Error(3) != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, args.Error(3)
	}
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Get(2).(decimal.Decimal), nil
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) (string, error) {
	args := m.Called(ctx, entry)
	return args.String(0), args.Error(1)
}

func (m *MockJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry, replaceLines bool) error {
	args := m.Called(ctx, entry, replaceLines)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateEntryStatus(ctx context.Context, entryID string, from []domain.EntryStatus, to domain.EntryStatus, event *domain.ApprovalEvent, userID string, at time.Time) error {
	args := m.Called(ctx, entryID, from, to, event, userID, at)
	return args.Error(0)
}

func (m *MockJournalRepository) PostEntry(ctx context.Context, entry domain.JournalEntry, changes map[string]portsrepo.BalanceChange, postedBy string, postedAt time.Time) error {
	args := m.Called(ctx, entry, changes, postedBy, postedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveReversal(ctx context.Context, reversing domain.JournalEntry, changes map[string]portsrepo.BalanceChange, originalEntryID string) (string, error) {
	args := m.Called(ctx, reversing, changes, originalEntryID)
	return args.String(0), args.Error(1)
}

// --- Mock AccountService (as consumed by the journal service) ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ArchiveAccount(ctx context.Context, companyID string, accountID string, userID string) error {
	args := m.Called(ctx, companyID, accountID, userID)
	return args.Error(0)
}

func (m *MockAccountService) GetAccountTree(ctx context.Context, companyID string) ([]domain.AccountNode, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountNode), args.Error(1)
}

func (m *MockAccountService) RebuildAccountBalance(ctx context.Context, companyID string, accountID string, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Test Suite Setup ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo  *MockJournalRepository
	mockAccountSvc   *MockAccountService
	service          portssvc.JournalSvcFacade
	cashAccount      domain.Account
	loanAccount      domain.Account
	revenueAccount   domain.Account
	headerAccount    domain.Account
	archivedAccount  domain.Account
	companyID        string
	userID           string
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountSvc = new(MockAccountService)
	// January fiscal start keeps date math obvious in these tests.
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountSvc, time.January)

	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "1000",
		Name:        "Cash",
		AccountType: domain.Asset,
		IsPostable:  true,
		Status:      domain.AccountActive,
	}
	suite.loanAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "2100",
		Name:        "Bank Loan",
		AccountType: domain.Liability,
		IsPostable:  true,
		Status:      domain.AccountActive,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "4000",
		Name:        "Sales",
		AccountType: domain.Revenue,
		IsPostable:  true,
		Status:      domain.AccountActive,
	}
	suite.headerAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "1",
		Name:        "Assets",
		AccountType: domain.Asset,
		IsHeader:    true,
		IsPostable:  false,
		Status:      domain.AccountActive,
	}
	suite.archivedAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "1090",
		Name:        "Old Cash",
		AccountType: domain.Asset,
		IsPostable:  true,
		Status:      domain.AccountArchived,
	}
}

func (suite *JournalServiceTestSuite) accountsMap(accounts ...domain.Account) map[string]domain.Account {
	result := make(map[string]domain.Account, len(accounts))
	for _, account := range accounts {
		result[account.AccountID] = account
	}
	return result
}

func (suite *JournalServiceTestSuite) balancedRequest() dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		Date:         time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		CurrencyCode: "USD",
		Description:  "Loan drawdown",
		Lines: []dto.EntryLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(500)},
			{AccountID: suite.loanAccount.AccountID, Credit: decimal.NewFromInt(500)},
		},
	}
}

// --- CreateEntry ---

func (suite *JournalServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.companyID, []string{suite.cashAccount.AccountID, suite.loanAccount.AccountID}).
		Return(suite.accountsMap(suite.cashAccount, suite.loanAccount), nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).
		Return("JE-2024-000001", nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.Draft, entry.Status)
	suite.Equal("JE-2024-000001", entry.JournalNumber)
	suite.Equal(2024, entry.FiscalYear)
	suite.Equal(3, entry.FiscalPeriod)
	suite.True(entry.IsBalanced)
	suite.True(entry.TotalDebits.Equal(decimal.NewFromInt(500)))
	suite.True(entry.TotalCredits.Equal(decimal.NewFromInt(500)))
	suite.Equal("1000", entry.Lines[0].AccountCode)
	suite.Equal("Cash", entry.Lines[0].AccountName)
	suite.True(entry.ExchangeRate.Equal(decimal.NewFromInt(1)))

	suite.mockAccountSvc.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Unbalanced() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[1].Credit = decimal.NewFromInt(499) // off by 1.00, beyond tolerance

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.companyID, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.loanAccount), nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, services.ErrEntryUnbalanced)
	suite.ErrorIs(err, apperrors.ErrInvariant)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_WithinTolerance() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[1].Credit = decimal.RequireFromString("499.995") // rounding residue under 0.01

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.companyID, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.loanAccount), nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).
		Return("JE-2024-000002", nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(entry.IsBalanced)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_NonPostableAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].AccountID = suite.headerAccount.AccountID

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.companyID, mock.Anything).
		Return(suite.accountsMap(suite.headerAccount, suite.loanAccount), nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, services.ErrAccountNotPostable)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_ArchivedAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].AccountID = suite.archivedAccount.AccountID

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.companyID, mock.Anything).
		Return(suite.accountsMap(suite.archivedAccount, suite.loanAccount), nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountInactive)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_UnknownAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()

	// Registry resolves only one of the two requested accounts.
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.companyID, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount), nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_NegativeAmount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].Debit = decimal.NewFromInt(-500)

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNegativeLineAmount)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "GetAccountsByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_EmptyLine() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].Debit = decimal.Zero

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEmptyLine)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_NoLines() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines = nil

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNoLines)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_ExplicitExchangeRate() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.CurrencyCode = "EUR"
	rate := decimal.RequireFromString("1.08")
	req.ExchangeRate = &rate

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.companyID, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.loanAccount), nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).
		Return("JE-2024-000003", nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(entry.ExchangeRate.Equal(rate))
	suite.True(entry.FunctionalTotalDebits.Equal(decimal.NewFromInt(500).Mul(rate)))
}

// --- State machine transitions ---

func (suite *JournalServiceTestSuite) draftEntry() *domain.JournalEntry {
	entry := &domain.JournalEntry{
		EntryID:       uuid.NewString(),
		CompanyID:     suite.companyID,
		JournalNumber: "JE-2024-000010",
		EntryType:     domain.EntryStandard,
		Date:          time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		FiscalYear:    2024,
		FiscalPeriod:  3,
		CurrencyCode:  "USD",
		ExchangeRate:  decimal.NewFromInt(1),
		Status:        domain.Draft,
		Lines: []domain.JournalLine{
			{LineID: uuid.NewString(), AccountID: suite.cashAccount.AccountID, AccountCode: "1000", AccountName: "Cash", Debit: decimal.NewFromInt(500)},
			{LineID: uuid.NewString(), AccountID: suite.loanAccount.AccountID, AccountCode: "2100", AccountName: "Bank Loan", Credit: decimal.NewFromInt(500)},
		},
	}
	entry.ComputeTotals()
	return entry
}

func (suite *JournalServiceTestSuite) TestApproveEntry_Success() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("UpdateEntryStatus", ctx, entry.EntryID, []domain.EntryStatus{domain.Draft}, domain.Approved, mock.AnythingOfType("*domain.ApprovalEvent"), suite.userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	approved, err := suite.service.ApproveEntry(ctx, suite.companyID, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Approved, approved.Status)
	suite.Require().Len(approved.Approvals, 1)
	suite.Equal("APPROVED", approved.Approvals[0].Action)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestApproveEntry_NotDraft() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Posted

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.ApproveEntry(ctx, suite.companyID, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNotDraft)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *JournalServiceTestSuite) TestApproveEntry_WrongCompany() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.CompanyID = uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.ApproveEntry(ctx, suite.companyID, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalServiceTestSuite) TestPostEntry_FromDraft() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(entry.Lines, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.companyID, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.loanAccount), nil).Once()

	var captured map[string]portsrepo.BalanceChange
	suite.mockJournalRepo.On("PostEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.Anything, suite.userID, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(map[string]portsrepo.BalanceChange)
		}).
		Return(nil).Once()

	posted, err := suite.service.PostEntry(ctx, suite.companyID, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.Require().NotNil(posted.PostedAt)
	suite.Equal(suite.userID, posted.PostedBy)

	suite.Require().Len(captured, 2)
	cashChange := captured[suite.cashAccount.AccountID]
	suite.True(cashChange.Debit.Equal(decimal.NewFromInt(500)))
	suite.True(cashChange.Credit.IsZero())
	// Debit-normal asset: functional movement is positive.
	suite.True(cashChange.Functional.Equal(decimal.NewFromInt(500)))
	loanChange := captured[suite.loanAccount.AccountID]
	suite.True(loanChange.Credit.Equal(decimal.NewFromInt(500)))
	// Credit-normal liability: a credit also moves the balance up.
	suite.True(loanChange.Functional.Equal(decimal.NewFromInt(500)))
}

func (suite *JournalServiceTestSuite) TestPostEntry_AlreadyPosted() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Posted

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(entry.Lines, nil).Once()

	_, err := suite.service.PostEntry(ctx, suite.companyID, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNotPostable)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_ConcurrentFlipConflict() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(entry.Lines, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.companyID, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.loanAccount), nil).Once()
	// Another writer won the conditional status flip.
	suite.mockJournalRepo.On("PostEntry", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.ErrConflict).Once()

	_, err := suite.service.PostEntry(ctx, suite.companyID, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

// --- UpdateEntry ---

func (suite *JournalServiceTestSuite) TestUpdateEntry_ReplaceLines() {
	ctx := context.Background()
	entry := suite.draftEntry()

	newLines := []dto.EntryLineRequest{
		{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(200)},
		{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(200)},
	}
	req := dto.UpdateEntryRequest{Lines: &newLines}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(entry.Lines, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.companyID, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockJournalRepo.On("UpdateEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), true).
		Return(nil).Once()

	updated, err := suite.service.UpdateEntry(ctx, suite.companyID, entry.EntryID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Len(updated.Lines, 2)
	suite.True(updated.TotalDebits.Equal(decimal.NewFromInt(200)))
	suite.True(updated.IsBalanced)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_NotDraft() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Approved

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(entry.Lines, nil).Once()

	desc := "too late"
	_, err := suite.service.UpdateEntry(ctx, suite.companyID, entry.EntryID, dto.UpdateEntryRequest{Description: &desc}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNotDraft)
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_FiscalYearChangeRejected() {
	ctx := context.Background()
	entry := suite.draftEntry()

	newDate := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	req := dto.UpdateEntryRequest{Date: &newDate}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(entry.Lines, nil).Once()

	_, err := suite.service.UpdateEntry(ctx, suite.companyID, entry.EntryID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrFiscalYearChange)
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_DateWithinYear() {
	ctx := context.Background()
	entry := suite.draftEntry()

	newDate := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	req := dto.UpdateEntryRequest{Date: &newDate}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(entry.Lines, nil).Once()
	suite.mockJournalRepo.On("UpdateEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), false).
		Return(nil).Once()

	updated, err := suite.service.UpdateEntry(ctx, suite.companyID, entry.EntryID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(5, updated.FiscalPeriod)
	suite.Equal(2024, updated.FiscalYear)
}

// --- ReverseEntry ---

func (suite *JournalServiceTestSuite) postedEntry() *domain.JournalEntry {
	entry := suite.draftEntry()
	entry.Status = domain.Posted
	postedAt := time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC)
	entry.PostedAt = &postedAt
	entry.PostedBy = suite.userID
	return entry
}

func (suite *JournalServiceTestSuite) TestReverseEntry_Success() {
	ctx := context.Background()
	original := suite.postedEntry()
	req := dto.ReverseEntryRequest{
		Date:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Reason: "duplicate booking",
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, original.EntryID).Return(original.Lines, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.companyID, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.loanAccount), nil).Once()

	var capturedChanges map[string]portsrepo.BalanceChange
	suite.mockJournalRepo.On("SaveReversal", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.Anything, original.EntryID).
		Run(func(args mock.Arguments) {
			capturedChanges = args.Get(2).(map[string]portsrepo.BalanceChange)
		}).
		Return("JE-2024-000011", nil).Once()

	reversing, err := suite.service.ReverseEntry(ctx, suite.companyID, original.EntryID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.EntryReversing, reversing.EntryType)
	suite.Equal(domain.Posted, reversing.Status)
	suite.Require().NotNil(reversing.ReversalOfID)
	suite.Equal(original.EntryID, *reversing.ReversalOfID)
	suite.Equal("JE-2024-000011", reversing.JournalNumber)
	suite.Equal(4, reversing.FiscalPeriod)

	// Debits and credits swap line for line.
	suite.Require().Len(reversing.Lines, 2)
	suite.True(reversing.Lines[0].Credit.Equal(decimal.NewFromInt(500)))
	suite.True(reversing.Lines[0].Debit.IsZero())
	suite.True(reversing.Lines[1].Debit.Equal(decimal.NewFromInt(500)))

	// Reversal pushes both balances back down by the original movement.
	suite.True(capturedChanges[suite.cashAccount.AccountID].Functional.Equal(decimal.NewFromInt(-500)))
	suite.True(capturedChanges[suite.loanAccount.AccountID].Functional.Equal(decimal.NewFromInt(-500)))
}

func (suite *JournalServiceTestSuite) TestReverseEntry_NotPosted() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(entry.Lines, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.companyID, entry.EntryID, dto.ReverseEntryRequest{Date: time.Now()}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNotPosted)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	ctx := context.Background()
	entry := suite.postedEntry()
	reversedBy := uuid.NewString()
	entry.ReversedByID = &reversedBy

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(entry.Lines, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.companyID, entry.EntryID, dto.ReverseEntryRequest{Date: time.Now()}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryAlreadyReversed)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_ReversalOfReversal() {
	ctx := context.Background()
	entry := suite.postedEntry()
	entry.EntryType = domain.EntryReversing

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(entry.Lines, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.companyID, entry.EntryID, dto.ReverseEntryRequest{Date: time.Now()}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryIsReversal)
}

// --- VoidEntry ---

func (suite *JournalServiceTestSuite) TestVoidEntry_Draft() {
	ctx := context.Background()
	entry := suite.draftEntry()
	req := dto.VoidEntryRequest{Reason: "entered against wrong company"}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("UpdateEntryStatus", ctx, entry.EntryID, []domain.EntryStatus{domain.Draft, domain.Approved}, domain.Void, mock.AnythingOfType("*domain.ApprovalEvent"), suite.userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	voided, err := suite.service.VoidEntry(ctx, suite.companyID, entry.EntryID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Void, voided.Status)
	suite.Require().Len(voided.Approvals, 1)
	suite.Equal("VOIDED", voided.Approvals[0].Action)
	suite.Equal(req.Reason, voided.Approvals[0].Reason)
}

func (suite *JournalServiceTestSuite) TestVoidEntry_PostedRejected() {
	ctx := context.Background()
	entry := suite.postedEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.VoidEntry(ctx, suite.companyID, entry.EntryID, dto.VoidEntryRequest{Reason: "nope"}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNotVoidable)
}

func (suite *JournalServiceTestSuite) TestVoidEntry_ReasonRequired() {
	ctx := context.Background()

	_, err := suite.service.VoidEntry(ctx, suite.companyID, uuid.NewString(), dto.VoidEntryRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindEntryByID", mock.Anything, mock.Anything)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
