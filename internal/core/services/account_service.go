package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dawingroup/dawinos-sub003/internal/apperrors"
	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
	portsrepo "github.com/dawingroup/dawinos-sub003/internal/core/ports/repositories"
	portssvc "github.com/dawingroup/dawinos-sub003/internal/core/ports/services"
	"github.com/dawingroup/dawinos-sub003/internal/dto"
	"github.com/dawingroup/dawinos-sub003/internal/middleware"
	"github.com/dawingroup/dawinos-sub003/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrDuplicateAccountCode = fmt.Errorf("%w: account code already in use", apperrors.ErrDuplicate)
	ErrParentTypeMismatch   = fmt.Errorf("%w: child account type must match its parent's type", apperrors.ErrInvariant)
	ErrParentCycle          = fmt.Errorf("%w: account cannot be parented to itself or a descendant", apperrors.ErrInvariant)
	ErrAccountHasBalance    = fmt.Errorf("%w: account balance must be zero before archival", apperrors.ErrConflict)
	ErrAccountHasChildren   = fmt.Errorf("%w: account still has child accounts", apperrors.ErrConflict)
	ErrAccountArchived      = fmt.Errorf("%w: account is already archived", apperrors.ErrConflict)
	ErrSystemAccount        = fmt.Errorf("%w: system accounts are protected", apperrors.ErrForbidden)
)

// accountService implements the AccountSvcFacade interface.
type accountService struct {
	accountRepo  portsrepo.AccountRepositoryFacade
	journalRepo  portsrepo.EntryReader
	currencyRepo portsrepo.CurrencyReader
}

// AccountServiceOption is a functional option for configuring the account service.
type AccountServiceOption func(*accountService)

// WithCurrencyReader adds currency validation on account creation.
func WithCurrencyReader(repo portsrepo.CurrencyReader) AccountServiceOption {
	return func(s *accountService) {
		s.currencyRepo = repo
	}
}

// WithEntryReader enables the explicit balance rebuild path.
func WithEntryReader(repo portsrepo.EntryReader) AccountServiceOption {
	return func(s *accountService) {
		s.journalRepo = repo
	}
}

// NewAccountService creates the account registry service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure accountService implements the AccountSvcFacade interface.
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// resolveParent loads and validates the parent, returning the derived level,
// ancestry and path for a child with the given code and type.
func (s *accountService) resolveParent(ctx context.Context, companyID string, parentID string, code string, accountType domain.AccountType) (domain.AccountLevel, []string, string, error) {
	parent, err := s.accountRepo.FindAccountByID(ctx, parentID)
	if err != nil {
		return "", nil, "", fmt.Errorf("invalid parent account: %w", err)
	}
	if parent.CompanyID != companyID {
		// Obscure existence from other companies.
		return "", nil, "", fmt.Errorf("invalid parent account: %w", apperrors.ErrNotFound)
	}
	if parent.AccountType != accountType {
		return "", nil, "", fmt.Errorf("%w: parent %s is %s", ErrParentTypeMismatch, parent.Code, parent.AccountType)
	}

	level := domain.ChildLevel(parent.Level)
	ancestors := make([]string, 0, len(parent.AncestorIDs)+1)
	ancestors = append(ancestors, parent.AncestorIDs...)
	ancestors = append(ancestors, parent.AccountID)
	path := parent.Path + "/" + code
	return level, ancestors, path, nil
}

func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.currencyRepo != nil {
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
			logger.Warn("Invalid currency code for account", slog.String("currency_code", req.CurrencyCode))
			return nil, fmt.Errorf("invalid currency code %s: %w", req.CurrencyCode, err)
		}
	}

	// Reject duplicate codes up front; the unique index backs this up under
	// concurrent creates.
	existing, err := s.accountRepo.FindAccountByCode(ctx, companyID, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check account code uniqueness", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: code %s", ErrDuplicateAccountCode, req.Code)
	}

	accountType := domain.AccountType(req.AccountType)

	level := domain.LevelType
	var ancestors []string
	path := req.Code
	if req.ParentID != nil && *req.ParentID != "" {
		level, ancestors, path, err = s.resolveParent(ctx, companyID, *req.ParentID, req.Code, accountType)
		if err != nil {
			return nil, err
		}
	}

	parentID := ""
	if req.ParentID != nil {
		parentID = *req.ParentID
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		CompanyID:    companyID,
		Code:         req.Code,
		Name:         req.Name,
		AccountType:  accountType,
		SubType:      req.SubType,
		Level:        level,
		ParentID:     parentID,
		AncestorIDs:  ancestors,
		Path:         path,
		IsHeader:     req.IsHeader,
		IsPostable:   !req.IsHeader,
		IsSystem:     req.IsSystem,
		CurrencyCode: req.CurrencyCode,
		Description:  req.Description,
		Status:       domain.AccountActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
		Debit:             decimal.Zero,
		Credit:            decimal.Zero,
		Balance:           decimal.Zero,
		FunctionalBalance: decimal.Zero,
		BalanceUpdatedAt:  now,
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.CompanyID != companyID {
		// Obscure existence from other companies.
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, companyID, code)
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		if account.CompanyID != companyID {
			return nil, apperrors.ErrNotFound
		}
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.SubType != nil {
		account.SubType = *req.SubType
		updated = true
	}

	if req.ParentID != nil && *req.ParentID != account.ParentID {
		if account.IsSystem {
			return nil, fmt.Errorf("%w: cannot re-parent a system account", ErrSystemAccount)
		}
		if *req.ParentID == "" {
			account.Level = domain.LevelType
			account.AncestorIDs = nil
			account.Path = account.Code
			account.ParentID = ""
		} else {
			if *req.ParentID == account.AccountID {
				return nil, ErrParentCycle
			}
			level, ancestors, path, err := s.resolveParent(ctx, companyID, *req.ParentID, account.Code, account.AccountType)
			if err != nil {
				return nil, err
			}
			for _, ancestorID := range ancestors {
				if ancestorID == account.AccountID {
					return nil, ErrParentCycle
				}
			}
			account.Level = level
			account.AncestorIDs = ancestors
			account.Path = path
			account.ParentID = *req.ParentID
		}
		updated = true
	}

	if !updated {
		logger.Debug("No fields provided for account update", slog.String("account_id", accountID))
		return account, nil
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

func (s *accountService) ArchiveAccount(ctx context.Context, companyID string, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, companyID, accountID)
	if err != nil {
		return err
	}

	if account.IsSystem {
		return fmt.Errorf("%w: cannot archive system account %s", ErrSystemAccount, account.Code)
	}
	if account.Status == domain.AccountArchived {
		return ErrAccountArchived
	}
	if !account.Balance.IsZero() {
		return fmt.Errorf("%w: account %s carries %s", ErrAccountHasBalance, account.Code, account.Balance.String())
	}

	children, err := s.accountRepo.CountChildren(ctx, accountID)
	if err != nil {
		logger.Error("Failed to count child accounts", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to count child accounts: %w", err)
	}
	if children > 0 {
		return fmt.Errorf("%w: account %s has %d children", ErrAccountHasChildren, account.Code, children)
	}

	if err := s.accountRepo.ArchiveAccount(ctx, accountID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to archive account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return err
	}

	logger.Info("Account archived", slog.String("account_id", accountID), slog.String("code", account.Code))
	return nil
}

func (s *accountService) GetAccountTree(ctx context.Context, companyID string) ([]domain.AccountNode, error) {
	accounts, err := s.accountRepo.ListActiveAccounts(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for tree: %w", err)
	}

	byParent := make(map[string][]domain.Account)
	known := make(map[string]bool, len(accounts))
	for _, account := range accounts {
		known[account.AccountID] = true
	}
	for _, account := range accounts {
		parent := account.ParentID
		if parent != "" && !known[parent] {
			// Parent archived or missing; surface the subtree at the root
			// rather than dropping it.
			parent = ""
		}
		byParent[parent] = append(byParent[parent], account)
	}

	var build func(parentID string) []domain.AccountNode
	build = func(parentID string) []domain.AccountNode {
		siblings := byParent[parentID]
		// Codes are fixed width, so lexicographic order is numeric order.
		sort.Slice(siblings, func(i, j int) bool {
			return strings.Compare(siblings[i].Code, siblings[j].Code) < 0
		})
		nodes := make([]domain.AccountNode, len(siblings))
		for i, account := range siblings {
			nodes[i] = domain.AccountNode{
				Account:  account,
				Children: build(account.AccountID),
			}
		}
		return nodes
	}

	return build(""), nil
}

func (s *accountService) RebuildAccountBalance(ctx context.Context, companyID string, accountID string, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.journalRepo == nil {
		return nil, fmt.Errorf("%w: balance rebuild is not wired", apperrors.ErrInternal)
	}

	account, err := s.GetAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	debit, credit, functionalNet, err := s.journalRepo.SumPostedLinesByAccount(ctx, accountID)
	if err != nil {
		logger.Error("Failed to aggregate posted lines for rebuild", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to aggregate posted lines: %w", err)
	}

	balance, err := accounting.OrientedBalance(account.AccountType, debit, credit)
	if err != nil {
		return nil, err
	}
	functionalBalance := functionalNet
	if !account.AccountType.IsDebitNormal() {
		functionalBalance = functionalNet.Neg()
	}

	now := time.Now().UTC()
	if err := s.accountRepo.ResetAccountBalance(ctx, accountID, debit, credit, balance, functionalBalance, userID, now); err != nil {
		logger.Error("Failed to reset account balance", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	account.Debit = debit
	account.Credit = credit
	account.Balance = balance
	account.FunctionalBalance = functionalBalance
	account.BalanceUpdatedAt = now

	logger.Info("Account balance rebuilt", slog.String("account_id", accountID), slog.String("balance", balance.String()))
	return account, nil
}
