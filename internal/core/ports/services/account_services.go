package services

import (
	"context"

	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
	"github.com/dawingroup/dawinos-sub003/internal/dto"
)

// AccountSvcFacade is the account registry boundary: chart-of-accounts
// structure and lookups. Balance snapshots are read-only here; only the
// posting engine writes them.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error)
	GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)
	UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
	ArchiveAccount(ctx context.Context, companyID string, accountID string, userID string) error
	GetAccountTree(ctx context.Context, companyID string) ([]domain.AccountNode, error)

	// RebuildAccountBalance recomputes the balance snapshot from all posted
	// lines. This is the only recompute-from-scratch path.
	RebuildAccountBalance(ctx context.Context, companyID string, accountID string, userID string) (*domain.Account, error)
}
