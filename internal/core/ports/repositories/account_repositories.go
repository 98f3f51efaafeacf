package repositories

import (
	"context"
	"time"

	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves a single account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its company-scoped code.
	FindAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts, keyed by account ID.
	// Missing IDs are simply absent from the result map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListActiveAccounts retrieves all non-archived accounts of a company,
	// ordered by code ascending.
	ListActiveAccounts(ctx context.Context, companyID string) ([]domain.Account, error)

	// CountChildren returns how many accounts reference accountID as parent.
	CountChildren(ctx context.Context, accountID string) (int, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
// Balance snapshot fields are off limits here except for explicit rebuilds;
// the posting engine mutates them inside its own transaction.
type AccountWriter interface {
	// SaveAccount inserts a new account with a zero balance snapshot.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an account's mutable fields (name, description,
	// subtype, parent/ancestry/path, status). It never writes balance fields.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// ArchiveAccount soft-deletes an account.
	ArchiveAccount(ctx context.Context, accountID string, userID string, at time.Time) error

	// ResetAccountBalance overwrites the balance snapshot. Only the explicit
	// rebuild path may call this.
	ResetAccountBalance(ctx context.Context, accountID string, debit, credit, balance, functionalBalance decimal.Decimal, userID string, at time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
