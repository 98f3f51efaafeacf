package repositories

import (
	"context"

	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
)

// ReportingRepository defines read-only aggregation queries for reports.
type ReportingRepository interface {
	// GetTrialBalanceAccounts retrieves every active, postable account of a
	// company with a non-zero balance snapshot, ordered by code ascending.
	GetTrialBalanceAccounts(ctx context.Context, companyID string) ([]domain.Account, error)
}
