package services

import (
	"context"
	"time"

	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
)

// ReportingSvcFacade generates read-only reports over posted ledger state.
type ReportingSvcFacade interface {
	// TrialBalance produces a balanced debit/credit report over all postable
	// accounts with a non-zero balance as of the given date.
	TrialBalance(ctx context.Context, companyID string, asOf time.Time) (*domain.TrialBalanceReport, error)
}
