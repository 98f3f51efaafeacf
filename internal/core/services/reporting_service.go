package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
	"github.com/dawingroup/dawinos-sub003/internal/core/fiscal"
	portsrepo "github.com/dawingroup/dawinos-sub003/internal/core/ports/repositories"
	portssvc "github.com/dawingroup/dawinos-sub003/internal/core/ports/services"
	"github.com/dawingroup/dawinos-sub003/internal/middleware"
	"github.com/dawingroup/dawinos-sub003/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingSvcFacade interface.
type reportingService struct {
	reportingRepo    portsrepo.ReportingRepository
	fiscalStartMonth time.Month
}

// NewReportingService creates the trial balance generator.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, fiscalStartMonth time.Month) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo, fiscalStartMonth: fiscalStartMonth}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) TrialBalance(ctx context.Context, companyID string, asOf time.Time) (*domain.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	fiscalYear, fiscalPeriod, err := fiscal.YearPeriod(asOf, s.fiscalStartMonth)
	if err != nil {
		return nil, err
	}

	accounts, err := s.reportingRepo.GetTrialBalanceAccounts(ctx, companyID)
	if err != nil {
		logger.Error("Failed to load trial balance accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load trial balance accounts: %w", err)
	}

	report := domain.TrialBalanceReport{
		CompanyID:    companyID,
		AsOf:         asOf,
		FiscalYear:   fiscalYear,
		FiscalPeriod: fiscalPeriod,
		Rows:         make([]domain.TrialBalanceRow, 0, len(accounts)),
		TotalDebit:   decimal.Zero,
		TotalCredit:  decimal.Zero,
		GeneratedAt:  time.Now().UTC(),
	}

	for _, account := range accounts {
		// An abnormal balance (e.g. an overdrawn asset) is routed to the
		// opposite column rather than shown negative, so both report
		// columns stay non-negative.
		debit, credit, abnormal := accounting.SplitBalance(account.AccountType, account.Balance)
		report.Rows = append(report.Rows, domain.TrialBalanceRow{
			AccountID:   account.AccountID,
			AccountCode: account.Code,
			AccountName: account.Name,
			AccountType: account.AccountType,
			Debit:       debit,
			Credit:      credit,
			Balance:     account.Balance,
			IsAbnormal:  abnormal,
		})
		report.TotalDebit = report.TotalDebit.Add(debit)
		report.TotalCredit = report.TotalCredit.Add(credit)
	}

	report.IsBalanced = report.TotalDebit.Sub(report.TotalCredit).Abs().LessThan(domain.BalanceTolerance)
	if !report.IsBalanced {
		// Out-of-balance books are a data problem worth surfacing loudly,
		// but the report itself is still produced for diagnosis.
		logger.Warn("Trial balance out of balance",
			slog.String("company_id", companyID),
			slog.String("total_debit", report.TotalDebit.String()),
			slog.String("total_credit", report.TotalCredit.String()))
	}

	logger.Info("Trial balance generated",
		slog.String("company_id", companyID),
		slog.Int("account_count", len(report.Rows)))
	return &report, nil
}
