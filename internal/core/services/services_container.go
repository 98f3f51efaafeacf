package services

import (
	portsrepo "github.com/dawingroup/dawinos-sub003/internal/core/ports/repositories"
	portssvc "github.com/dawingroup/dawinos-sub003/internal/core/ports/services"
	"github.com/dawingroup/dawinos-sub003/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Currency first since the journal service depends on rate resolution.
	container.Currency = NewCurrencyService(repos.CurrencyRepo, repos.ExchangeRateRepo, cfg.FunctionalCurrency)

	container.Account = NewAccountService(
		repos.AccountRepo,
		WithCurrencyReader(repos.CurrencyRepo),
		WithEntryReader(repos.JournalRepo),
	)

	container.Journal = NewJournalService(
		repos.JournalRepo,
		container.Account,
		cfg.FiscalYearStartMonth,
		WithCurrencyService(container.Currency),
	)

	container.Ledger = NewLedgerService(repos.JournalRepo, container.Account)
	container.Reporting = NewReportingService(repos.ReportingRepo, cfg.FiscalYearStartMonth)

	return container
}
