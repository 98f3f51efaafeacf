package repositories

import (
	"context"
	"time"

	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
)

// CurrencyReader defines read operations for currency data.
type CurrencyReader interface {
	// FindCurrencyByCode retrieves a currency by its ISO code.
	FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)

	// ListCurrencies retrieves all registered currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriter defines write operations for currency data.
type CurrencyWriter interface {
	SaveCurrency(ctx context.Context, currency domain.Currency) error
}

// CurrencyRepositoryFacade combines the currency repository interfaces.
type CurrencyRepositoryFacade interface {
	CurrencyReader
	CurrencyWriter
}

// ExchangeRateRepository defines operations for stored exchange rates.
type ExchangeRateRepository interface {
	// FindLatestRate retrieves the most recent rate from one currency into
	// another for a company, effective on or before asOf.
	FindLatestRate(ctx context.Context, companyID string, fromCode, toCode string, asOf time.Time) (*domain.ExchangeRate, error)

	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}
