package services

import (
	"context"
	"time"

	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
	"github.com/dawingroup/dawinos-sub003/internal/dto"
	"github.com/shopspring/decimal"
)

// CurrencySvcFacade manages the currency registry and default exchange rates.
type CurrencySvcFacade interface {
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, userID string) (*domain.Currency, error)
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// SaveExchangeRate stores a conversion rate into the functional currency.
	SaveExchangeRate(ctx context.Context, companyID string, req dto.CreateExchangeRateRequest, userID string) (*domain.ExchangeRate, error)

	// ResolveRate returns the rate to apply for an entry in the given
	// currency: 1 for the functional currency, otherwise the latest stored
	// rate effective on or before the entry date.
	ResolveRate(ctx context.Context, companyID string, currencyCode string, date time.Time) (decimal.Decimal, error)
}
