package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents a currency supported for accounts and journal entries.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // ISO 4217, e.g. "USD"
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int    `json:"precision"`
	AuditFields
}

// ExchangeRate is a stored conversion rate into the functional currency,
// used as the default when an entry omits an explicit rate.
type ExchangeRate struct {
	RateID           string          `json:"rateID"`
	CompanyID        string          `json:"companyID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	AuditFields
}
