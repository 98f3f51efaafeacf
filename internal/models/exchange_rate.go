package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a persisted conversion rate into the functional currency.
type ExchangeRate struct {
	RateID           string          `db:"rate_id"`
	CompanyID        string          `db:"company_id"`
	FromCurrencyCode string          `db:"from_currency_code"`
	ToCurrencyCode   string          `db:"to_currency_code"`
	Rate             decimal.Decimal `db:"rate"`
	DateEffective    time.Time       `db:"date_effective"`
	AuditFields
}
