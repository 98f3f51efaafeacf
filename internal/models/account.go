package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the persisted chart-of-accounts row. Ancestry is denormalized
// (ancestor_ids, path) so tree reads never recurse in SQL.
type Account struct {
	AccountID         string          `db:"account_id"`
	CompanyID         string          `db:"company_id"`
	Code              string          `db:"code"`
	Name              string          `db:"name"`
	AccountType       string          `db:"account_type"`
	SubType           string          `db:"sub_type"`
	Level             string          `db:"level"`
	ParentID          string          `db:"parent_id"` // Nullable, stored as NULL when empty
	AncestorIDs       []string        `db:"ancestor_ids"`
	Path              string          `db:"path"`
	IsHeader          bool            `db:"is_header"`
	IsPostable        bool            `db:"is_postable"`
	IsSystem          bool            `db:"is_system"`
	CurrencyCode      string          `db:"currency_code"`
	Description       string          `db:"description"`
	Status            string          `db:"status"`
	Debit             decimal.Decimal `db:"debit"`
	Credit            decimal.Decimal `db:"credit"`
	Balance           decimal.Decimal `db:"balance"`
	FunctionalBalance decimal.Decimal `db:"functional_balance"`
	BalanceUpdatedAt  time.Time       `db:"balance_updated_at"`
	AuditFields
}
