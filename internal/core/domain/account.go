package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountLevel reflects the depth of an account in the chart-of-accounts tree.
type AccountLevel string

const (
	LevelType    AccountLevel = "TYPE"
	LevelSubtype AccountLevel = "SUBTYPE"
	LevelGroup   AccountLevel = "GROUP"
	LevelDetail  AccountLevel = "DETAIL"
)

// AccountStatus indicates whether an account is live or soft-deleted.
type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountArchived AccountStatus = "ARCHIVED"
)

// ChildLevel returns the level one step below parent, capped at DETAIL.
func ChildLevel(parent AccountLevel) AccountLevel {
	switch parent {
	case LevelType:
		return LevelSubtype
	case LevelSubtype:
		return LevelGroup
	default:
		return LevelDetail
	}
}

// Account represents one node of a company's chart of accounts.
// The debit/credit/balance fields are a materialized snapshot of all posted
// lines touching the account; only the posting engine writes them.
type Account struct {
	AccountID    string        `json:"accountID"`
	CompanyID    string        `json:"companyID"`
	Code         string        `json:"code"` // Fixed-width numeric, unique per company
	Name         string        `json:"name"`
	AccountType  AccountType   `json:"accountType"`
	SubType      string        `json:"subType"`
	Level        AccountLevel  `json:"level"`
	ParentID     string        `json:"parentID"`    // Nullable, self-referencing
	AncestorIDs  []string      `json:"ancestorIDs"` // Ordered root -> parent
	Path         string        `json:"path"`        // Slash-joined codes, root -> self
	IsHeader     bool          `json:"isHeader"`    // Header accounts cannot be posted to
	IsPostable   bool          `json:"isPostable"`
	IsSystem     bool          `json:"isSystem"` // Protected from archival
	CurrencyCode string        `json:"currencyCode"`
	Description  string        `json:"description"`
	Status       AccountStatus `json:"status"`
	AuditFields

	// Balance snapshot, maintained exclusively by the posting engine.
	Debit             decimal.Decimal `json:"debit"`
	Credit            decimal.Decimal `json:"credit"`
	Balance           decimal.Decimal `json:"balance"`           // Oriented by normal polarity
	FunctionalBalance decimal.Decimal `json:"functionalBalance"` // Reporting-currency equivalent
	BalanceUpdatedAt  time.Time       `json:"balanceUpdatedAt"`
}

// IsDebitNormal reports whether the account type's balance grows with debits.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// AccountNode is one node of the in-memory chart-of-accounts forest, built by
// the registry from parent links with siblings ordered by code.
type AccountNode struct {
	Account  Account       `json:"account"`
	Children []AccountNode `json:"children"`
}
