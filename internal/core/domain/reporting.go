package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single account row in a trial balance report.
// Abnormal balances (a debit-normal account sitting on the credit side, or
// vice versa) are still reported in the opposite column and flagged.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
	IsAbnormal  bool            `json:"isAbnormal"`
}

// TrialBalanceReport is a point-in-time report proving total debits equal
// total credits across all postable accounts.
type TrialBalanceReport struct {
	CompanyID    string            `json:"companyID"`
	AsOf         time.Time         `json:"asOf"`
	FiscalYear   int               `json:"fiscalYear"`
	FiscalPeriod int               `json:"fiscalPeriod"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebit   decimal.Decimal   `json:"totalDebit"`
	TotalCredit  decimal.Decimal   `json:"totalCredit"`
	IsBalanced   bool              `json:"isBalanced"`
	GeneratedAt  time.Time         `json:"generatedAt"`
}

// PostedLine is a read-only projection of a posted journal line, exposed to
// consumer modules (reporting, budgeting, cashflow) instead of raw storage
// access.
type PostedLine struct {
	LineID        string          `json:"lineID"`
	EntryID       string          `json:"entryID"`
	JournalNumber string          `json:"journalNumber"`
	Date          time.Time       `json:"date"`
	FiscalYear    int             `json:"fiscalYear"`
	FiscalPeriod  int             `json:"fiscalPeriod"`
	AccountID     string          `json:"accountID"`
	AccountCode   string          `json:"accountCode"`
	AccountName   string          `json:"accountName"`
	Description   string          `json:"description"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
}
