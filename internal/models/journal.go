package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApprovalEvent is one element of the approvals JSONB history on an entry.
type ApprovalEvent struct {
	Action  string    `json:"action"`
	Reason  string    `json:"reason,omitempty"`
	ActedBy string    `json:"actedBy"`
	ActedAt time.Time `json:"actedAt"`
}

// JournalEntry is the persisted entry header. Totals are denormalized at
// write time so list queries never aggregate lines.
type JournalEntry struct {
	EntryID                string          `db:"entry_id"`
	CompanyID              string          `db:"company_id"`
	JournalNumber          string          `db:"journal_number"`
	EntryType              string          `db:"entry_type"`
	EntryDate              time.Time       `db:"entry_date"`
	FiscalYear             int             `db:"fiscal_year"`
	FiscalPeriod           int             `db:"fiscal_period"`
	CurrencyCode           string          `db:"currency_code"`
	ExchangeRate           decimal.Decimal `db:"exchange_rate"`
	Description            string          `db:"description"`
	Status                 string          `db:"status"`
	TotalDebits            decimal.Decimal `db:"total_debits"`
	TotalCredits           decimal.Decimal `db:"total_credits"`
	FunctionalTotalDebits  decimal.Decimal `db:"functional_total_debits"`
	FunctionalTotalCredits decimal.Decimal `db:"functional_total_credits"`
	IsBalanced             bool            `db:"is_balanced"`
	ReversalOfID           *string         `db:"reversal_of_id"`
	ReversedByID           *string         `db:"reversed_by_id"`
	PostedAt               *time.Time      `db:"posted_at"`
	PostedBy               string          `db:"posted_by"`
	Approvals              []ApprovalEvent `db:"approvals"` // JSONB
	AuditFields
}

// JournalLine is one persisted leg of an entry. Account code and name are
// snapshotted here so later registry edits leave history untouched.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	AccountCode string          `db:"account_code"`
	AccountName string          `db:"account_name"`
	Description string          `db:"description"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Department  string          `db:"department"`
	Project     string          `db:"project"`
	CostCenter  string          `db:"cost_center"`
}
