package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry in its lifecycle.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Approved EntryStatus = "APPROVED"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
	Void     EntryStatus = "VOID"
)

// EntryType distinguishes regular entries from machine-generated reversals.
type EntryType string

const (
	EntryStandard  EntryType = "STANDARD"
	EntryReversing EntryType = "REVERSING"
)

// BalanceTolerance is the maximum debit/credit difference an entry may carry.
// It absorbs rounding, not real imbalance.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// JournalLine is a single line of a journal entry, affecting one account.
// Account code and name are snapshotted at line creation so historical entries
// survive later account renames.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`  // Non-negative
	Credit      decimal.Decimal `json:"credit"` // Non-negative
	Department  string          `json:"department"`
	Project     string          `json:"project"`
	CostCenter  string          `json:"costCenter"`
}

// ApprovalEvent records one approval/void action in an entry's audit history.
type ApprovalEvent struct {
	Action  string    `json:"action"` // APPROVED or VOIDED
	Reason  string    `json:"reason"`
	ActedBy string    `json:"actedBy"`
	ActedAt time.Time `json:"actedAt"`
}

// JournalEntry represents a single, balanced financial event.
type JournalEntry struct {
	EntryID       string      `json:"entryID"`
	CompanyID     string      `json:"companyID"`
	JournalNumber string      `json:"journalNumber"` // JE-<fiscalYear>-<6-digit sequence>
	EntryType     EntryType   `json:"entryType"`
	Date          time.Time   `json:"date"`
	FiscalYear    int         `json:"fiscalYear"`
	FiscalPeriod  int         `json:"fiscalPeriod"`
	CurrencyCode  string      `json:"currencyCode"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"` // 1 for the functional currency
	Description   string      `json:"description"`
	Status        EntryStatus `json:"status"`

	Lines []JournalLine `json:"lines,omitempty"`

	TotalDebits            decimal.Decimal `json:"totalDebits"`
	TotalCredits           decimal.Decimal `json:"totalCredits"`
	FunctionalTotalDebits  decimal.Decimal `json:"functionalTotalDebits"`
	FunctionalTotalCredits decimal.Decimal `json:"functionalTotalCredits"`
	IsBalanced             bool            `json:"isBalanced"`

	// Reversal linkage: at most one each way.
	ReversalOfID *string `json:"reversalOfID,omitempty"`
	ReversedByID *string `json:"reversedByID,omitempty"`

	PostedAt *time.Time `json:"postedAt,omitempty"`
	PostedBy string     `json:"postedBy,omitempty"`

	Approvals []ApprovalEvent `json:"approvals,omitempty"`
	AuditFields
}

// ComputeTotals recalculates the entry's aggregates from its lines.
func (e *JournalEntry) ComputeTotals() {
	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range e.Lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	e.TotalDebits = debits
	e.TotalCredits = credits
	rate := e.ExchangeRate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}
	e.FunctionalTotalDebits = debits.Mul(rate)
	e.FunctionalTotalCredits = credits.Mul(rate)
	e.IsBalanced = debits.Sub(credits).Abs().LessThan(BalanceTolerance)
}

// Mutable reports whether the entry content may still change.
func (e *JournalEntry) Mutable() bool {
	return e.Status == Draft
}

// Postable reports whether the entry may transition to POSTED.
func (e *JournalEntry) Postable() bool {
	return e.Status == Draft || e.Status == Approved
}
