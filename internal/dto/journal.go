package dto

import (
	"time"

	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest defines one line of a journal entry payload. Debit and
// credit must be non-negative; a balanced entry needs both sides across lines.
type EntryLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Department  string          `json:"department"`
	Project     string          `json:"project"`
	CostCenter  string          `json:"costCenter"`
}

// CreateEntryRequest defines the payload for creating a draft journal entry.
// ExchangeRate may be omitted; the service falls back to 1 for the functional
// currency or the latest stored rate otherwise.
type CreateEntryRequest struct {
	Date         time.Time          `json:"date" binding:"required"`
	CurrencyCode string             `json:"currencyCode" binding:"required,len=3"`
	ExchangeRate *decimal.Decimal   `json:"exchangeRate"`
	Description  string             `json:"description" binding:"required"`
	Lines        []EntryLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateEntryRequest defines the payload for updating a draft entry. A nil
// Lines leaves the line set untouched; a non-nil Lines replaces it entirely.
type UpdateEntryRequest struct {
	Date         *time.Time          `json:"date"`
	Description  *string             `json:"description"`
	CurrencyCode *string             `json:"currencyCode" binding:"omitempty,len=3"`
	ExchangeRate *decimal.Decimal    `json:"exchangeRate"`
	Lines        *[]EntryLineRequest `json:"lines" binding:"omitempty,min=1,dive"`
}

// ReverseEntryRequest carries the reversal date, which may fall in a
// different fiscal period than the original entry.
type ReverseEntryRequest struct {
	Date   time.Time `json:"date" binding:"required"`
	Reason string    `json:"reason"`
}

// VoidEntryRequest carries the mandatory void reason for the audit history.
type VoidEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListEntriesParams holds query parameters for listing journal entries.
type ListEntriesParams struct {
	FiscalYear int     `form:"fiscalYear"`
	Limit      int     `form:"limit"`
	NextToken  *string `form:"nextToken"`
}

// ListPostedLinesParams holds query parameters for the ledger line query.
type ListPostedLinesParams struct {
	From      time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To        time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
	Limit     int       `form:"limit"`
	NextToken *string   `form:"nextToken"`
}

// EntryLineResponse defines the data returned for a journal line.
type EntryLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Description string          `json:"description,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Department  string          `json:"department,omitempty"`
	Project     string          `json:"project,omitempty"`
	CostCenter  string          `json:"costCenter,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID       string              `json:"entryID"`
	CompanyID     string              `json:"companyID"`
	JournalNumber string              `json:"journalNumber"`
	EntryType     string              `json:"entryType"`
	Date          time.Time           `json:"date"`
	FiscalYear    int                 `json:"fiscalYear"`
	FiscalPeriod  int                 `json:"fiscalPeriod"`
	CurrencyCode  string              `json:"currencyCode"`
	ExchangeRate  decimal.Decimal     `json:"exchangeRate"`
	Description   string              `json:"description"`
	Status        string              `json:"status"`
	TotalDebits   decimal.Decimal     `json:"totalDebits"`
	TotalCredits  decimal.Decimal     `json:"totalCredits"`
	IsBalanced    bool                `json:"isBalanced"`
	ReversalOfID  *string             `json:"reversalOfID,omitempty"`
	ReversedByID  *string             `json:"reversedByID,omitempty"`
	PostedAt      *time.Time          `json:"postedAt,omitempty"`
	PostedBy      string              `json:"postedBy,omitempty"`
	Lines         []EntryLineResponse `json:"lines,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreatedBy     string              `json:"createdBy"`
}

// ListEntriesResponse is a page of entries plus the token for the next page.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// PostedLineResponse defines the data returned for a posted ledger line.
type PostedLineResponse struct {
	LineID        string          `json:"lineID"`
	EntryID       string          `json:"entryID"`
	JournalNumber string          `json:"journalNumber"`
	Date          time.Time       `json:"date"`
	FiscalYear    int             `json:"fiscalYear"`
	FiscalPeriod  int             `json:"fiscalPeriod"`
	AccountCode   string          `json:"accountCode"`
	AccountName   string          `json:"accountName"`
	Description   string          `json:"description,omitempty"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
}

// ListPostedLinesResponse is a page of posted lines for one account.
type ListPostedLinesResponse struct {
	Lines     []PostedLineResponse `json:"lines"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// ToEntryLineResponse converts a domain.JournalLine to its response DTO.
func ToEntryLineResponse(l *domain.JournalLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:      l.LineID,
		AccountID:   l.AccountID,
		AccountCode: l.AccountCode,
		AccountName: l.AccountName,
		Description: l.Description,
		Debit:       l.Debit,
		Credit:      l.Credit,
		Department:  l.Department,
		Project:     l.Project,
		CostCenter:  l.CostCenter,
	}
}

// ToEntryResponse converts a domain.JournalEntry to its response DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:       e.EntryID,
		CompanyID:     e.CompanyID,
		JournalNumber: e.JournalNumber,
		EntryType:     string(e.EntryType),
		Date:          e.Date,
		FiscalYear:    e.FiscalYear,
		FiscalPeriod:  e.FiscalPeriod,
		CurrencyCode:  e.CurrencyCode,
		ExchangeRate:  e.ExchangeRate,
		Description:   e.Description,
		Status:        string(e.Status),
		TotalDebits:   e.TotalDebits,
		TotalCredits:  e.TotalCredits,
		IsBalanced:    e.IsBalanced,
		ReversalOfID:  e.ReversalOfID,
		ReversedByID:  e.ReversedByID,
		PostedAt:      e.PostedAt,
		PostedBy:      e.PostedBy,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]EntryLineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToEntryLineResponse(&e.Lines[i])
		}
	}
	return resp
}

// ToPostedLineResponses converts domain posted lines to response DTOs.
func ToPostedLineResponses(lines []domain.PostedLine) []PostedLineResponse {
	out := make([]PostedLineResponse, len(lines))
	for i, l := range lines {
		out[i] = PostedLineResponse{
			LineID:        l.LineID,
			EntryID:       l.EntryID,
			JournalNumber: l.JournalNumber,
			Date:          l.Date,
			FiscalYear:    l.FiscalYear,
			FiscalPeriod:  l.FiscalPeriod,
			AccountCode:   l.AccountCode,
			AccountName:   l.AccountName,
			Description:   l.Description,
			Debit:         l.Debit,
			Credit:        l.Credit,
		}
	}
	return out
}
