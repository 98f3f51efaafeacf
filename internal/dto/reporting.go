package dto

import (
	"time"

	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceParams holds query parameters for generating a trial balance.
type TrialBalanceParams struct {
	AsOf time.Time `form:"asOf" binding:"required" time_format:"2006-01-02"`
}

// TrialBalanceRowResponse is a single account row of the report.
type TrialBalanceRowResponse struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
	IsAbnormal  bool            `json:"isAbnormal"`
}

// TrialBalanceResponse is the generated report with grand totals.
type TrialBalanceResponse struct {
	AsOf         time.Time                 `json:"asOf"`
	FiscalYear   int                       `json:"fiscalYear"`
	FiscalPeriod int                       `json:"fiscalPeriod"`
	Rows         []TrialBalanceRowResponse `json:"rows"`
	TotalDebit   decimal.Decimal           `json:"totalDebit"`
	TotalCredit  decimal.Decimal           `json:"totalCredit"`
	IsBalanced   bool                      `json:"isBalanced"`
	GeneratedAt  time.Time                 `json:"generatedAt"`
}

// ToTrialBalanceResponse converts the domain report to its response DTO.
func ToTrialBalanceResponse(r *domain.TrialBalanceReport) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
			Balance:     row.Balance,
			IsAbnormal:  row.IsAbnormal,
		}
	}
	return TrialBalanceResponse{
		AsOf:         r.AsOf,
		FiscalYear:   r.FiscalYear,
		FiscalPeriod: r.FiscalPeriod,
		Rows:         rows,
		TotalDebit:   r.TotalDebit,
		TotalCredit:  r.TotalCredit,
		IsBalanced:   r.IsBalanced,
		GeneratedAt:  r.GeneratedAt,
	}
}
