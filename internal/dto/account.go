package dto

import (
	"time"

	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the payload for creating an account.
// The accountcode rule enforces the fixed-width numeric code format.
type CreateAccountRequest struct {
	Code         string  `json:"code" binding:"required,accountcode"`
	Name         string  `json:"name" binding:"required"`
	AccountType  string  `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	SubType      string  `json:"subType"`
	ParentID     *string `json:"parentID"`
	IsHeader     bool    `json:"isHeader"`
	IsSystem     bool    `json:"isSystem"`
	CurrencyCode string  `json:"currencyCode" binding:"required,len=3"`
	Description  string  `json:"description"`
}

// UpdateAccountRequest defines the payload for updating an account.
// Classification (code, type) is immutable after creation.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	SubType     *string `json:"subType"`
	ParentID    *string `json:"parentID"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID         string          `json:"accountID"`
	CompanyID         string          `json:"companyID"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	AccountType       string          `json:"accountType"`
	SubType           string          `json:"subType,omitempty"`
	Level             string          `json:"level"`
	ParentID          string          `json:"parentID,omitempty"`
	Path              string          `json:"path"`
	IsHeader          bool            `json:"isHeader"`
	IsPostable        bool            `json:"isPostable"`
	IsSystem          bool            `json:"isSystem"`
	CurrencyCode      string          `json:"currencyCode"`
	Status            string          `json:"status"`
	Balance           decimal.Decimal `json:"balance"`
	FunctionalBalance decimal.Decimal `json:"functionalBalance"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// AccountTreeNode is one node of the chart-of-accounts forest.
type AccountTreeNode struct {
	AccountResponse
	Children []AccountTreeNode `json:"children"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:         a.AccountID,
		CompanyID:         a.CompanyID,
		Code:              a.Code,
		Name:              a.Name,
		AccountType:       string(a.AccountType),
		SubType:           a.SubType,
		Level:             string(a.Level),
		ParentID:          a.ParentID,
		Path:              a.Path,
		IsHeader:          a.IsHeader,
		IsPostable:        a.IsPostable,
		IsSystem:          a.IsSystem,
		CurrencyCode:      a.CurrencyCode,
		Status:            string(a.Status),
		Balance:           a.Balance,
		FunctionalBalance: a.FunctionalBalance,
		CreatedAt:         a.CreatedAt,
	}
}

// ToAccountTree converts a domain forest into response nodes.
func ToAccountTree(nodes []domain.AccountNode) []AccountTreeNode {
	out := make([]AccountTreeNode, len(nodes))
	for i, n := range nodes {
		acc := n.Account
		out[i] = AccountTreeNode{
			AccountResponse: ToAccountResponse(&acc),
			Children:        ToAccountTree(n.Children),
		}
	}
	return out
}
