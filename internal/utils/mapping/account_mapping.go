package mapping

import (
	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
	"github.com/dawingroup/dawinos-sub003/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:         d.AccountID,
		CompanyID:         d.CompanyID,
		Code:              d.Code,
		Name:              d.Name,
		AccountType:       string(d.AccountType),
		SubType:           d.SubType,
		Level:             string(d.Level),
		ParentID:          d.ParentID,
		AncestorIDs:       d.AncestorIDs,
		Path:              d.Path,
		IsHeader:          d.IsHeader,
		IsPostable:        d.IsPostable,
		IsSystem:          d.IsSystem,
		CurrencyCode:      d.CurrencyCode,
		Description:       d.Description,
		Status:            string(d.Status),
		Debit:             d.Debit,
		Credit:            d.Credit,
		Balance:           d.Balance,
		FunctionalBalance: d.FunctionalBalance,
		BalanceUpdatedAt:  d.BalanceUpdatedAt,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:         m.AccountID,
		CompanyID:         m.CompanyID,
		Code:              m.Code,
		Name:              m.Name,
		AccountType:       domain.AccountType(m.AccountType),
		SubType:           m.SubType,
		Level:             domain.AccountLevel(m.Level),
		ParentID:          m.ParentID,
		AncestorIDs:       m.AncestorIDs,
		Path:              m.Path,
		IsHeader:          m.IsHeader,
		IsPostable:        m.IsPostable,
		IsSystem:          m.IsSystem,
		CurrencyCode:      m.CurrencyCode,
		Description:       m.Description,
		Status:            domain.AccountStatus(m.Status),
		Debit:             m.Debit,
		Credit:            m.Credit,
		Balance:           m.Balance,
		FunctionalBalance: m.FunctionalBalance,
		BalanceUpdatedAt:  m.BalanceUpdatedAt,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
