package mapping

import (
	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
	"github.com/dawingroup/dawinos-sub003/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	approvals := make([]models.ApprovalEvent, len(d.Approvals))
	for i, event := range d.Approvals {
		approvals[i] = models.ApprovalEvent{
			Action:  event.Action,
			Reason:  event.Reason,
			ActedBy: event.ActedBy,
			ActedAt: event.ActedAt,
		}
	}
	return models.JournalEntry{
		EntryID:                d.EntryID,
		CompanyID:              d.CompanyID,
		JournalNumber:          d.JournalNumber,
		EntryType:              string(d.EntryType),
		EntryDate:              d.Date,
		FiscalYear:             d.FiscalYear,
		FiscalPeriod:           d.FiscalPeriod,
		CurrencyCode:           d.CurrencyCode,
		ExchangeRate:           d.ExchangeRate,
		Description:            d.Description,
		Status:                 string(d.Status),
		TotalDebits:            d.TotalDebits,
		TotalCredits:           d.TotalCredits,
		FunctionalTotalDebits:  d.FunctionalTotalDebits,
		FunctionalTotalCredits: d.FunctionalTotalCredits,
		IsBalanced:             d.IsBalanced,
		ReversalOfID:           d.ReversalOfID,
		ReversedByID:           d.ReversedByID,
		PostedAt:               d.PostedAt,
		PostedBy:               d.PostedBy,
		Approvals:              approvals,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	approvals := make([]domain.ApprovalEvent, len(m.Approvals))
	for i, event := range m.Approvals {
		approvals[i] = domain.ApprovalEvent{
			Action:  event.Action,
			Reason:  event.Reason,
			ActedBy: event.ActedBy,
			ActedAt: event.ActedAt,
		}
	}
	return domain.JournalEntry{
		EntryID:                m.EntryID,
		CompanyID:              m.CompanyID,
		JournalNumber:          m.JournalNumber,
		EntryType:              domain.EntryType(m.EntryType),
		Date:                   m.EntryDate,
		FiscalYear:             m.FiscalYear,
		FiscalPeriod:           m.FiscalPeriod,
		CurrencyCode:           m.CurrencyCode,
		ExchangeRate:           m.ExchangeRate,
		Description:            m.Description,
		Status:                 domain.EntryStatus(m.Status),
		TotalDebits:            m.TotalDebits,
		TotalCredits:           m.TotalCredits,
		FunctionalTotalDebits:  m.FunctionalTotalDebits,
		FunctionalTotalCredits: m.FunctionalTotalCredits,
		IsBalanced:             m.IsBalanced,
		ReversalOfID:           m.ReversalOfID,
		ReversedByID:           m.ReversedByID,
		PostedAt:               m.PostedAt,
		PostedBy:               m.PostedBy,
		Approvals:              approvals,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		AccountCode: d.AccountCode,
		AccountName: d.AccountName,
		Description: d.Description,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Department:  d.Department,
		Project:     d.Project,
		CostCenter:  d.CostCenter,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		AccountCode: m.AccountCode,
		AccountName: m.AccountName,
		Description: m.Description,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Department:  m.Department,
		Project:     m.Project,
		CostCenter:  m.CostCenter,
	}
}
