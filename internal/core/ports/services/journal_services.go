package services

import (
	"context"

	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
	"github.com/dawingroup/dawinos-sub003/internal/dto"
)

// JournalSvcFacade is the journal entry store boundary: entry lifecycle from
// draft through posting, reversal and void.
type JournalSvcFacade interface {
	CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error)
	GetEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
	UpdateEntry(ctx context.Context, companyID string, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error)
	ApproveEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error)
	PostEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error)
	ReverseEntry(ctx context.Context, companyID string, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.JournalEntry, error)
	VoidEntry(ctx context.Context, companyID string, entryID string, req dto.VoidEntryRequest, userID string) (*domain.JournalEntry, error)
}

// LedgerSvcFacade is the read-only query surface consumer modules use instead
// of reaching into ledger storage directly.
type LedgerSvcFacade interface {
	ListPostedLines(ctx context.Context, companyID string, accountID string, params dto.ListPostedLinesParams) (*dto.ListPostedLinesResponse, error)
}
