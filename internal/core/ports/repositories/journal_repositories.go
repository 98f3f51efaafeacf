package repositories

import (
	"context"
	"time"

	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceChange is the per-account delta a posting applies to the balance
// snapshot. Debit and Credit are in the entry currency; Functional carries the
// reporting-currency equivalent of the net movement.
type BalanceChange struct {
	Debit      decimal.Decimal
	Credit     decimal.Decimal
	Functional decimal.Decimal
}

// EntryReader defines read operations for journal entries and lines.
type EntryReader interface {
	// FindEntryByID retrieves an entry without its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines of an entry in insertion order.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntriesByCompany retrieves a page of entries ordered by date
	// descending, using token-based pagination. Entries can be filtered to a
	// fiscal year (0 means all years).
	ListEntriesByCompany(ctx context.Context, companyID string, fiscalYear int, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// ListPostedLinesByAccount retrieves posted lines touching an account
	// within [from, to], ordered by entry date, entry ID then line ID,
	// paginated on the full three-part key.
	ListPostedLinesByAccount(ctx context.Context, companyID string, accountID string, from, to time.Time, limit int, nextToken *string) ([]domain.PostedLine, *string, error)

	// SumPostedLinesByAccount aggregates all posted lines of an account.
	// Used only by the explicit balance rebuild.
	SumPostedLinesByAccount(ctx context.Context, accountID string) (debit, credit, functional decimal.Decimal, err error)
}

// EntryWriter defines write operations for journal entries.
type EntryWriter interface {
	// SaveEntry persists a draft entry and its lines atomically, assigning
	// the next journal number for the entry's (company, fiscal year). The
	// assigned number is returned.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) (string, error)

	// UpdateEntry rewrites a draft entry's header and, when replaceLines is
	// set, its full line set, in one transaction.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry, replaceLines bool) error

	// UpdateEntryStatus transitions an entry between statuses with a
	// conditional write: the update only applies while the current status is
	// one of from, otherwise apperrors.ErrConflict is returned. An optional
	// approval event is appended to the entry's history.
	UpdateEntryStatus(ctx context.Context, entryID string, from []domain.EntryStatus, to domain.EntryStatus, event *domain.ApprovalEvent, userID string, at time.Time) error

	// PostEntry applies the balance changes to the affected accounts and
	// flips the entry to POSTED in a single transaction. The status flip is
	// conditional on the entry still being postable; a concurrent or repeated
	// post surfaces as apperrors.ErrConflict with no balance effect.
	PostEntry(ctx context.Context, entry domain.JournalEntry, changes map[string]BalanceChange, postedBy string, postedAt time.Time) error

	// SaveReversal persists an already-balanced reversing entry, posts it,
	// and marks the original entry REVERSED with two-way links, all in one
	// transaction. Fails with apperrors.ErrConflict if the original is no
	// longer POSTED or already has a reversal.
	SaveReversal(ctx context.Context, reversing domain.JournalEntry, changes map[string]BalanceChange, originalEntryID string) (string, error)
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	EntryReader
	EntryWriter
}
