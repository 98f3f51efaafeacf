package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dawingroup/dawinos-sub003/internal/apperrors"
	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
	"github.com/dawingroup/dawinos-sub003/internal/core/fiscal"
	portsrepo "github.com/dawingroup/dawinos-sub003/internal/core/ports/repositories"
	portssvc "github.com/dawingroup/dawinos-sub003/internal/core/ports/services"
	"github.com/dawingroup/dawinos-sub003/internal/dto"
	"github.com/dawingroup/dawinos-sub003/internal/middleware"
	"github.com/dawingroup/dawinos-sub003/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEntryNoLines         = fmt.Errorf("%w: entry must have at least one line", apperrors.ErrValidation)
	ErrNegativeLineAmount   = fmt.Errorf("%w: line amounts must be non-negative", apperrors.ErrValidation)
	ErrEmptyLine            = fmt.Errorf("%w: line must carry a debit or a credit", apperrors.ErrValidation)
	ErrEntryUnbalanced      = fmt.Errorf("%w: entry debits and credits do not balance", apperrors.ErrInvariant)
	ErrAccountNotPostable   = fmt.Errorf("%w: account is not postable", apperrors.ErrInvariant)
	ErrAccountInactive      = fmt.Errorf("%w: account is archived", apperrors.ErrValidation)
	ErrEntryNotDraft        = fmt.Errorf("%w: entry is no longer a draft", apperrors.ErrConflict)
	ErrEntryNotPostable     = fmt.Errorf("%w: entry cannot be posted from its current status", apperrors.ErrConflict)
	ErrEntryNotPosted       = fmt.Errorf("%w: only posted entries can be reversed", apperrors.ErrConflict)
	ErrEntryAlreadyReversed = fmt.Errorf("%w: entry has already been reversed", apperrors.ErrConflict)
	ErrEntryIsReversal      = fmt.Errorf("%w: a reversing entry cannot itself be reversed", apperrors.ErrConflict)
	ErrEntryNotVoidable     = fmt.Errorf("%w: only draft or approved entries can be voided", apperrors.ErrConflict)
	ErrFiscalYearChange     = fmt.Errorf("%w: entry date cannot move across fiscal years; create a new entry instead", apperrors.ErrValidation)
)

// journalService implements the JournalSvcFacade interface.
type journalService struct {
	journalRepo      portsrepo.JournalRepositoryFacade
	accountSvc       portssvc.AccountSvcFacade
	currencySvc      portssvc.CurrencySvcFacade
	fiscalStartMonth time.Month
}

// JournalServiceOption is a functional option for configuring the journal service.
type JournalServiceOption func(*journalService)

// WithCurrencyService enables exchange-rate defaulting for foreign-currency entries.
func WithCurrencyService(svc portssvc.CurrencySvcFacade) JournalServiceOption {
	return func(s *journalService) {
		s.currencySvc = svc
	}
}

// NewJournalService creates the journal entry store.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountSvc portssvc.AccountSvcFacade, fiscalStartMonth time.Month, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo:      journalRepo,
		accountSvc:       accountSvc,
		fiscalStartMonth: fiscalStartMonth,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure journalService implements the JournalSvcFacade interface.
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines validates the requested lines against the account registry and
// returns domain lines with account code/name snapshotted.
func (s *journalService) buildLines(ctx context.Context, companyID string, entryID string, reqLines []dto.EntryLineRequest) ([]domain.JournalLine, map[string]domain.Account, error) {
	if len(reqLines) == 0 {
		return nil, nil, ErrEntryNoLines
	}

	accountIDs := make([]string, 0, len(reqLines))
	for _, line := range reqLines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return nil, nil, fmt.Errorf("%w: account %s", ErrNegativeLineAmount, line.AccountID)
		}
		if line.Debit.IsZero() && line.Credit.IsZero() {
			return nil, nil, fmt.Errorf("%w: account %s", ErrEmptyLine, line.AccountID)
		}
		accountIDs = append(accountIDs, line.AccountID)
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, uniqueStrings(accountIDs))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve line accounts: %w", err)
	}

	lines := make([]domain.JournalLine, len(reqLines))
	for i, reqLine := range reqLines {
		account, found := accounts[reqLine.AccountID]
		if !found {
			return nil, nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, reqLine.AccountID)
		}
		if account.Status != domain.AccountActive {
			return nil, nil, fmt.Errorf("%w: account %s", ErrAccountInactive, account.Code)
		}
		if !account.IsPostable {
			return nil, nil, fmt.Errorf("%w: account %s", ErrAccountNotPostable, account.Code)
		}

		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   account.AccountID,
			AccountCode: account.Code, // Snapshot: later renames must not rewrite history
			AccountName: account.Name,
			Description: reqLine.Description,
			Debit:       reqLine.Debit,
			Credit:      reqLine.Credit,
			Department:  reqLine.Department,
			Project:     reqLine.Project,
			CostCenter:  reqLine.CostCenter,
		}
	}
	return lines, accounts, nil
}

// resolveRate determines the exchange rate for an entry.
func (s *journalService) resolveRate(ctx context.Context, companyID string, currencyCode string, date time.Time, explicit *decimal.Decimal) (decimal.Decimal, error) {
	if explicit != nil {
		if explicit.IsZero() || explicit.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
		}
		return *explicit, nil
	}
	if s.currencySvc != nil {
		return s.currencySvc.ResolveRate(ctx, companyID, currencyCode, date)
	}
	return decimal.NewFromInt(1), nil
}

// checkBalanced enforces the fundamental accounting identity within tolerance.
func checkBalanced(entry *domain.JournalEntry) error {
	if !entry.IsBalanced {
		return fmt.Errorf("%w: debits %s, credits %s",
			ErrEntryUnbalanced, entry.TotalDebits.String(), entry.TotalCredits.String())
	}
	return nil
}

func (s *journalService) CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entryID := uuid.NewString()
	lines, _, err := s.buildLines(ctx, companyID, entryID, req.Lines)
	if err != nil {
		return nil, err
	}

	rate, err := s.resolveRate(ctx, companyID, req.CurrencyCode, req.Date, req.ExchangeRate)
	if err != nil {
		return nil, err
	}

	fiscalYear, fiscalPeriod, err := fiscal.YearPeriod(req.Date, s.fiscalStartMonth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		EntryID:      entryID,
		CompanyID:    companyID,
		EntryType:    domain.EntryStandard,
		Date:         req.Date,
		FiscalYear:   fiscalYear,
		FiscalPeriod: fiscalPeriod,
		CurrencyCode: req.CurrencyCode,
		ExchangeRate: rate,
		Description:  req.Description,
		Status:       domain.Draft,
		Lines:        lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	entry.ComputeTotals()

	if err := checkBalanced(&entry); err != nil {
		return nil, err
	}

	journalNumber, err := s.journalRepo.SaveEntry(ctx, entry)
	if err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}
	entry.JournalNumber = journalNumber

	logger.Info("Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("journal_number", journalNumber),
		slog.Int("fiscal_year", fiscalYear),
		slog.Int("fiscal_period", fiscalPeriod))
	return &entry, nil
}

// loadEntry fetches an entry and enforces company scoping.
func (s *journalService) loadEntry(ctx context.Context, companyID string, entryID string, withLines bool) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.CompanyID != companyID {
		// Obscure existence from other companies.
		return nil, apperrors.ErrNotFound
	}
	if withLines {
		lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
		if err != nil {
			return nil, fmt.Errorf("failed to load entry lines: %w", err)
		}
		entry.Lines = lines
	}
	return entry, nil
}

func (s *journalService) GetEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	return s.loadEntry(ctx, companyID, entryID, true)
}

func (s *journalService) ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntriesByCompany(ctx, companyID, params.FiscalYear, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list journal entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	responses := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToEntryResponse(&entries[i])
	}
	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

func (s *journalService) UpdateEntry(ctx context.Context, companyID string, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.loadEntry(ctx, companyID, entryID, true)
	if err != nil {
		return nil, err
	}
	if !entry.Mutable() {
		return nil, fmt.Errorf("%w: status is %s", ErrEntryNotDraft, entry.Status)
	}

	if req.Date != nil {
		fiscalYear, fiscalPeriod, err := fiscal.YearPeriod(*req.Date, s.fiscalStartMonth)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		// The journal number embeds the fiscal year of creation; moving an
		// entry to another year would orphan its sequence slot.
		if fiscalYear != entry.FiscalYear {
			return nil, ErrFiscalYearChange
		}
		entry.Date = *req.Date
		entry.FiscalPeriod = fiscalPeriod
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.CurrencyCode != nil {
		entry.CurrencyCode = *req.CurrencyCode
	}
	if req.ExchangeRate != nil || req.CurrencyCode != nil {
		rate, err := s.resolveRate(ctx, companyID, entry.CurrencyCode, entry.Date, req.ExchangeRate)
		if err != nil {
			return nil, err
		}
		entry.ExchangeRate = rate
	}

	replaceLines := false
	if req.Lines != nil {
		lines, _, err := s.buildLines(ctx, companyID, entry.EntryID, *req.Lines)
		if err != nil {
			return nil, err
		}
		entry.Lines = lines
		replaceLines = true
	}

	entry.ComputeTotals()
	if err := checkBalanced(entry); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if err := s.journalRepo.UpdateEntry(ctx, *entry, replaceLines); err != nil {
		logger.Error("Failed to update journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update journal entry: %w", err)
	}

	logger.Info("Journal entry updated", slog.String("entry_id", entryID), slog.Bool("lines_replaced", replaceLines))
	return entry, nil
}

func (s *journalService) ApproveEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.loadEntry(ctx, companyID, entryID, false)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: status is %s", ErrEntryNotDraft, entry.Status)
	}

	now := time.Now().UTC()
	event := domain.ApprovalEvent{Action: "APPROVED", ActedBy: userID, ActedAt: now}
	if err := s.journalRepo.UpdateEntryStatus(ctx, entryID, []domain.EntryStatus{domain.Draft}, domain.Approved, &event, userID, now); err != nil {
		logger.Error("Failed to approve journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}

	entry.Status = domain.Approved
	entry.Approvals = append(entry.Approvals, event)
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	logger.Info("Journal entry approved", slog.String("entry_id", entryID))
	return entry, nil
}

// balanceChanges aggregates per-account snapshot deltas for a set of lines.
// The functional component is the oriented net movement converted at the
// entry's exchange rate.
func balanceChanges(lines []domain.JournalLine, accounts map[string]domain.Account, rate decimal.Decimal) (map[string]portsrepo.BalanceChange, error) {
	changes := make(map[string]portsrepo.BalanceChange)
	for _, line := range lines {
		account, found := accounts[line.AccountID]
		if !found {
			return nil, fmt.Errorf("%w: account %s missing during balance calculation", apperrors.ErrInternal, line.AccountID)
		}
		oriented, err := accounting.SignedLineAmount(line, account.AccountType)
		if err != nil {
			return nil, err
		}
		change := changes[line.AccountID]
		change.Debit = change.Debit.Add(line.Debit)
		change.Credit = change.Credit.Add(line.Credit)
		change.Functional = change.Functional.Add(oriented.Mul(rate))
		changes[line.AccountID] = change
	}
	return changes, nil
}

func (s *journalService) PostEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.loadEntry(ctx, companyID, entryID, true)
	if err != nil {
		return nil, err
	}
	if !entry.Postable() {
		return nil, fmt.Errorf("%w: status is %s", ErrEntryNotPostable, entry.Status)
	}
	if err := checkBalanced(entry); err != nil {
		// A draft should never become unbalanced, but posting is the last
		// line of defense for the accounting identity.
		return nil, err
	}

	accountIDs := make([]string, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve accounts for posting: %w", err)
	}

	changes, err := balanceChanges(entry.Lines, accounts, entry.ExchangeRate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.journalRepo.PostEntry(ctx, *entry, changes, userID, now); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to post journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.PostedBy = userID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	logger.Info("Journal entry posted",
		slog.String("entry_id", entryID),
		slog.String("journal_number", entry.JournalNumber),
		slog.Int("line_count", len(entry.Lines)))
	return entry, nil
}

func (s *journalService) ReverseEntry(ctx context.Context, companyID string, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.loadEntry(ctx, companyID, entryID, true)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: status is %s", ErrEntryNotPosted, original.Status)
	}
	if original.ReversedByID != nil {
		return nil, fmt.Errorf("%w: by entry %s", ErrEntryAlreadyReversed, *original.ReversedByID)
	}
	if original.EntryType == domain.EntryReversing {
		return nil, ErrEntryIsReversal
	}

	fiscalYear, fiscalPeriod, err := fiscal.YearPeriod(req.Date, s.fiscalStartMonth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	now := time.Now().UTC()
	reversingID := uuid.NewString()

	description := fmt.Sprintf("Reversal of %s", original.JournalNumber)
	if req.Reason != "" {
		description = fmt.Sprintf("%s: %s", description, req.Reason)
	}

	reversing := domain.JournalEntry{
		EntryID:      reversingID,
		CompanyID:    companyID,
		EntryType:    domain.EntryReversing,
		Date:         req.Date, // May fall in a different fiscal period; intentional
		FiscalYear:   fiscalYear,
		FiscalPeriod: fiscalPeriod,
		CurrencyCode: original.CurrencyCode,
		ExchangeRate: original.ExchangeRate,
		Description:  description,
		Status:       domain.Posted,
		ReversalOfID: &original.EntryID,
		PostedAt:     &now,
		PostedBy:     userID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	reversing.Lines = make([]domain.JournalLine, len(original.Lines))
	accountIDs := make([]string, 0, len(original.Lines))
	for i, line := range original.Lines {
		accountIDs = append(accountIDs, line.AccountID)
		reversing.Lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     reversingID,
			AccountID:   line.AccountID,
			AccountCode: line.AccountCode,
			AccountName: line.AccountName,
			Description: line.Description,
			Debit:       line.Credit, // Swapped
			Credit:      line.Debit,
			Department:  line.Department,
			Project:     line.Project,
			CostCenter:  line.CostCenter,
		}
	}
	reversing.ComputeTotals()

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve accounts for reversal: %w", err)
	}
	changes, err := balanceChanges(reversing.Lines, accounts, reversing.ExchangeRate)
	if err != nil {
		return nil, err
	}

	journalNumber, err := s.journalRepo.SaveReversal(ctx, reversing, changes, original.EntryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to save reversal", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}
	reversing.JournalNumber = journalNumber

	logger.Info("Journal entry reversed",
		slog.String("original_entry_id", original.EntryID),
		slog.String("reversing_entry_id", reversingID),
		slog.String("journal_number", journalNumber))
	return &reversing, nil
}

func (s *journalService) VoidEntry(ctx context.Context, companyID string, entryID string, req dto.VoidEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Reason == "" {
		return nil, fmt.Errorf("%w: void reason is required", apperrors.ErrValidation)
	}

	entry, err := s.loadEntry(ctx, companyID, entryID, false)
	if err != nil {
		return nil, err
	}
	if !entry.Postable() {
		// Posted entries must be reversed, never voided; void entries stay void.
		return nil, fmt.Errorf("%w: status is %s", ErrEntryNotVoidable, entry.Status)
	}

	now := time.Now().UTC()
	event := domain.ApprovalEvent{Action: "VOIDED", Reason: req.Reason, ActedBy: userID, ActedAt: now}
	if err := s.journalRepo.UpdateEntryStatus(ctx, entryID, []domain.EntryStatus{domain.Draft, domain.Approved}, domain.Void, &event, userID, now); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to void journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	entry.Status = domain.Void
	entry.Approvals = append(entry.Approvals, event)
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	logger.Info("Journal entry voided", slog.String("entry_id", entryID))
	return entry, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
