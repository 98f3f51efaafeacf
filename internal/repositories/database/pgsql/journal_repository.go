package pgsql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dawingroup/dawinos-sub003/internal/apperrors"
	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
	portsrepo "github.com/dawingroup/dawinos-sub003/internal/core/ports/repositories"
	"github.com/dawingroup/dawinos-sub003/internal/models"
	"github.com/dawingroup/dawinos-sub003/internal/utils/mapping"
	"github.com/dawingroup/dawinos-sub003/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const entryColumns = `entry_id, company_id, journal_number, entry_type, entry_date, fiscal_year, fiscal_period,
	currency_code, exchange_rate, description, status,
	total_debits, total_credits, functional_total_debits, functional_total_credits, is_balanced,
	reversal_of_id, reversed_by_id, posted_at, posted_by, approvals,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, account_code, account_name, description,
	debit, credit, department, project, cost_center`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// nextJournalNumber claims the next sequence slot for (company, fiscal year)
// inside tx. The upsert increments atomically under concurrent creators, so
// two entries can never share a number.
func nextJournalNumber(ctx context.Context, tx pgx.Tx, companyID string, fiscalYear int) (string, error) {
	var value int64
	err := tx.QueryRow(ctx, `
		INSERT INTO journal_sequences (company_id, fiscal_year, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, fiscal_year)
		DO UPDATE SET value = journal_sequences.value + 1
		RETURNING value;
	`, companyID, fiscalYear).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("failed to claim journal sequence for company %s year %d: %w", companyID, fiscalYear, err)
	}
	return fmt.Sprintf("JE-%d-%06d", fiscalYear, value), nil
}

// insertEntryTx inserts the entry header row inside tx.
func insertEntryTx(ctx context.Context, tx pgx.Tx, m models.JournalEntry) error {
	approvals, err := json.Marshal(m.Approvals)
	if err != nil {
		return fmt.Errorf("failed to marshal approvals for entry %s: %w", m.EntryID, err)
	}

	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25);
	`
	_, err = tx.Exec(ctx, query,
		m.EntryID,
		m.CompanyID,
		m.JournalNumber,
		m.EntryType,
		m.EntryDate,
		m.FiscalYear,
		m.FiscalPeriod,
		m.CurrencyCode,
		m.ExchangeRate,
		m.Description,
		m.Status,
		m.TotalDebits,
		m.TotalCredits,
		m.FunctionalTotalDebits,
		m.FunctionalTotalCredits,
		m.IsBalanced,
		m.ReversalOfID,
		m.ReversedByID,
		m.PostedAt,
		nullableString(m.PostedBy),
		approvals,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry %s: %w", m.EntryID, err)
	}
	return nil
}

// insertLinesTx batch-inserts the entry's lines inside tx.
func insertLinesTx(ctx context.Context, tx pgx.Tx, entryID string, lines []domain.JournalLine) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, line := range lines {
		m := mapping.ToModelJournalLine(line)
		batch.Queue(query,
			m.LineID,
			entryID,
			m.AccountID,
			m.AccountCode,
			m.AccountName,
			m.Description,
			m.Debit,
			m.Credit,
			m.Department,
			m.Project,
			m.CostCenter,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert lines for entry %s: %w", entryID, err)
	}
	return nil
}

// applyBalanceChangesTx locks the affected accounts in a stable order and
// applies the per-account deltas. Balance is recomputed from the new debit and
// credit totals with the account's own polarity, entirely in SQL.
func applyBalanceChangesTx(ctx context.Context, tx pgx.Tx, changes map[string]portsrepo.BalanceChange, at time.Time) error {
	accountIDs := make([]string, 0, len(changes))
	for accountID := range changes {
		accountIDs = append(accountIDs, accountID)
	}

	// Lock in primary key order so concurrent postings over overlapping
	// account sets cannot deadlock.
	rows, err := tx.Query(ctx, `
		SELECT account_id FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to lock accounts for posting: %w", err)
	}
	locked := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan locked account row: %w", err)
		}
		locked++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating locked account rows: %w", err)
	}
	if locked != len(accountIDs) {
		return fmt.Errorf("%w: account disappeared during posting", apperrors.ErrNotFound)
	}

	batch := &pgx.Batch{}
	query := `
		UPDATE accounts
		SET debit = debit + $2,
		    credit = credit + $3,
		    balance = CASE WHEN account_type IN ('ASSET', 'EXPENSE')
		                   THEN (debit + $2) - (credit + $3)
		                   ELSE (credit + $3) - (debit + $2) END,
		    functional_balance = functional_balance + $4,
		    balance_updated_at = $5
		WHERE account_id = $1;
	`
	for accountID, change := range changes {
		batch.Queue(query, accountID, change.Debit, change.Credit, change.Functional, at)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to apply balance changes: %w", err)
	}
	return nil
}

// SaveEntry persists a draft entry and its lines atomically, assigning the
// next journal number for the entry's (company, fiscal year).
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	journalNumber, err := nextJournalNumber(ctx, tx, entry.CompanyID, entry.FiscalYear)
	if err != nil {
		return "", err
	}
	entry.JournalNumber = journalNumber

	if err := insertEntryTx(ctx, tx, mapping.ToModelJournalEntry(entry)); err != nil {
		return "", err
	}
	if err := insertLinesTx(ctx, tx, entry.EntryID, entry.Lines); err != nil {
		return "", err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return journalNumber, nil
}

// UpdateEntry rewrites a draft entry's header and, when replaceLines is set,
// its full line set. The write is conditional on the row still being a draft.
func (r *PgxJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry, replaceLines bool) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelJournalEntry(entry)
	tag, err := tx.Exec(ctx, `
		UPDATE journal_entries
		SET entry_date = $2, fiscal_year = $3, fiscal_period = $4, currency_code = $5,
		    exchange_rate = $6, description = $7,
		    total_debits = $8, total_credits = $9,
		    functional_total_debits = $10, functional_total_credits = $11, is_balanced = $12,
		    last_updated_at = $13, last_updated_by = $14
		WHERE entry_id = $1 AND status = 'DRAFT';
	`,
		m.EntryID,
		m.EntryDate,
		m.FiscalYear,
		m.FiscalPeriod,
		m.CurrencyCode,
		m.ExchangeRate,
		m.Description,
		m.TotalDebits,
		m.TotalCredits,
		m.FunctionalTotalDebits,
		m.FunctionalTotalCredits,
		m.IsBalanced,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update journal entry %s: %w", m.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		// Posted, voided or deleted since the caller read it.
		return fmt.Errorf("%w: entry %s is no longer a draft", apperrors.ErrConflict, m.EntryID)
	}

	if replaceLines {
		if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, m.EntryID); err != nil {
			return fmt.Errorf("failed to clear lines for entry %s: %w", m.EntryID, err)
		}
		if err := insertLinesTx(ctx, tx, m.EntryID, entry.Lines); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// UpdateEntryStatus transitions an entry between statuses with a conditional
// write. The approval event, when present, is appended to the JSONB history in
// the same statement.
func (r *PgxJournalRepository) UpdateEntryStatus(ctx context.Context, entryID string, from []domain.EntryStatus, to domain.EntryStatus, event *domain.ApprovalEvent, userID string, at time.Time) error {
	fromStatuses := make([]string, len(from))
	for i, status := range from {
		fromStatuses[i] = string(status)
	}

	var eventJSON []byte
	if event != nil {
		marshaled, err := json.Marshal(models.ApprovalEvent{
			Action:  event.Action,
			Reason:  event.Reason,
			ActedBy: event.ActedBy,
			ActedAt: event.ActedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal approval event for entry %s: %w", entryID, err)
		}
		eventJSON = marshaled
	}

	var tag pgconn.CommandTag
	var err error
	if eventJSON != nil {
		tag, err = r.Pool.Exec(ctx, `
			UPDATE journal_entries
			SET status = $2, approvals = approvals || $3::jsonb, last_updated_at = $4, last_updated_by = $5
			WHERE entry_id = $1 AND status = ANY($6);
		`, entryID, string(to), eventJSON, at, userID, fromStatuses)
	} else {
		tag, err = r.Pool.Exec(ctx, `
			UPDATE journal_entries
			SET status = $2, last_updated_at = $3, last_updated_by = $4
			WHERE entry_id = $1 AND status = ANY($5);
		`, entryID, string(to), at, userID, fromStatuses)
	}
	if err != nil {
		return fmt.Errorf("failed to update status of entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s left status %v concurrently", apperrors.ErrConflict, entryID, from)
	}
	return nil
}

// PostEntry flips the entry to POSTED and applies the balance changes in one
// transaction. The flip is conditional; losing the race costs nothing.
func (r *PgxJournalRepository) PostEntry(ctx context.Context, entry domain.JournalEntry, changes map[string]portsrepo.BalanceChange, postedBy string, postedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `
		UPDATE journal_entries
		SET status = 'POSTED', posted_at = $2, posted_by = $3, last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND status IN ('DRAFT', 'APPROVED');
	`, entry.EntryID, postedAt, postedBy)
	if err != nil {
		return fmt.Errorf("failed to flip entry %s to posted: %w", entry.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		// A concurrent post, void or reversal got there first.
		return fmt.Errorf("%w: entry %s is no longer postable", apperrors.ErrConflict, entry.EntryID)
	}

	if err := applyBalanceChangesTx(ctx, tx, changes, postedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveReversal persists an already-posted reversing entry, applies its balance
// changes and marks the original REVERSED, all in one transaction.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversing domain.JournalEntry, changes map[string]portsrepo.BalanceChange, originalEntryID string) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	// Claim the original first: the conditional write is the guard against a
	// double reversal.
	tag, err := tx.Exec(ctx, `
		UPDATE journal_entries
		SET status = 'REVERSED', reversed_by_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND status = 'POSTED' AND reversed_by_id IS NULL;
	`, originalEntryID, reversing.EntryID, reversing.CreatedAt, reversing.CreatedBy)
	if err != nil {
		return "", fmt.Errorf("failed to mark entry %s reversed: %w", originalEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return "", fmt.Errorf("%w: entry %s already reversed or no longer posted", apperrors.ErrConflict, originalEntryID)
	}

	journalNumber, err := nextJournalNumber(ctx, tx, reversing.CompanyID, reversing.FiscalYear)
	if err != nil {
		return "", err
	}
	reversing.JournalNumber = journalNumber

	if err := insertEntryTx(ctx, tx, mapping.ToModelJournalEntry(reversing)); err != nil {
		return "", err
	}
	if err := insertLinesTx(ctx, tx, reversing.EntryID, reversing.Lines); err != nil {
		return "", err
	}
	if err := applyBalanceChangesTx(ctx, tx, changes, reversing.CreatedAt); err != nil {
		return "", err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return journalNumber, nil
}

// scanEntry scans one entry header row.
func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var m models.JournalEntry
	var postedBy sql.NullString
	var approvals []byte
	err := row.Scan(
		&m.EntryID,
		&m.CompanyID,
		&m.JournalNumber,
		&m.EntryType,
		&m.EntryDate,
		&m.FiscalYear,
		&m.FiscalPeriod,
		&m.CurrencyCode,
		&m.ExchangeRate,
		&m.Description,
		&m.Status,
		&m.TotalDebits,
		&m.TotalCredits,
		&m.FunctionalTotalDebits,
		&m.FunctionalTotalCredits,
		&m.IsBalanced,
		&m.ReversalOfID,
		&m.ReversedByID,
		&m.PostedAt,
		&postedBy,
		&approvals,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	if postedBy.Valid {
		m.PostedBy = postedBy.String
	}
	if len(approvals) > 0 {
		if err := json.Unmarshal(approvals, &m.Approvals); err != nil {
			return domain.JournalEntry{}, fmt.Errorf("failed to unmarshal approvals for entry %s: %w", m.EntryID, err)
		}
	}
	return mapping.ToDomainJournalEntry(m), nil
}

// FindEntryByID retrieves an entry header without its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}
	return &entry, nil
}

// FindLinesByEntryID retrieves all lines of an entry in insertion order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_id;`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		var m models.JournalLine
		err := rows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.AccountID,
			&m.AccountCode,
			&m.AccountName,
			&m.Description,
			&m.Debit,
			&m.Credit,
			&m.Department,
			&m.Project,
			&m.CostCenter,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for entry %s: %w", entryID, err)
		}
		lines = append(lines, mapping.ToDomainJournalLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for entry %s: %w", entryID, err)
	}
	return lines, nil
}

// ListEntriesByCompany retrieves a page of entries ordered newest first, with
// (entry_date, entry_id) as the pagination cursor.
func (r *PgxJournalRepository) ListEntriesByCompany(ctx context.Context, companyID string, fiscalYear int, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := []any{companyID}
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE company_id = $1`

	if fiscalYear != 0 {
		args = append(args, fiscalYear)
		query += fmt.Sprintf(" AND fiscal_year = $%d", len(args))
	}

	if nextToken != nil && *nextToken != "" {
		cursorDate, cursorID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursorDate, cursorID)
		query += fmt.Sprintf(" AND (entry_date, entry_id) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, limit+1) // One extra row decides whether a next page exists.
	query += fmt.Sprintf(" ORDER BY entry_date DESC, entry_id DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query entries for company %s: %w", companyID, err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	var newNextToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeToken(last.Date, last.EntryID)
		newNextToken = &token
	}
	return entries, newNextToken, nil
}

// postedStatuses are the entry statuses whose lines are part of the ledger.
// A reversed entry's lines stay in history; the reversal offsets them.
const postedStatuses = `('POSTED', 'REVERSED')`

// ListPostedLinesByAccount retrieves posted lines touching an account within
// [from, to], oldest first, paginated on (entry_date, entry_id).
func (r *PgxJournalRepository) ListPostedLinesByAccount(ctx context.Context, companyID string, accountID string, from, to time.Time, limit int, nextToken *string) ([]domain.PostedLine, *string, error) {
	args := []any{companyID, accountID, from, to}
	query := `
		SELECT l.line_id, l.entry_id, e.journal_number, e.entry_date, e.fiscal_year, e.fiscal_period,
		       l.account_id, l.account_code, l.account_name, l.description, l.debit, l.credit
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.company_id = $1 AND l.account_id = $2
		  AND e.status IN ` + postedStatuses + `
		  AND e.entry_date BETWEEN $3 AND $4`

	if nextToken != nil && *nextToken != "" {
		// The cursor carries the line ID too: a page boundary can fall in the
		// middle of a multi-line entry, and a two-part cursor would skip that
		// entry's remaining lines.
		cursorDate, cursorEntryID, cursorLineID, err := pagination.DecodeLineToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursorDate, cursorEntryID, cursorLineID)
		query += fmt.Sprintf(" AND (e.entry_date, e.entry_id, l.line_id) > ($%d, $%d, $%d)", len(args)-2, len(args)-1, len(args))
	}

	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY e.entry_date, e.entry_id, l.line_id LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query posted lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	lines := []domain.PostedLine{}
	for rows.Next() {
		var line domain.PostedLine
		err := rows.Scan(
			&line.LineID,
			&line.EntryID,
			&line.JournalNumber,
			&line.Date,
			&line.FiscalYear,
			&line.FiscalPeriod,
			&line.AccountID,
			&line.AccountCode,
			&line.AccountName,
			&line.Description,
			&line.Debit,
			&line.Credit,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan posted line row: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating posted line rows: %w", err)
	}

	var newNextToken *string
	if len(lines) > limit {
		lines = lines[:limit]
		last := lines[len(lines)-1]
		token := pagination.EncodeLineToken(last.Date, last.EntryID, last.LineID)
		newNextToken = &token
	}
	return lines, newNextToken, nil
}

// SumPostedLinesByAccount aggregates every ledger line of an account. The
// functional component is the unoriented net movement (debit minus credit)
// converted at each entry's rate; the caller orients it.
func (r *PgxJournalRepository) SumPostedLinesByAccount(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit), 0),
		       COALESCE(SUM(l.credit), 0),
		       COALESCE(SUM((l.debit - l.credit) * e.exchange_rate), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND e.status IN ` + postedStatuses + `;`

	var debit, credit, functional decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&debit, &credit, &functional); err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("failed to aggregate lines for account %s: %w", accountID, err)
	}
	return debit, credit, functional, nil
}
