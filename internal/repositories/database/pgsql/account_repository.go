package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/sales_ledger/internal/apperrors"
	"github.com/SscSPs/sales_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/sales_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/sales_ledger/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, code, name, account_type, category, description, balance, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryWithTx
var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

// Helper to convert domain.Account to models.Account for DB storage
func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:   d.AccountID,
		Code:        string(d.Code),
		Name:        d.Name,
		AccountType: models.AccountType(d.AccountType),
		Category:    d.Category,
		Description: d.Description,
		Balance:     d.Balance,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		Code:        domain.AccountCode(m.Code),
		Name:        m.Name,
		AccountType: domain.AccountType(m.AccountType),
		Category:    m.Category,
		Description: m.Description,
		Balance:     m.Balance,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.Category,
		&m.Description,
		&m.Balance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindAccountByCode retrieves an account by its code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code domain.AccountCode) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, string(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	acc := toDomainAccount(m)
	return &acc, nil
}

// ListAccounts retrieves every account ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY code;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, toDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// CreateAccountIfAbsent inserts the account unless its code is taken, then returns the stored row.
// The unique index on code decides the winner when two callers race.
func (r *PgxAccountRepository) CreateAccountIfAbsent(ctx context.Context, account domain.Account) (*domain.Account, error) {
	m := toModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (code) DO NOTHING;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Code,
		m.Name,
		m.AccountType,
		m.Category,
		m.Description,
		m.Balance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return nil, fmt.Errorf("failed to create account %s: %w", m.Code, err)
	}

	return r.FindAccountByCode(ctx, account.Code)
}

// FindAccountsByIDsForUpdate retrieves multiple accounts by IDs and locks the rows for update.
// Rows are locked in account_id order so concurrent postings cannot deadlock.
// Must be called within a transaction.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`

	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs for update: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accountsMap[m.AccountID] = toDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	if len(accountsMap) != len(accountIDs) {
		missing := []string{}
		for _, id := range accountIDs {
			if _, found := accountsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}

	return accountsMap, nil
}

// UpdateAccountBalancesInTx adds each delta to its account balance within a transaction.
func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`

	batch := &pgx.Batch{}
	queued := 0
	for accountID, delta := range balanceChanges {
		if delta.IsZero() {
			continue
		}
		batch.Queue(query, accountID, delta, now, userID)
		queued++
	}
	if queued == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < queued; i++ {
		tag, err := br.Exec()
		if err != nil {
			return fmt.Errorf("failed to update account balance: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: account balance update matched no row", apperrors.ErrNotFound)
		}
	}
	return br.Close()
}
