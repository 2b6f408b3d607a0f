package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SscSPs/sales_ledger/internal/apperrors"
	"github.com/SscSPs/sales_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/sales_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/sales_ledger/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, transaction_number, transaction_date, description, transaction_type, reference, reference_id, amount, currency, status, metadata, created_by, created_at`

const entryColumns = `transaction_id, position, account_id, account_code, debit, credit, description`

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryWithTx
}

// newPgxTransactionRepository creates a new repository for ledger transactions.
func newPgxTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryWithTx) *PgxTransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func toModelTransaction(t domain.Transaction) (models.Transaction, []models.Entry, error) {
	metadata, err := json.Marshal(t.Metadata)
	if err != nil {
		return models.Transaction{}, nil, fmt.Errorf("failed to encode transaction metadata: %w", err)
	}
	m := models.Transaction{
		TransactionID:     t.TransactionID,
		TransactionNumber: t.TransactionNumber,
		Date:              t.Date,
		Description:       t.Description,
		Type:              string(t.Type),
		Reference:         t.Reference,
		ReferenceID:       t.ReferenceID,
		Amount:            t.Amount,
		Currency:          t.Currency,
		Status:            string(t.Status),
		Metadata:          metadata,
		CreatedBy:         t.CreatedBy,
		CreatedAt:         t.CreatedAt,
	}
	entries := make([]models.Entry, len(t.Entries))
	for i, e := range t.Entries {
		entries[i] = models.Entry{
			TransactionID: t.TransactionID,
			Position:      i,
			AccountID:     e.AccountID,
			AccountCode:   string(e.AccountCode),
			Debit:         e.Debit,
			Credit:        e.Credit,
			Description:   e.Description,
		}
	}
	return m, entries, nil
}

func toDomainTransaction(m models.Transaction, entries []models.Entry) (domain.Transaction, error) {
	t := domain.Transaction{
		TransactionID:     m.TransactionID,
		TransactionNumber: m.TransactionNumber,
		Date:              m.Date,
		Description:       m.Description,
		Type:              domain.TransactionType(m.Type),
		Reference:         m.Reference,
		ReferenceID:       m.ReferenceID,
		Amount:            m.Amount,
		Currency:          m.Currency,
		Status:            domain.TransactionStatus(m.Status),
		CreatedBy:         m.CreatedBy,
		CreatedAt:         m.CreatedAt,
		Entries:           make([]domain.Entry, len(entries)),
	}
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &t.Metadata); err != nil {
			return domain.Transaction{}, fmt.Errorf("failed to decode metadata of %s: %w", m.TransactionNumber, err)
		}
	}
	for i, e := range entries {
		t.Entries[i] = domain.Entry{
			AccountID:   e.AccountID,
			AccountCode: domain.AccountCode(e.AccountCode),
			Debit:       e.Debit,
			Credit:      e.Credit,
			Description: e.Description,
		}
	}
	return t, nil
}

// PostTransaction allocates the transaction number, inserts the transaction and its entries,
// and moves every affected balance inside a single database transaction.
func (r *PgxTransactionRepository) PostTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	// 1. Allocate the number. Sequence values are never reused, so a rollback leaves a gap.
	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('transaction_number_seq');`).Scan(&seq); err != nil {
		return nil, persistenceError("failed to allocate transaction number", err)
	}
	txn.TransactionNumber = domain.FormatTransactionNumber(seq)

	modelTxn, modelEntries, err := toModelTransaction(txn)
	if err != nil {
		return nil, persistenceError("failed to map transaction", err)
	}

	// 2. Lock the affected accounts
	deltas := txn.BalanceDeltas()
	accountIDs := make([]string, 0, len(deltas))
	for id := range deltas {
		accountIDs = append(accountIDs, id)
	}
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return nil, persistenceError("failed to lock accounts for update", err)
	}

	// 3. Insert the transaction header
	insertTxn := `INSERT INTO transactions (` + transactionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
	_, err = tx.Exec(ctx, insertTxn,
		modelTxn.TransactionID,
		modelTxn.TransactionNumber,
		modelTxn.Date,
		modelTxn.Description,
		modelTxn.Type,
		modelTxn.Reference,
		modelTxn.ReferenceID,
		modelTxn.Amount,
		modelTxn.Currency,
		modelTxn.Status,
		modelTxn.Metadata,
		modelTxn.CreatedBy,
		modelTxn.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, persistenceError("transaction "+modelTxn.TransactionNumber+" already exists", apperrors.ErrDuplicate)
		}
		return nil, persistenceError("failed to insert transaction "+modelTxn.TransactionNumber, err)
	}

	// 4. Insert the entries
	batch := &pgx.Batch{}
	insertEntry := `INSERT INTO transaction_entries (` + entryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	for _, e := range modelEntries {
		batch.Queue(insertEntry, e.TransactionID, e.Position, e.AccountID, e.AccountCode, e.Debit, e.Credit, e.Description)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, persistenceError("failed to insert entries for "+modelTxn.TransactionNumber, err)
	}

	// 5. Apply the balance changes
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, deltas, txn.CreatedBy, txn.CreatedAt); err != nil {
		return nil, persistenceError("failed to update account balances", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &txn, nil
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.TransactionNumber,
		&m.Date,
		&m.Description,
		&m.Type,
		&m.Reference,
		&m.ReferenceID,
		&m.Amount,
		&m.Currency,
		&m.Status,
		&m.Metadata,
		&m.CreatedBy,
		&m.CreatedAt,
	)
	return m, err
}

// FindTransactionByNumber retrieves a transaction and its entries.
func (r *PgxTransactionRepository) FindTransactionByNumber(ctx context.Context, number string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_number = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", number, err)
	}

	entries, err := r.findEntries(ctx, []string{m.TransactionID})
	if err != nil {
		return nil, err
	}
	txn, err := toDomainTransaction(m, entries[m.TransactionID])
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// ListTransactionsByReference retrieves every transaction posted for a reference, oldest first.
func (r *PgxTransactionRepository) ListTransactionsByReference(ctx context.Context, reference string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference = $1 ORDER BY created_at, transaction_number;`
	rows, err := r.Pool.Query(ctx, query, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for reference %s: %w", reference, err)
	}
	defer rows.Close()

	headers := []models.Transaction{}
	ids := []string{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		headers = append(headers, m)
		ids = append(ids, m.TransactionID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	if len(headers) == 0 {
		return []domain.Transaction{}, nil
	}

	entries, err := r.findEntries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Transaction, 0, len(headers))
	for _, m := range headers {
		txn, err := toDomainTransaction(m, entries[m.TransactionID])
		if err != nil {
			return nil, err
		}
		out = append(out, txn)
	}
	return out, nil
}

func (r *PgxTransactionRepository) findEntries(ctx context.Context, transactionIDs []string) (map[string][]models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM transaction_entries WHERE transaction_id = ANY($1) ORDER BY transaction_id, position;`
	rows, err := r.Pool.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction entries: %w", err)
	}
	defer rows.Close()

	byTxn := make(map[string][]models.Entry, len(transactionIDs))
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.TransactionID, &e.Position, &e.AccountID, &e.AccountCode, &e.Debit, &e.Credit, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan transaction entry: %w", err)
		}
		byTxn[e.TransactionID] = append(byTxn[e.TransactionID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction entries: %w", err)
	}
	return byTxn, nil
}
