package pgsql

import (
	portsrepo "github.com/SscSPs/sales_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool, accountRepo)
	settingsRepo := newPgxCurrencySettingsRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:          accountRepo,
		TransactionRepo:      transactionRepo,
		CurrencySettingsRepo: settingsRepo,
	}
}
