package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/sales_ledger/internal/apperrors"
	"github.com/SscSPs/sales_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/sales_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates the account directory
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// GetOrCreate finds the account by code or creates it with a zero balance from its template.
// Concurrent callers for the same missing code end up with the same row, since the store enforces the unique code.
func (s *accountService) GetOrCreate(ctx context.Context, code domain.AccountCode) (*domain.Account, error) {
	template, ok := domain.SystemAccounts[code]
	if !ok {
		return nil, fmt.Errorf("%w: unknown account code %q", apperrors.ErrValidation, code)
	}

	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up account", slog.String("account_code", string(code)))
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}

	now := s.CurrentTime()
	candidate := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        code,
		Name:        template.Name,
		AccountType: template.AccountType,
		Category:    template.Category,
		Description: template.Description,
		Balance:     decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     domain.SystemUser,
			LastUpdatedAt: now,
			LastUpdatedBy: domain.SystemUser,
		},
	}

	account, err = s.accountRepo.CreateAccountIfAbsent(ctx, candidate)
	if err != nil {
		s.LogError(ctx, err, "Failed to create account", slog.String("account_code", string(code)))
		return nil, fmt.Errorf("failed to create account %s: %w", code, err)
	}

	if account.AccountID == candidate.AccountID {
		s.LogInfo(ctx, "System account created", slog.String("account_code", string(code)), slog.String("account_id", account.AccountID))
	}
	return account, nil
}

// Bootstrap makes sure every system account exists.
func (s *accountService) Bootstrap(ctx context.Context) error {
	for _, code := range domain.SystemAccountCodes() {
		if _, err := s.GetOrCreate(ctx, code); err != nil {
			return err
		}
	}
	return nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code domain.AccountCode) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		// Note: Don't log if error is ErrNotFound, as it's an expected outcome
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("account_code", string(code)))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}
