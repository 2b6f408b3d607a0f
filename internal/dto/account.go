package dto

import (
	"time"

	"github.com/SscSPs/sales_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID     string             `json:"accountID"`
	Code          domain.AccountCode `json:"code"`
	Name          string             `json:"name"`
	AccountType   domain.AccountType `json:"accountType"`
	Category      string             `json:"category"`
	Description   string             `json:"description"`
	Balance       decimal.Decimal    `json:"balance"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Code:          acc.Code,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		Category:      acc.Category,
		Description:   acc.Description,
		Balance:       acc.Balance,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	list := make([]AccountResponse, len(accounts))
	for i := range accounts {
		list[i] = ToAccountResponse(&accounts[i])
	}
	return list
}
