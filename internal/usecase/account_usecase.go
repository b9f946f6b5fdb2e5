package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/fundledger/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	ID             string
	OpeningBalance decimal.Decimal
}

// CreateAccount creates a new account.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	account, err := domain.NewAccount(input.ID, input.OpeningBalance)
	if err != nil {
		return nil, err
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts ordered by ID.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.accountRepo.List(ctx, limit, offset)
}

// SeedAccounts creates accounts from "id:balance" entries.
func (uc *AccountUseCase) SeedAccounts(ctx context.Context, entries []string) ([]*domain.Account, error) {
	accounts := make([]*domain.Account, 0, len(entries))

	for _, entry := range entries {
		id, balance, err := domain.ParseSeedAccount(entry)
		if err != nil {
			return nil, err
		}

		account, err := uc.CreateAccount(ctx, CreateAccountInput{ID: id, OpeningBalance: balance})
		if err != nil {
			return nil, fmt.Errorf("failed to seed account %s: %w", id, err)
		}

		accounts = append(accounts, account)
	}

	return accounts, nil
}
