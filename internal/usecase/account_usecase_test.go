package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/fundledger/internal/adapter/repository/memory"
	"github.com/iho/fundledger/internal/domain"
	"github.com/iho/fundledger/internal/usecase"
	"github.com/iho/fundledger/internal/usecase/mocks"
)

func TestAccountUseCase_CreateAccount(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateAccountInput
		expectError error
	}{
		{
			name:  "valid account",
			input: usecase.CreateAccountInput{ID: "ID-A", OpeningBalance: amount("10.00")},
		},
		{
			name:  "zero balance",
			input: usecase.CreateAccountInput{ID: "ID-Z", OpeningBalance: decimal.Zero},
		},
		{
			name:        "empty id",
			input:       usecase.CreateAccountInput{ID: "", OpeningBalance: amount("1")},
			expectError: domain.ErrInvalidAccountID,
		},
		{
			name:        "negative balance",
			input:       usecase.CreateAccountInput{ID: "ID-N", OpeningBalance: amount("-1")},
			expectError: domain.ErrNegativeOpeningBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := usecase.NewAccountUseCase(memory.NewAccountRepository())

			account, err := uc.CreateAccount(context.Background(), tt.input)
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				assert.Nil(t, account)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.input.ID, account.ID())
			assert.True(t, account.Balance().Equal(tt.input.OpeningBalance))

			fetched, err := uc.GetAccount(context.Background(), tt.input.ID)
			require.NoError(t, err)
			assert.Same(t, account, fetched)
		})
	}
}

func TestAccountUseCase_CreateAccount_Duplicate(t *testing.T) {
	uc := usecase.NewAccountUseCase(memory.NewAccountRepository())
	ctx := context.Background()

	_, err := uc.CreateAccount(ctx, usecase.CreateAccountInput{ID: "ID-A", OpeningBalance: amount("10")})
	require.NoError(t, err)

	_, err = uc.CreateAccount(ctx, usecase.CreateAccountInput{ID: "ID-A", OpeningBalance: amount("20")})
	assert.ErrorIs(t, err, domain.ErrAccountExists)

	account, err := uc.GetAccount(ctx, "ID-A")
	require.NoError(t, err)
	assert.True(t, account.Balance().Equal(amount("10")))
}

func TestAccountUseCase_GetAccount_NotFound(t *testing.T) {
	uc := usecase.NewAccountUseCase(memory.NewAccountRepository())

	_, err := uc.GetAccount(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountUseCase_ListAccounts_ClampsPagination(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockAccountRepository(ctrl)
	repo.EXPECT().List(gomock.Any(), domain.DefaultPageSize, 0).Return(nil, nil)
	repo.EXPECT().List(gomock.Any(), domain.MaxPageSize, 5).Return(nil, nil)

	uc := usecase.NewAccountUseCase(repo)

	_, err := uc.ListAccounts(context.Background(), usecase.ListAccountsInput{Limit: 0, Offset: -3})
	require.NoError(t, err)

	_, err = uc.ListAccounts(context.Background(), usecase.ListAccountsInput{Limit: 1000, Offset: 5})
	require.NoError(t, err)
}

func TestAccountUseCase_ListAccounts_OrderedByID(t *testing.T) {
	uc := usecase.NewAccountUseCase(memory.NewAccountRepository())
	ctx := context.Background()

	for _, id := range []string{"ID-C", "ID-A", "ID-B"} {
		_, err := uc.CreateAccount(ctx, usecase.CreateAccountInput{ID: id, OpeningBalance: amount("1")})
		require.NoError(t, err)
	}

	accounts, err := uc.ListAccounts(ctx, usecase.ListAccountsInput{Limit: 2})
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "ID-A", accounts[0].ID())
	assert.Equal(t, "ID-B", accounts[1].ID())
}

func TestAccountUseCase_SeedAccounts(t *testing.T) {
	uc := usecase.NewAccountUseCase(memory.NewAccountRepository())

	accounts, err := uc.SeedAccounts(context.Background(), []string{"ID-A:10.00", " ID-B : 25.50 "})
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "ID-B", accounts[1].ID())
	assert.Equal(t, "25.50", domain.FormatAmount(accounts[1].Balance()))
}

func TestAccountUseCase_SeedAccounts_Errors(t *testing.T) {
	t.Run("malformed entry", func(t *testing.T) {
		uc := usecase.NewAccountUseCase(memory.NewAccountRepository())

		_, err := uc.SeedAccounts(context.Background(), []string{"ID-A"})
		assert.ErrorIs(t, err, domain.ErrInvalidSeedEntry)
	})

	t.Run("duplicate entry", func(t *testing.T) {
		uc := usecase.NewAccountUseCase(memory.NewAccountRepository())

		_, err := uc.SeedAccounts(context.Background(), []string{"ID-A:1", "ID-A:2"})
		assert.ErrorIs(t, err, domain.ErrAccountExists)
		assert.Contains(t, err.Error(), "ID-A")
	})

	t.Run("repository failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		boom := errors.New("write failed")
		repo := mocks.NewMockAccountRepository(ctrl)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(boom)

		uc := usecase.NewAccountUseCase(repo)

		_, err := uc.SeedAccounts(context.Background(), []string{"ID-A:1"})
		assert.ErrorIs(t, err, boom)
	})
}

func BenchmarkAccountUseCase_CreateAccount(b *testing.B) {
	uc := usecase.NewAccountUseCase(memory.NewAccountRepository())
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = uc.CreateAccount(ctx, usecase.CreateAccountInput{
			ID:             fmt.Sprintf("ID-%d", i),
			OpeningBalance: decimal.NewFromInt(100),
		})
	}
}
