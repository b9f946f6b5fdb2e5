package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/fundledger/internal/domain"
	"github.com/iho/fundledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
// OpeningBalance accepts a JSON number or a decimal string.
type CreateAccountRequest struct {
	ID             string          `json:"id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// ToUseCaseInput converts to use case input. A missing balance opens at zero.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		ID:             r.ID,
		OpeningBalance: r.OpeningBalance,
	}
}

// CreateTransferRequest represents a request to create a transfer.
// Amount accepts a JSON number or a decimal string.
type CreateTransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// ToTransferRequest converts to a domain transfer request.
// A missing amount stays zero and is rejected by validation.
func (r *CreateTransferRequest) ToTransferRequest() domain.TransferRequest {
	return domain.NewTransferRequest(r.FromAccountID, r.ToAccountID, r.Amount)
}
