package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferRequest describes a movement of funds between two accounts.
type TransferRequest struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
}

// NewTransferRequest creates a transfer request.
func NewTransferRequest(fromAccountID, toAccountID string, amount decimal.Decimal) TransferRequest {
	return TransferRequest{
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		Amount:        amount,
	}
}

// SameAccount reports whether source and destination are the same account.
func (r TransferRequest) SameAccount() bool {
	return r.FromAccountID == r.ToAccountID
}

// IsPositiveAmount reports whether the amount is greater than zero.
func (r TransferRequest) IsPositiveAmount() bool {
	return r.Amount.IsPositive()
}

// Validate checks the request before any account is resolved.
func (r TransferRequest) Validate() error {
	if r.SameAccount() {
		return &InvalidTransferRequestError{Reason: ErrSameAccount}
	}

	if !r.IsPositiveAmount() {
		return &InvalidTransferRequestError{Reason: ErrInvalidAmount}
	}

	if r.FromAccountID == "" || r.ToAccountID == "" {
		return &InvalidTransferRequestError{Reason: ErrInvalidAccountID}
	}

	return nil
}

// Transfer is the receipt of a committed transfer.
type Transfer struct {
	CreatedAt     time.Time
	ID            string
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
}

// Involves reports whether the transfer touched the given account.
func (t *Transfer) Involves(accountID string) bool {
	return t.FromAccountID == accountID || t.ToAccountID == accountID
}

// FormatAmount renders an amount keeping the scale it was given with,
// so 10.00 stays "10.00" rather than "10".
func FormatAmount(amount decimal.Decimal) string {
	if exp := amount.Exponent(); exp < 0 {
		return amount.StringFixed(-exp)
	}

	return amount.String()
}
