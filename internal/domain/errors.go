package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Account errors
	ErrAccountNotFound        = errors.New("account not found")
	ErrAccountExists          = errors.New("account already exists")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrInvalidAccountID       = errors.New("account id must not be empty")
	ErrNegativeOpeningBalance = errors.New("opening balance must not be negative")

	// Transfer errors
	ErrInvalidTransferRequest = errors.New("invalid transfer request")
	ErrSameAccount            = errors.New("fund transfer to same account is not allowed")
	ErrInvalidAmount          = errors.New("fund transfer amount should be greater than zero")
	ErrFundTransferFailed     = errors.New("fund transfer failed")
	ErrTransferNotFound       = errors.New("transfer not found")
)

// InvalidTransferRequestError is returned for a malformed transfer request.
type InvalidTransferRequestError struct {
	Reason error
}

func (e *InvalidTransferRequestError) Error() string {
	return e.Reason.Error()
}

func (e *InvalidTransferRequestError) Unwrap() []error {
	return []error{ErrInvalidTransferRequest, e.Reason}
}

// AccountNotFoundError is returned when an account id is absent from the registry.
type AccountNotFoundError struct {
	AccountID string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account with ID: %s doesnt exists", e.AccountID)
}

func (e *AccountNotFoundError) Unwrap() error {
	return ErrAccountNotFound
}

// InsufficientFundsError is returned when a withdrawal would leave the
// account with a negative balance.
type InsufficientFundsError struct {
	AccountID string
	Amount    decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient balance in account : %s, unable to withdraw amount: %s",
		e.AccountID, FormatAmount(e.Amount))
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// FundTransferFailedError is returned when the deposit step of a transfer
// failed. The source account has already been restored when it is returned.
type FundTransferFailedError struct {
	AccountID string
	Err       error
}

func (e *FundTransferFailedError) Error() string {
	return fmt.Sprintf("failed to transfer fund to account: %s", e.AccountID)
}

func (e *FundTransferFailedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFundTransferFailed}
	}

	return []error{ErrFundTransferFailed, e.Err}
}
