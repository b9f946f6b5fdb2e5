package domain

import (
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a ledger account that holds a non-negative balance.
//
// An account owns two locks. mu guards the balance for the duration of a
// single Deposit or Withdraw. guard is the transfer-level lock exposed through
// Lock and Unlock; a transfer holds the guards of both of its accounts while it
// applies its withdraw and deposit. guard is always acquired before mu and mu
// is never held while acquiring anything else.
type Account struct {
	guard sync.Mutex

	mu             sync.RWMutex
	id             string
	balance        decimal.Decimal
	openingBalance decimal.Decimal
	version        int64
	createdAt      time.Time
	updatedAt      time.Time
}

// NewAccount creates an account with the given opening balance.
func NewAccount(id string, openingBalance decimal.Decimal) (*Account, error) {
	if err := ValidateAccountID(id); err != nil {
		return nil, err
	}

	if err := ValidateOpeningBalance(openingBalance); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Account{
		id:             id,
		balance:        openingBalance,
		openingBalance: openingBalance,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ID returns the account identifier.
func (a *Account) ID() string {
	return a.id
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.balance
}

// OpeningBalance returns the balance the account was created with.
func (a *Account) OpeningBalance() decimal.Decimal {
	return a.openingBalance
}

// Version returns the number of mutations applied to the account.
func (a *Account) Version() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.version
}

// CreatedAt returns the creation time.
func (a *Account) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt returns the time of the last applied mutation.
func (a *Account) UpdatedAt() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.updatedAt
}

// Lock acquires the transfer-level guard.
func (a *Account) Lock() {
	a.guard.Lock()
}

// Unlock releases the transfer-level guard.
func (a *Account) Unlock() {
	a.guard.Unlock()
}

// Deposit adds amount to the balance. Negative amounts are ignored.
// The returned error is always nil for Account.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !isValidAmount(amount) {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.balance = a.balance.Add(amount)
	a.touch()

	return nil
}

// Withdraw subtracts amount from the balance. Negative amounts are ignored.
// It fails with *InsufficientFundsError and leaves the balance untouched when
// the result would be negative.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !isValidAmount(amount) {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	newBalance := a.balance.Sub(amount)
	if newBalance.IsNegative() {
		return &InsufficientFundsError{AccountID: a.id, Amount: amount}
	}

	a.balance = newBalance
	a.touch()

	return nil
}

// touch must be called with mu held.
func (a *Account) touch() {
	a.version++
	a.updatedAt = time.Now().UTC()
}

func isValidAmount(amount decimal.Decimal) bool {
	return !amount.IsNegative()
}

// CompareAccountIDs orders account identifiers lexicographically.
func CompareAccountIDs(a, b string) int {
	return strings.Compare(a, b)
}
