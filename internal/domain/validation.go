package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrAmountTooLarge   = errors.New("amount exceeds maximum allowed")
	ErrInvalidIDFormat  = errors.New("invalid ID format")
	ErrInvalidSeedEntry = errors.New("invalid seed account entry")
)

// Validation constants
const (
	MaxAccountIDLength    = 64
	MaxOpeningBalance     = "1000000000000" // 1 trillion
	DefaultPageSize       = 20
	MaxPageSize           = 100
	seedAccountSeparator  = ":"
	forbiddenIDCharacters = " \t\r\n/?#"
)

// ValidateAccountID validates an account identifier.
func ValidateAccountID(id string) error {
	if id == "" {
		return ErrInvalidAccountID
	}

	if len(id) > MaxAccountIDLength {
		return fmt.Errorf("%w: id exceeds %d characters", ErrInvalidIDFormat, MaxAccountIDLength)
	}

	// IDs end up in URL paths
	if strings.ContainsAny(id, forbiddenIDCharacters) {
		return fmt.Errorf("%w: id contains forbidden characters", ErrInvalidIDFormat)
	}

	return nil
}

// ValidateOpeningBalance validates the balance an account is created with.
func ValidateOpeningBalance(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return ErrNegativeOpeningBalance
	}

	maxBalance, _ := decimal.NewFromString(MaxOpeningBalance)
	if balance.GreaterThan(maxBalance) {
		return fmt.Errorf("%w: maximum opening balance is %s", ErrAmountTooLarge, MaxOpeningBalance)
	}

	return nil
}

// ParseSeedAccount parses an "id:balance" entry.
func ParseSeedAccount(entry string) (string, decimal.Decimal, error) {
	id, rawBalance, found := strings.Cut(strings.TrimSpace(entry), seedAccountSeparator)
	if !found {
		return "", decimal.Zero, fmt.Errorf("%w: %q is not in id:balance form", ErrInvalidSeedEntry, entry)
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(rawBalance))
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("%w: %q: %v", ErrInvalidSeedEntry, entry, err)
	}

	return strings.TrimSpace(id), balance, nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
