package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fundledger/internal/domain"
)

// TransferAccount is the view of an account that a transfer moves funds
// between. Lock and Unlock give exclusive transfer-level access; Withdraw and
// Deposit must be safe for concurrent use on their own.
type TransferAccount interface {
	sync.Locker
	ID() string
	Withdraw(amount decimal.Decimal) error
	Deposit(amount decimal.Decimal) error
}

// AccountFinder resolves the accounts taking part in a transfer.
type AccountFinder interface {
	// FindAccount returns domain.ErrAccountNotFound when id is unknown.
	FindAccount(ctx context.Context, id string) (TransferAccount, error)
}

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	AccountFinder
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	// Snapshot returns every account ordered by id, read in one consistent pass.
	Snapshot(ctx context.Context) ([]*domain.Account, error)
}

// TransferRepository defines data access for committed transfers.
type TransferRepository interface {
	Create(ctx context.Context, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error)
}

// Notifier delivers notifications to account holders.
type Notifier interface {
	Notify(ctx context.Context, notification domain.Notification) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// TransferMetrics records transfer outcomes.
type TransferMetrics interface {
	TransferCompleted(amount decimal.Decimal, duration time.Duration)
	TransferFailed(errorType string)
	TransferRolledBack()
	NotificationFailed()
}

type nopMetrics struct{}

func (nopMetrics) TransferCompleted(decimal.Decimal, time.Duration) {}
func (nopMetrics) TransferFailed(string)                            {}
func (nopMetrics) TransferRolledBack()                              {}
func (nopMetrics) NotificationFailed()                              {}
