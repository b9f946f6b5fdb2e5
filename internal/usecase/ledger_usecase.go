package usecase

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/fundledger/internal/domain"
)

var (
	// ErrInconsistentLedger is returned when balances do not add up.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: balances do not match opening balances")
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	accountRepo AccountRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(accountRepo AccountRepository) *LedgerUseCase {
	return &LedgerUseCase{
		accountRepo: accountRepo,
	}
}

// ConsistencyReport summarizes a consistency check.
type ConsistencyReport struct {
	Accounts            int
	TotalBalance        decimal.Decimal
	TotalOpeningBalance decimal.Decimal
	NegativeAccounts    []string
}

// Consistent reports whether funds were conserved and no balance is negative.
func (r *ConsistencyReport) Consistent() bool {
	return r.TotalBalance.Equal(r.TotalOpeningBalance) && len(r.NegativeAccounts) == 0
}

// CheckConsistency verifies that transfers only moved money around.
//
// Every account guard is held while balances are read, acquired in ascending
// id order like a transfer does, so no transfer is observed half applied.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	accounts, err := uc.allAccounts(ctx)
	if err != nil {
		return nil, err
	}

	for _, account := range accounts {
		account.Lock()
	}
	defer func() {
		for i := len(accounts) - 1; i >= 0; i-- {
			accounts[i].Unlock()
		}
	}()

	report := &ConsistencyReport{
		Accounts:            len(accounts),
		TotalBalance:        decimal.Zero,
		TotalOpeningBalance: decimal.Zero,
	}

	for _, account := range accounts {
		balance := account.Balance()

		report.TotalBalance = report.TotalBalance.Add(balance)
		report.TotalOpeningBalance = report.TotalOpeningBalance.Add(account.OpeningBalance())

		if balance.IsNegative() {
			report.NegativeAccounts = append(report.NegativeAccounts, account.ID())
		}
	}

	if !report.Consistent() {
		return report, ErrInconsistentLedger
	}

	return report, nil
}

// allAccounts reads one snapshot of the registry and returns it in guard
// order with duplicate ids removed. Locking the same guard twice would hang.
func (uc *LedgerUseCase) allAccounts(ctx context.Context) ([]*domain.Account, error) {
	snapshot, err := uc.accountRepo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(snapshot, func(i, j int) bool {
		return domain.CompareAccountIDs(snapshot[i].ID(), snapshot[j].ID()) < 0
	})

	accounts := make([]*domain.Account, 0, len(snapshot))
	for _, account := range snapshot {
		if n := len(accounts); n > 0 && accounts[n-1].ID() == account.ID() {
			continue
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}
