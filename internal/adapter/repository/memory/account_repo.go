package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/iho/fundledger/internal/domain"
	"github.com/iho/fundledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository in memory.
// It owns the canonical account instances; callers share them.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Create registers a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.ID()]; exists {
		return domain.ErrAccountExists
	}

	r.accounts[account.ID()] = account

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return account, nil
}

// FindAccount resolves an account for a transfer.
func (r *AccountRepository) FindAccount(ctx context.Context, id string) (usecase.TransferAccount, error) {
	account, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return account, nil
}

// List lists accounts ordered by ID.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.sortedIDs()

	if offset >= len(ids) {
		return []*domain.Account{}, nil
	}

	end := min(offset+limit, len(ids))

	accounts := make([]*domain.Account, 0, end-offset)
	for _, id := range ids[offset:end] {
		accounts = append(accounts, r.accounts[id])
	}

	return accounts, nil
}

// Snapshot returns every account ordered by ID under a single read lock.
func (r *AccountRepository) Snapshot(ctx context.Context) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.sortedIDs()

	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		accounts = append(accounts, r.accounts[id])
	}

	return accounts, nil
}

// sortedIDs must be called with mu held.
func (r *AccountRepository) sortedIDs() []string {
	ids := make([]string, 0, len(r.accounts))
	for id := range r.accounts {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}
