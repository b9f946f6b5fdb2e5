package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/iho/fundledger/internal/domain"
)

// TransferRepository keeps the history of committed transfers in memory.
type TransferRepository struct {
	mu        sync.RWMutex
	transfers []*domain.Transfer
	byID      map[string]*domain.Transfer
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository() *TransferRepository {
	return &TransferRepository{
		byID: make(map[string]*domain.Transfer),
	}
}

// Create records a transfer.
func (r *TransferRepository) Create(ctx context.Context, transfer *domain.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[transfer.ID]; exists {
		return fmt.Errorf("transfer %s already recorded", transfer.ID)
	}

	r.transfers = append(r.transfers, transfer)
	r.byID[transfer.ID] = transfer

	return nil
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transfer, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTransferNotFound
	}

	return transfer, nil
}

// ListByAccount lists transfers touching an account, newest first.
func (r *TransferRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Transfer, 0, limit)
	skipped := 0

	for i := len(r.transfers) - 1; i >= 0 && len(result) < limit; i-- {
		t := r.transfers[i]
		if !t.Involves(accountID) {
			continue
		}

		if skipped < offset {
			skipped++
			continue
		}

		result = append(result, t)
	}

	return result, nil
}
