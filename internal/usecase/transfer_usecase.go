package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/fundledger/internal/domain"
)

// TransferUseCase moves funds between two accounts.
//
// Safe for concurrent use. Transfers on disjoint account pairs never contend;
// transfers sharing an account serialize on that account's guard.
type TransferUseCase struct {
	accounts     AccountFinder
	transferRepo TransferRepository
	notifier     Notifier
	idGen        IDGenerator
	metrics      TransferMetrics
	logger       zerolog.Logger
}

// NewTransferUseCase creates a new TransferUseCase. transferRepo, notifier and
// metrics may be nil; without transferRepo no history is kept.
func NewTransferUseCase(
	accounts AccountFinder,
	transferRepo TransferRepository,
	notifier Notifier,
	idGen IDGenerator,
	metrics TransferMetrics,
	logger zerolog.Logger,
) *TransferUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &TransferUseCase{
		accounts:     accounts,
		transferRepo: transferRepo,
		notifier:     notifier,
		idGen:        idGen,
		metrics:      metrics,
		logger:       logger.With().Str("component", "fund_transfer").Logger(),
	}
}

// Transfer validates req, moves req.Amount from the source to the destination
// account and notifies both holders.
//
// It returns one of:
//   - *domain.InvalidTransferRequestError for same account, non-positive amount or empty ids
//   - *domain.AccountNotFoundError for the first unknown account, source checked first
//   - *domain.InsufficientFundsError when the source cannot cover the amount
//   - *domain.FundTransferFailedError when the deposit failed and the source was restored
func (uc *TransferUseCase) Transfer(ctx context.Context, req domain.TransferRequest) (*domain.Transfer, error) {
	start := time.Now()

	transfer, err := uc.transfer(ctx, req)
	if err != nil {
		uc.metrics.TransferFailed(classifyError(err))
		return nil, err
	}

	uc.metrics.TransferCompleted(req.Amount, time.Since(start))

	return transfer, nil
}

func (uc *TransferUseCase) transfer(ctx context.Context, req domain.TransferRequest) (*domain.Transfer, error) {
	// 1. Validate before any lookup or lock
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. Resolve source, then destination
	from, err := uc.resolve(ctx, req.FromAccountID)
	if err != nil {
		return nil, err
	}

	to, err := uc.resolve(ctx, req.ToAccountID)
	if err != nil {
		return nil, err
	}

	// 3. Apply both mutations under both guards
	if err := uc.move(from, to, req.Amount); err != nil {
		return nil, err
	}

	transfer := &domain.Transfer{
		ID:            uc.idGen.Generate(),
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		CreatedAt:     time.Now().UTC(),
	}

	// 4. Record and notify; neither can undo a committed transfer
	if uc.transferRepo != nil {
		if err := uc.transferRepo.Create(ctx, transfer); err != nil {
			uc.logger.Error().Err(err).Str("transfer_id", transfer.ID).Msg("failed to record transfer")
		}
	}

	uc.notifyTransfer(ctx, transfer)

	return transfer, nil
}

func (uc *TransferUseCase) resolve(ctx context.Context, id string) (TransferAccount, error) {
	account, err := uc.accounts.FindAccount(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, &domain.AccountNotFoundError{AccountID: id}
		}
		return nil, err
	}

	return account, nil
}

// move withdraws from the source and deposits into the destination while
// holding both account guards. Guards are taken in ascending id order so two
// transfers over the same pair in opposite directions cannot wait on each other.
func (uc *TransferUseCase) move(from, to TransferAccount, amount decimal.Decimal) error {
	first, second := lockOrder(from, to)

	uc.logger.Debug().Str("account_id", first.ID()).Msg("acquiring first account lock")
	first.Lock()
	defer first.Unlock()

	uc.logger.Debug().Str("account_id", second.ID()).Msg("acquiring second account lock")
	second.Lock()
	defer second.Unlock()

	uc.logger.Debug().
		Str("account_id", from.ID()).
		Str("amount", amount.String()).
		Msg("withdrawing")

	if err := from.Withdraw(amount); err != nil {
		uc.logger.Error().Err(err).Str("account_id", from.ID()).Msg("withdrawal failed")
		return err
	}

	uc.logger.Debug().
		Str("account_id", to.ID()).
		Str("amount", amount.String()).
		Msg("depositing")

	if err := to.Deposit(amount); err != nil {
		uc.logger.Error().Err(err).Str("account_id", to.ID()).Msg("deposit failed, restoring source")

		// Compensate the withdrawal; nothing else was applied yet.
		if rbErr := from.Deposit(amount); rbErr != nil {
			uc.logger.Error().
				Err(rbErr).
				Str("account_id", from.ID()).
				Str("amount", amount.String()).
				Msg("failed to restore source after deposit failure")
		}

		uc.metrics.TransferRolledBack()

		return &domain.FundTransferFailedError{AccountID: to.ID(), Err: err}
	}

	return nil
}

func lockOrder(a, b TransferAccount) (TransferAccount, TransferAccount) {
	if domain.CompareAccountIDs(a.ID(), b.ID()) < 0 {
		return a, b
	}

	return b, a
}

// notifyTransfer tells both holders about a committed transfer. Each
// notification is attempted on its own.
func (uc *TransferUseCase) notifyTransfer(ctx context.Context, transfer *domain.Transfer) {
	if uc.notifier == nil {
		return
	}

	uc.send(ctx, transfer, transfer.ToAccountID, domain.ReceivedMessage(transfer.Amount, transfer.FromAccountID))
	uc.send(ctx, transfer, transfer.FromAccountID, domain.TransferredMessage(transfer.Amount, transfer.ToAccountID))
}

func (uc *TransferUseCase) send(ctx context.Context, transfer *domain.Transfer, accountID, message string) {
	notification := domain.Notification{
		ID:         uc.idGen.Generate(),
		AccountID:  accountID,
		TransferID: transfer.ID,
		Amount:     transfer.Amount,
		Message:    message,
		CreatedAt:  time.Now().UTC(),
	}

	if err := uc.notifier.Notify(ctx, notification); err != nil {
		uc.metrics.NotificationFailed()
		uc.logger.Error().
			Err(err).
			Str("transfer_id", transfer.ID).
			Str("account_id", accountID).
			Msg("failed to notify account holder")
	}
}

// GetTransfer retrieves a transfer by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	if uc.transferRepo == nil {
		return nil, domain.ErrTransferNotFound
	}

	return uc.transferRepo.GetByID(ctx, id)
}

// ListTransfersByAccountInput represents input for listing transfers.
type ListTransfersByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListTransfersByAccount lists transfers for an account, newest first.
// An unknown account yields *domain.AccountNotFoundError.
func (uc *TransferUseCase) ListTransfersByAccount(ctx context.Context, input ListTransfersByAccountInput) ([]*domain.Transfer, error) {
	if _, err := uc.resolve(ctx, input.AccountID); err != nil {
		return nil, err
	}

	if uc.transferRepo == nil {
		return []*domain.Transfer{}, nil
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.transferRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}

func classifyError(err error) string {
	switch {
	case errors.Is(err, domain.ErrFundTransferFailed):
		return ErrorTypeTransferFailed
	case errors.Is(err, domain.ErrInvalidTransferRequest):
		return ErrorTypeInvalidRequest
	case errors.Is(err, domain.ErrAccountNotFound):
		return ErrorTypeAccountNotFound
	case errors.Is(err, domain.ErrInsufficientFunds):
		return ErrorTypeInsufficientFunds
	default:
		return ErrorTypeUnknown
	}
}
