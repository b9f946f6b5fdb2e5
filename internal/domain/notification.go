package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Notification is a message addressed to the holder of an account.
type Notification struct {
	CreatedAt  time.Time       `json:"created_at"`
	ID         string          `json:"id"`
	AccountID  string          `json:"account_id"`
	TransferID string          `json:"transfer_id"`
	Message    string          `json:"message"`
	Amount     decimal.Decimal `json:"amount"`
}

// ReceivedMessage is the text sent to the destination of a transfer.
func ReceivedMessage(amount decimal.Decimal, fromAccountID string) string {
	return fmt.Sprintf("An amount of %s received from Account %s", FormatAmount(amount), fromAccountID)
}

// TransferredMessage is the text sent to the source of a transfer.
func TransferredMessage(amount decimal.Decimal, toAccountID string) string {
	return fmt.Sprintf("An amount of %s transferred to Account %s", FormatAmount(amount), toAccountID)
}
