package usecase

// Error types reported to TransferMetrics.
const (
	ErrorTypeInvalidRequest    = "invalid_request"
	ErrorTypeAccountNotFound   = "account_not_found"
	ErrorTypeInsufficientFunds = "insufficient_funds"
	ErrorTypeTransferFailed    = "transfer_failed"
	ErrorTypeUnknown           = "unknown"
)
