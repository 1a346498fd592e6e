package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrInvalidAsset          = errors.New("invalid_asset")
	ErrTokenNotFound         = errors.New("token_not_found")
	ErrTokenAlreadyExists    = errors.New("token_already_exists")
	ErrInvalidRecipient      = errors.New("invalid_recipient")
	ErrInsufficientAllowance = errors.New("insufficient_allowance")
	ErrTransferFailed        = errors.New("transfer_failed")
	ErrInsufficientBalance   = errors.New("insufficient_balance")
	ErrBalanceOverflow       = errors.New("balance_overflow")
	ErrOrderNotFound         = errors.New("order_not_found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrOrderFinalized        = errors.New("order_finalized")
	ErrWebhookNotFound       = errors.New("webhook_not_found")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
