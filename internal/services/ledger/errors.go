package ledger

import "errors"

// Service errors
var (
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrBelowMinimumWithdrawal  = errors.New("amount below minimum withdrawal")
	ErrAmountTooSmall          = errors.New("amount too small after fees")
	ErrTransactionNotFound     = errors.New("transaction not found")
	ErrSettlementFailed        = errors.New("withdrawal settlement failed")
	ErrInvalidSubscriptionRole = errors.New("no premium plan for role")
)
