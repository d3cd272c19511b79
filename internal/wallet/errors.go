package wallet

import "errors"

var (
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrWalletNotFound      = errors.New("wallet_not_found")
	ErrInsufficientBalance = errors.New("insufficient_balance")
	ErrPolicyDisabled      = errors.New("wallet_policy_disabled")
	ErrDailyLimitReached   = errors.New("daily_limit_reached")
	ErrNotWalletOwner      = errors.New("not_wallet_owner")
)
