package escrow

import "errors"

var (
	ErrInvalidLock    = errors.New("invalid_lock_request")
	ErrLockNotFound   = errors.New("escrow_not_found")
	ErrNotParticipant = errors.New("winner_not_participant")
	ErrInvalidFee     = errors.New("invalid_fee")
	ErrBetTooLarge    = errors.New("bet_exceeds_bankroll_percent")
)
