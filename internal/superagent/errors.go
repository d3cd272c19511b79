package superagent

import "errors"

var (
	ErrInvalidMode     = errors.New("invalid_mode")
	ErrInvalidCooldown = errors.New("invalid_cooldown")
)
