package system

import "errors"

// Business rejections. Handlers turn these into notices; none is fatal.
var (
	ErrInsufficientFunds = errors.New("not enough money")
	ErrUnknownRole       = errors.New("unknown staff role")
	ErrDayRunning        = errors.New("day already running")
	ErrDayNotRunning     = errors.New("no day in progress")
)
