package repo

import "errors"

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
	ErrNoActiveRun       = errors.New("no active run")
	ErrRunClosed         = errors.New("run is closed")
	ErrAlreadySettled    = errors.New("pick already settled")
	ErrAlreadyOnboarded  = errors.New("user already onboarded")
	ErrInvalidStatus     = errors.New("invalid pick status")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
)
