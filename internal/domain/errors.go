package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrSlugConflict       = errors.New("slug conflict")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrUnknownSide        = errors.New("unknown side")
	ErrWalletNotConnected = errors.New("wallet not connected")
	ErrRateLimited        = errors.New("rate limited")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrLockHeld           = errors.New("lock already held")
	ErrContextDone        = errors.New("context cancelled")
)
