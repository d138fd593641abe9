package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrRateLimited  = errors.New("rate limited")
	ErrUnavailable  = errors.New("service unavailable")

	ErrNotLoaded    = errors.New("session not loaded")
	ErrSessionBusy  = errors.New("session busy")
	ErrClosed       = errors.New("session closed")
	ErrValidation   = errors.New("validation failed")
	ErrSubmitFailed = errors.New("failed to save settings")
)
