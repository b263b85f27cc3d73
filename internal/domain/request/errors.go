package request

import "errors"

var (
	ErrValidation   = errors.New("invalid request payload")
	ErrInvalidState = errors.New("operation not allowed in current state")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("request modified concurrently")
	ErrNotFound     = errors.New("request not found")
)
