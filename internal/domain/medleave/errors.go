package medleave

import "errors"

var (
	ErrValidation   = errors.New("invalid medical leave payload")
	ErrInvalidState = errors.New("operation not allowed in current state")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("medical leave not found")
)
