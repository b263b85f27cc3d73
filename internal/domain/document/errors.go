package document

import "errors"

var (
	ErrValidation = errors.New("invalid document payload")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("document not found")
)
