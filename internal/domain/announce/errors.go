package announce

import "errors"

var (
	ErrValidation = errors.New("invalid announcement payload")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("announcement not found")
)
