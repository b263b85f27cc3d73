package activity

import "errors"

var (
	ErrValidation      = errors.New("invalid activity payload")
	ErrNotFound        = errors.New("activity not found")
	ErrFull            = errors.New("activity is at capacity")
	ErrAlreadyEnrolled = errors.New("already enrolled")
	ErrNotEnrolled     = errors.New("not enrolled")
)
