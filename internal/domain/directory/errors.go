package directory

import "errors"

var (
	ErrNotFound   = errors.New("employee not found")
	ErrInvalidRUT = errors.New("invalid rut format")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("invalid employee payload")
)
