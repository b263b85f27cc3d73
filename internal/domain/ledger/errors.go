package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUnknownLeaveType    = errors.New("leave type has no balance pool")
)

// InsufficientBalanceError reports a shortage detected during submission
// pre-validation, before anything is persisted.
type InsufficientBalanceError struct {
	Type      LeaveType
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: available %s, requested %s",
		e.Type, e.Available.String(), e.Requested.String())
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}
