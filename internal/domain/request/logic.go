package request

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"intranet/internal/domain/ledger"
)

var halfDay = decimal.NewFromFloat(0.5)

// ValidateSubmit checks shape and granularity before anything touches the
// database. Balance sufficiency is checked separately against the live
// employee record.
func ValidateSubmit(input SubmitInput) error {
	if !ledger.ValidType(input.Type) {
		return fmt.Errorf("%w: unknown leave type %q", ErrValidation, input.Type)
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	if input.EndDate.Before(input.StartDate) {
		return fmt.Errorf("%w: end date before start date", ErrValidation)
	}
	if input.Quantity.LessThan(halfDay) {
		return fmt.Errorf("%w: quantity must be at least 0.5", ErrValidation)
	}
	if !input.Quantity.Mod(halfDay).IsZero() {
		return fmt.Errorf("%w: quantity must be in half-day steps", ErrValidation)
	}
	if input.Type == ledger.TypeVacation && !input.Quantity.IsInteger() {
		return fmt.Errorf("%w: vacation days must be whole days", ErrValidation)
	}
	if strings.TrimSpace(input.Reason) == "" {
		return fmt.Errorf("%w: reason is required", ErrValidation)
	}
	return nil
}

// FormatNumber renders the human-readable request number for a year-scoped
// sequence value, e.g. SOL-2026-0042.
func FormatNumber(year int, seq int64) string {
	return fmt.Sprintf("SOL-%d-%04d", year, seq)
}
