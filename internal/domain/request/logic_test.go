package request

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"intranet/internal/domain/ledger"
)

func validInput() SubmitInput {
	return SubmitInput{
		Type:      ledger.TypeVacation,
		StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		Quantity:  decimal.NewFromInt(3),
		Reason:    "family trip",
	}
}

func TestValidateSubmitAccepted(t *testing.T) {
	if err := ValidateSubmit(validInput()); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestValidateSubmitRejectsUnknownType(t *testing.T) {
	input := validInput()
	input.Type = "sabbatical"
	if err := ValidateSubmit(input); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidateSubmitRejectsInvertedDates(t *testing.T) {
	input := validInput()
	input.StartDate, input.EndDate = input.EndDate, input.StartDate
	if err := ValidateSubmit(input); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidateSubmitQuantityGranularity(t *testing.T) {
	input := validInput()
	input.Type = ledger.TypeAdministrative

	input.Quantity = decimal.NewFromFloat(0.5)
	if err := ValidateSubmit(input); err != nil {
		t.Fatalf("half day administrative should be valid, got %v", err)
	}

	input.Quantity = decimal.NewFromFloat(0.3)
	if err := ValidateSubmit(input); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for 0.3, got %v", err)
	}

	input.Quantity = decimal.NewFromFloat(0.25)
	if err := ValidateSubmit(input); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for quarter day, got %v", err)
	}
}

func TestValidateSubmitVacationWholeDaysOnly(t *testing.T) {
	input := validInput()
	input.Quantity = decimal.NewFromFloat(2.5)
	if err := ValidateSubmit(input); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for fractional vacation, got %v", err)
	}
}

func TestValidateSubmitRequiresReason(t *testing.T) {
	input := validInput()
	input.Reason = "   "
	if err := ValidateSubmit(input); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(2026, 7); got != "SOL-2026-0007" {
		t.Fatalf("unexpected number %q", got)
	}
	if got := FormatNumber(2026, 12345); got != "SOL-2026-12345" {
		t.Fatalf("unexpected number %q", got)
	}
}
