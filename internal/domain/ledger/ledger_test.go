package ledger

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"intranet/internal/domain/directory"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestAdjustConsumeVacation(t *testing.T) {
	mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE employees SET vacation_days = vacation_days + $1")).
		WithArgs(pgxmock.AnyArg(), "emp-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO balance_adjustments").
		WithArgs("emp-1", "vacation", pgxmock.AnyArg(), "consume", "actor-1", "request SOL-2026-0001 approved").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	tx, err := mock.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	led := New()
	err = led.Adjust(ctx, tx, "emp-1", TypeVacation, decimal.NewFromInt(3), Consume, "actor-1", "request SOL-2026-0001 approved")
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

// The unpaid pool is an accumulator: consuming unpaid leave grows it.
func TestAdjustUnpaidGrowsOnConsume(t *testing.T) {
	mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE employees SET unpaid_accumulated = unpaid_accumulated + $1")).
		WithArgs(pgxmock.AnyArg(), "emp-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO balance_adjustments").
		WithArgs("emp-1", "unpaid_leave", pgxmock.AnyArg(), "consume", pgxmock.AnyArg(), "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	tx, err := mock.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	err = New().Adjust(ctx, tx, "emp-1", TypeUnpaid, decimal.NewFromInt(2), Consume, "actor-1", "")
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAdjustUnknownType(t *testing.T) {
	err := New().Adjust(context.Background(), nil, "emp-1", LeaveType("sabbatical"), decimal.NewFromInt(1), Consume, "", "")
	if !errors.Is(err, ErrUnknownLeaveType) {
		t.Fatalf("expected ErrUnknownLeaveType, got %v", err)
	}
}

func TestCheckSufficiency(t *testing.T) {
	emp := directory.Employee{
		VacationDays:       2,
		AdministrativeDays: decimal.NewFromFloat(1.5),
		LieuHours:          decimal.NewFromInt(4),
	}

	if err := CheckSufficiency(emp, TypeVacation, decimal.NewFromInt(2)); err != nil {
		t.Fatalf("exact balance should pass, got %v", err)
	}

	err := CheckSufficiency(emp, TypeVacation, decimal.NewFromInt(3))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	var detail *InsufficientBalanceError
	if !errors.As(err, &detail) {
		t.Fatalf("expected InsufficientBalanceError, got %T", err)
	}
	if detail.Type != TypeVacation || !detail.Requested.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	// Unpaid leave and "other" are exempt from sufficiency.
	if err := CheckSufficiency(emp, TypeUnpaid, decimal.NewFromInt(30)); err != nil {
		t.Fatalf("unpaid should be exempt, got %v", err)
	}
	if err := CheckSufficiency(emp, TypeOther, decimal.NewFromInt(30)); err != nil {
		t.Fatalf("other should be exempt, got %v", err)
	}
}
