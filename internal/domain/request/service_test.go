package request

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"intranet/internal/domain/auth"
	"intranet/internal/domain/directory"
	"intranet/internal/domain/ledger"
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

func newService(mock pgxmock.PgxPoolIface) *Service {
	return NewService(NewStore(mock), directory.NewService(directory.NewStore(mock)), ledger.New())
}

func employeeRow(level, vacationDays int) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "rut", "first_name", "last_name_paternal", "last_name_maternal",
		"email", "phone", "position", "area_id", "role_id", "level", "hire_date",
		"is_area_head", "active", "vacation_days", "administrative_days",
		"unpaid_accumulated", "lieu_hours", "created_at",
	}).AddRow("emp-1", "12.345.678-5", "Ana", "Rojas", "Soto",
		"ana@cesfam.cl", "", "TENS", "area-1", "role-1", level, now,
		false, true, vacationDays, decimal.NewFromInt(6),
		decimal.Zero, decimal.Zero, now)
}

func requestRow(id, number, state string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "number", "employee_id", "employee_name", "area_id", "type",
		"start_date", "end_date", "quantity", "reason", "contact_phone", "state",
		"supervisor_approver_id", "supervisor_approved_at",
		"direction_approver_id", "direction_approved_at",
		"resolution_comments", "pdf_generated", "pdf_url", "created_at", "updated_at",
	}).AddRow(id, number, "emp-1", "Ana Rojas Soto", "area-1", "vacation",
		now, now, decimal.NewFromInt(3), "family trip", "+56 9 1234 5678", state,
		(*string)(nil), (*time.Time)(nil), (*string)(nil), (*time.Time)(nil),
		"", false, "", now, now)
}

func TestSubmitAssignsSequencedNumber(t *testing.T) {
	mock := newMock(t)
	svc := newService(mock)
	ctx := context.Background()

	year := time.Now().Year()
	start := time.Date(year, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, 3, 4, 0, 0, 0, 0, time.UTC)
	input := SubmitInput{
		Type:         ledger.TypeVacation,
		StartDate:    start,
		EndDate:      end,
		Quantity:     decimal.NewFromInt(3),
		Reason:       "family trip",
		ContactPhone: "+56 9 1234 5678",
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees e")).
		WithArgs("emp-1").
		WillReturnRows(employeeRow(auth.LevelFunctionary, 10))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO request_sequences")).
		WithArgs(year).
		WillReturnRows(pgxmock.NewRows([]string{"last_value"}).AddRow(int64(7)))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO leave_requests")).
		WithArgs(FormatNumber(year, 7), "emp-1", "vacation", start, end,
			pgxmock.AnyArg(), "family trip", "+56 9 1234 5678", StatePendingSupervisor).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("req-1"))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta("FROM leave_requests s")).
		WithArgs("req-1").
		WillReturnRows(requestRow("req-1", FormatNumber(year, 7), StatePendingSupervisor))

	req, err := svc.Submit(ctx, "emp-1", input)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if req.Number != FormatNumber(year, 7) {
		t.Fatalf("expected number %s, got %s", FormatNumber(year, 7), req.Number)
	}
	if req.State != StatePendingSupervisor {
		t.Fatalf("expected %s, got %s", StatePendingSupervisor, req.State)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSubmitStopsOnInsufficientBalance(t *testing.T) {
	mock := newMock(t)
	svc := newService(mock)

	input := SubmitInput{
		Type:         ledger.TypeVacation,
		StartDate:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
		Quantity:     decimal.NewFromInt(5),
		Reason:       "family trip",
		ContactPhone: "+56 9 1234 5678",
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees e")).
		WithArgs("emp-1").
		WillReturnRows(employeeRow(auth.LevelFunctionary, 2))

	_, err := svc.Submit(context.Background(), "emp-1", input)
	if !errors.Is(err, ledger.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	// No sequence was reserved and nothing was inserted.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

// Terminal approval issues exactly one pool update and one adjustment row,
// inside the same transaction as the state transition.
func TestApproveConsumesBalanceOnce(t *testing.T) {
	mock := newMock(t)
	svc := newService(mock)
	approver := directory.Employee{ID: "dir-1", RoleLevel: auth.LevelDirection, AreaID: "area-9"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF s")).
		WithArgs("req-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"employee_id", "number", "type", "quantity", "state", "area_id", "level",
		}).AddRow("emp-1", "SOL-2026-0007", "vacation", decimal.NewFromInt(3),
			StatePendingDirection, "area-1", auth.LevelFunctionary))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE leave_requests")).
		WithArgs(StateApproved, "req-1", "dir-1", "enjoy", StatePendingDirection).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("SELECT 1 FROM employees WHERE id = $1 FOR UPDATE")).
		WithArgs("emp-1").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE employees SET vacation_days = vacation_days + $1")).
		WithArgs(pgxmock.AnyArg(), "emp-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO balance_adjustments").
		WithArgs("emp-1", "vacation", pgxmock.AnyArg(), "consume", "dir-1", "request SOL-2026-0007 approved").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta("FROM leave_requests s")).
		WithArgs("req-1").
		WillReturnRows(requestRow("req-1", "SOL-2026-0007", StateApproved))

	req, err := svc.Approve(context.Background(), "req-1", approver, "enjoy")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if req.State != StateApproved {
		t.Fatalf("expected approved, got %s", req.State)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

// A second approval attempt finds the terminal state under the row lock and
// never reaches the ledger.
func TestApproveTwiceIsInvalidState(t *testing.T) {
	mock := newMock(t)
	svc := newService(mock)
	approver := directory.Employee{ID: "dir-1", RoleLevel: auth.LevelDirection, AreaID: "area-9"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF s")).
		WithArgs("req-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"employee_id", "number", "type", "quantity", "state", "area_id", "level",
		}).AddRow("emp-1", "SOL-2026-0007", "vacation", decimal.NewFromInt(3),
			StateApproved, "area-1", auth.LevelFunctionary))
	mock.ExpectRollback()

	_, err := svc.Approve(context.Background(), "req-1", approver, "")
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
