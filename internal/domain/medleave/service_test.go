package medleave

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"

	"intranet/internal/domain/auth"
	"intranet/internal/domain/directory"
	"intranet/internal/domain/request"
)

func TestRejectRequiresComments(t *testing.T) {
	svc := NewService(nil, nil)
	reviewer := directory.Employee{ID: "rev-1", RoleLevel: auth.LevelSubDirection}

	_, err := svc.Reject(context.Background(), "leave-1", reviewer, "   ")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestReviewRequiresDirectionLevel(t *testing.T) {
	svc := NewService(nil, nil)
	supervisor := directory.Employee{ID: "sup-1", RoleLevel: auth.LevelSupervisor}

	if _, err := svc.Reject(context.Background(), "leave-1", supervisor, "out of scope"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on reject, got %v", err)
	}
	if _, _, err := svc.Approve(context.Background(), "leave-1", supervisor, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on approve, got %v", err)
	}
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func approvedLeaveRow(start, end time.Time) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "folio", "employee_id", "employee_name", "area_id",
		"start_date", "end_date", "total_days", "document_url",
		"state", "reviewer_id", "reviewed_at", "comments", "created_at", "updated_at",
	}).AddRow("leave-1", "F-123", "emp-1", "Ana Rojas Soto", "area-1",
		start, end, 5, "",
		StateApproved, (*string)(nil), (*time.Time)(nil), "ok", now, now)
}

func TestApproveFlagsOverlapsInSameTransaction(t *testing.T) {
	mock := newMock(t)
	svc := NewService(NewStore(mock), request.NewService(nil, nil, nil))
	reviewer := directory.Employee{ID: "rev-1", RoleLevel: auth.LevelSubDirection}
	start, end := day(2026, 3, 2), day(2026, 3, 6)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE medical_leaves")).
		WithArgs(StateApproved, "rev-1", "ok", "leave-1", StatePending).
		WillReturnRows(pgxmock.NewRows([]string{"employee_id", "start_date", "end_date"}).
			AddRow("emp-1", start, end))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE leave_requests")).
		WithArgs(request.StateCancellationRequestedMedicalLeave, "emp-1", request.StateApproved, end, start).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("req-9"))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta("FROM medical_leaves m")).
		WithArgs("leave-1").
		WillReturnRows(approvedLeaveRow(start, end))

	m, flagged, err := svc.Approve(context.Background(), "leave-1", reviewer, "ok")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if m.State != StateApproved {
		t.Fatalf("expected approved leave, got %q", m.State)
	}
	if len(flagged) != 1 || flagged[0] != "req-9" {
		t.Fatalf("expected flagged [req-9], got %v", flagged)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

// A failed flagging must roll the review back too, so a retry of Approve
// still finds the leave pending.
func TestApproveRollsBackReviewWhenFlaggingFails(t *testing.T) {
	mock := newMock(t)
	svc := NewService(NewStore(mock), request.NewService(nil, nil, nil))
	reviewer := directory.Employee{ID: "rev-1", RoleLevel: auth.LevelSubDirection}
	start, end := day(2026, 3, 2), day(2026, 3, 6)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE medical_leaves")).
		WithArgs(StateApproved, "rev-1", "ok", "leave-1", StatePending).
		WillReturnRows(pgxmock.NewRows([]string{"employee_id", "start_date", "end_date"}).
			AddRow("emp-1", start, end))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE leave_requests")).
		WithArgs(request.StateCancellationRequestedMedicalLeave, "emp-1", request.StateApproved, end, start).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, _, err := svc.Approve(context.Background(), "leave-1", reviewer, "ok")
	if err == nil {
		t.Fatal("expected approve to fail")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
