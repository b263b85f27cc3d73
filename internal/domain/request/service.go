package request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"intranet/internal/domain/auth"
	"intranet/internal/domain/directory"
	"intranet/internal/domain/ledger"
)

type Service struct {
	Store     *Store
	Directory *directory.Service
	Ledger    *ledger.Ledger
}

func NewService(store *Store, dir *directory.Service, led *ledger.Ledger) *Service {
	return &Service{Store: store, Directory: dir, Ledger: led}
}

const requestColumns = `
    s.id, s.number, s.employee_id,
    e.first_name || ' ' || e.last_name_paternal || ' ' || e.last_name_maternal,
    e.area_id, s.type, s.start_date, s.end_date, s.quantity, s.reason,
    s.contact_phone, s.state,
    s.supervisor_approver_id, s.supervisor_approved_at,
    s.direction_approver_id, s.direction_approved_at,
    s.resolution_comments, s.pdf_generated, s.pdf_url, s.created_at, s.updated_at`

func scanRequest(row pgx.Row) (LeaveRequest, error) {
	var req LeaveRequest
	var leaveType string
	var supID, dirID *string
	var supAt, dirAt *time.Time
	err := row.Scan(&req.ID, &req.Number, &req.EmployeeID, &req.EmployeeName, &req.AreaID,
		&leaveType, &req.StartDate, &req.EndDate, &req.Quantity, &req.Reason,
		&req.ContactPhone, &req.State,
		&supID, &supAt, &dirID, &dirAt,
		&req.ResolutionComments, &req.PDFGenerated, &req.PDFURL, &req.CreatedAt, &req.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	if err != nil {
		return LeaveRequest{}, err
	}
	req.Type = ledger.LeaveType(leaveType)
	if supID != nil && supAt != nil {
		req.Supervisor = &Approval{ApproverID: *supID, At: *supAt}
	}
	if dirID != nil && dirAt != nil {
		req.Direction = &Approval{ApproverID: *dirID, At: *dirAt}
	}
	return req, nil
}

func (s *Service) Get(ctx context.Context, id string) (LeaveRequest, error) {
	return scanRequest(s.Store.DB.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests s
    JOIN employees e ON s.employee_id = e.id
    WHERE s.id = $1
  `, id))
}

// Submit validates, reserves a year-scoped sequence number and creates the
// request in its level-derived initial state. The sequence bump is an atomic
// upsert, so concurrent submissions cannot collide on a number.
func (s *Service) Submit(ctx context.Context, employeeID string, input SubmitInput) (LeaveRequest, error) {
	if err := ValidateSubmit(input); err != nil {
		return LeaveRequest{}, err
	}

	emp, err := s.Directory.GetEmployee(ctx, employeeID)
	if err != nil {
		return LeaveRequest{}, err
	}
	if err := ledger.CheckSufficiency(emp, input.Type, input.Quantity); err != nil {
		return LeaveRequest{}, err
	}

	tx, err := s.Store.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return LeaveRequest{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	year := time.Now().Year()
	var seq int64
	if err := tx.QueryRow(ctx, `
    INSERT INTO request_sequences (year, last_value)
    VALUES ($1, 1)
    ON CONFLICT (year) DO UPDATE SET last_value = request_sequences.last_value + 1
    RETURNING last_value
  `, year).Scan(&seq); err != nil {
		return LeaveRequest{}, err
	}

	var id string
	if err := tx.QueryRow(ctx, `
    INSERT INTO leave_requests (number, employee_id, type, start_date, end_date, quantity,
                                reason, contact_phone, state)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, FormatNumber(year, seq), employeeID, string(input.Type), input.StartDate, input.EndDate,
		input.Quantity, input.Reason, input.ContactPhone, InitialState(emp.RoleLevel)).Scan(&id); err != nil {
		return LeaveRequest{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return LeaveRequest{}, err
	}
	return s.Get(ctx, id)
}

// Approve drives one step of the decision table. The request row is locked
// for the duration of the check-and-transition, and on terminal approval the
// balance consumption joins the same transaction.
func (s *Service) Approve(ctx context.Context, requestID string, approver directory.Employee, comments string) (LeaveRequest, error) {
	tx, err := s.Store.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return LeaveRequest{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		employeeID, leaveType, state, submitterArea string
		quantity                                    decimal.Decimal
		submitterLevel                              int
		number                                      string
	)
	err = tx.QueryRow(ctx, `
    SELECT s.employee_id, s.number, s.type, s.quantity, s.state, e.area_id, r.level
    FROM leave_requests s
    JOIN employees e ON s.employee_id = e.id
    JOIN roles r ON e.role_id = r.id
    WHERE s.id = $1
    FOR UPDATE OF s
  `, requestID).Scan(&employeeID, &number, &leaveType, &quantity, &state, &submitterArea, &submitterLevel)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	if err != nil {
		return LeaveRequest{}, err
	}

	transition, err := Decide(state, submitterLevel, approver.RoleLevel, approver.ID == employeeID)
	if err != nil {
		return LeaveRequest{}, err
	}
	if !directory.CanApproveFor(approver, submitterArea) {
		return LeaveRequest{}, ErrForbidden
	}

	var stageCols string
	switch transition.Stage {
	case StageSupervisor:
		stageCols = "supervisor_approver_id = $3, supervisor_approved_at = now()"
	case StageDirection:
		stageCols = "direction_approver_id = $3, direction_approved_at = now()"
	}

	tag, err := tx.Exec(ctx, `
    UPDATE leave_requests
    SET state = $1, resolution_comments = $4, updated_at = now(), `+stageCols+`
    WHERE id = $2 AND state = $5
  `, transition.Next, requestID, approver.ID, comments, state)
	if err != nil {
		return LeaveRequest{}, err
	}
	if tag.RowsAffected() == 0 {
		return LeaveRequest{}, ErrConflict
	}

	if transition.Consume && leaveType != string(ledger.TypeOther) {
		// Lock the balance owner so two terminal approvals on different
		// requests serialize their pool updates.
		if _, err := tx.Exec(ctx, "SELECT 1 FROM employees WHERE id = $1 FOR UPDATE", employeeID); err != nil {
			return LeaveRequest{}, err
		}
		reason := fmt.Sprintf("request %s approved", number)
		if err := s.Ledger.Adjust(ctx, tx, employeeID, ledger.LeaveType(leaveType), quantity, ledger.Consume, approver.ID, reason); err != nil {
			return LeaveRequest{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return LeaveRequest{}, err
	}
	return s.Get(ctx, requestID)
}

// Reject closes a pending request without touching balances. Supervisors
// may only reject inside their own area.
func (s *Service) Reject(ctx context.Context, requestID string, approver directory.Employee, comments string) (LeaveRequest, error) {
	if approver.RoleLevel < auth.LevelSupervisor {
		return LeaveRequest{}, ErrForbidden
	}

	tx, err := s.Store.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return LeaveRequest{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var state, submitterArea string
	err = tx.QueryRow(ctx, `
    SELECT s.state, e.area_id
    FROM leave_requests s
    JOIN employees e ON s.employee_id = e.id
    WHERE s.id = $1
    FOR UPDATE OF s
  `, requestID).Scan(&state, &submitterArea)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	if err != nil {
		return LeaveRequest{}, err
	}

	if !Pending(state) {
		return LeaveRequest{}, ErrInvalidState
	}
	if !directory.CanApproveFor(approver, submitterArea) {
		return LeaveRequest{}, ErrForbidden
	}

	stageCols := "supervisor_approver_id = $2, supervisor_approved_at = now()"
	if approver.RoleLevel >= auth.LevelSubDirection {
		stageCols = "direction_approver_id = $2, direction_approved_at = now()"
	}

	tag, err := tx.Exec(ctx, `
    UPDATE leave_requests
    SET state = '`+StateRejected+`', resolution_comments = $3, updated_at = now(), `+stageCols+`
    WHERE id = $1 AND state = $4
  `, requestID, approver.ID, comments, state)
	if err != nil {
		return LeaveRequest{}, err
	}
	if tag.RowsAffected() == 0 {
		return LeaveRequest{}, ErrConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return LeaveRequest{}, err
	}
	return s.Get(ctx, requestID)
}

// CancelByEmployee withdraws the caller's own request while it is still
// pending. Nothing has been consumed at that point, so no balance effect.
func (s *Service) CancelByEmployee(ctx context.Context, requestID, employeeID string) (LeaveRequest, error) {
	tx, err := s.Store.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return LeaveRequest{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var owner, state string
	err = tx.QueryRow(ctx, "SELECT employee_id, state FROM leave_requests WHERE id = $1 FOR UPDATE", requestID).Scan(&owner, &state)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	if err != nil {
		return LeaveRequest{}, err
	}
	if owner != employeeID {
		return LeaveRequest{}, ErrForbidden
	}
	if !Pending(state) {
		return LeaveRequest{}, ErrInvalidState
	}

	tag, err := tx.Exec(ctx,
		"UPDATE leave_requests SET state = $1, updated_at = now() WHERE id = $2 AND state = $3",
		StateCancelledByEmployee, requestID, state)
	if err != nil {
		return LeaveRequest{}, err
	}
	if tag.RowsAffected() == 0 {
		return LeaveRequest{}, ErrConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return LeaveRequest{}, err
	}
	return s.Get(ctx, requestID)
}

// RequestMedicalCancellation flags an approved request for anulment after an
// overlapping medical leave came in.
func (s *Service) RequestMedicalCancellation(ctx context.Context, requestID string) (LeaveRequest, error) {
	tag, err := s.Store.DB.Exec(ctx,
		"UPDATE leave_requests SET state = $1, updated_at = now() WHERE id = $2 AND state = $3",
		StateCancellationRequestedMedicalLeave, requestID, StateApproved)
	if err != nil {
		return LeaveRequest{}, err
	}
	if tag.RowsAffected() == 0 {
		current, getErr := s.Get(ctx, requestID)
		if getErr != nil {
			return LeaveRequest{}, getErr
		}
		if current.State != StateApproved {
			return LeaveRequest{}, ErrInvalidState
		}
		return LeaveRequest{}, ErrConflict
	}
	return s.Get(ctx, requestID)
}

// FlagMedicalCancellations moves every approved request of the employee that
// overlaps [start, end] into the anulment-requested state. It runs on the
// caller's transaction so the flags commit together with the medical-leave
// approval that caused them. Returns the affected request IDs so callers can
// notify.
func (s *Service) FlagMedicalCancellations(ctx context.Context, tx pgx.Tx, employeeID string, start, end time.Time) ([]string, error) {
	rows, err := tx.Query(ctx, `
    UPDATE leave_requests
    SET state = $1, updated_at = now()
    WHERE employee_id = $2 AND state = $3
      AND start_date <= $4 AND end_date >= $5
    RETURNING id
  `, StateCancellationRequestedMedicalLeave, employeeID, StateApproved, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// FinalizeMedicalCancellation is the direction-level confirmation of the
// anulment. Consumed balance is not restored automatically; corrections go
// through the manual adjustment endpoint.
func (s *Service) FinalizeMedicalCancellation(ctx context.Context, requestID string, approver directory.Employee) (LeaveRequest, error) {
	if approver.RoleLevel < auth.LevelSubDirection {
		return LeaveRequest{}, ErrForbidden
	}
	tag, err := s.Store.DB.Exec(ctx,
		"UPDATE leave_requests SET state = $1, updated_at = now() WHERE id = $2 AND state = $3",
		StateCancelledByMedicalLeave, requestID, StateCancellationRequestedMedicalLeave)
	if err != nil {
		return LeaveRequest{}, err
	}
	if tag.RowsAffected() == 0 {
		current, getErr := s.Get(ctx, requestID)
		if getErr != nil {
			return LeaveRequest{}, getErr
		}
		if current.State != StateCancellationRequestedMedicalLeave {
			return LeaveRequest{}, ErrInvalidState
		}
		return LeaveRequest{}, ErrConflict
	}
	return s.Get(ctx, requestID)
}

func (s *Service) listQuery(ctx context.Context, where string, args ...any) ([]LeaveRequest, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests s
    JOIN employees e ON s.employee_id = e.id
    WHERE `+where+`
    ORDER BY s.created_at DESC
  `, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaveRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *Service) ListMine(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	return s.listQuery(ctx, "s.employee_id = $1", employeeID)
}

// PendingInbox lists requests awaiting the actor's decision: Supervisors see
// their area's supervisor-stage queue, direction levels see both stages.
func (s *Service) PendingInbox(ctx context.Context, actor auth.UserContext) ([]LeaveRequest, error) {
	switch {
	case actor.RoleLevel >= auth.LevelSubDirection:
		return s.listQuery(ctx, "s.state IN ($1, $2)", StatePendingSupervisor, StatePendingDirection)
	case actor.RoleLevel == auth.LevelSupervisor:
		return s.listQuery(ctx, "s.state = $1 AND e.area_id = $2", StatePendingSupervisor, actor.AreaID)
	default:
		return nil, ErrForbidden
	}
}

func (s *Service) MyDecisions(ctx context.Context, approverID string) ([]LeaveRequest, error) {
	return s.listQuery(ctx, "(s.supervisor_approver_id = $1 OR s.direction_approver_id = $1)", approverID)
}

// History lists every resolved request; handler gates it to level >= 3.
func (s *Service) History(ctx context.Context) ([]LeaveRequest, error) {
	return s.listQuery(ctx, "s.state NOT IN ($1, $2)", StatePendingSupervisor, StatePendingDirection)
}
