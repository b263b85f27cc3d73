package medleave

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"intranet/internal/domain/auth"
	"intranet/internal/domain/directory"
	"intranet/internal/domain/request"
)

type Service struct {
	Store    *Store
	Requests *request.Service
}

func NewService(store *Store, requests *request.Service) *Service {
	return &Service{Store: store, Requests: requests}
}

const leaveColumns = `
    m.id, m.folio, m.employee_id,
    e.first_name || ' ' || e.last_name_paternal || ' ' || e.last_name_maternal,
    e.area_id, m.start_date, m.end_date, m.total_days, m.document_url,
    m.state, m.reviewer_id, m.reviewed_at, m.comments, m.created_at, m.updated_at`

func scanLeave(row pgx.Row) (MedicalLeave, error) {
	var m MedicalLeave
	err := row.Scan(&m.ID, &m.Folio, &m.EmployeeID, &m.EmployeeName, &m.AreaID,
		&m.StartDate, &m.EndDate, &m.TotalDays, &m.DocumentURL,
		&m.State, &m.ReviewerID, &m.ReviewedAt, &m.Comments, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return MedicalLeave{}, ErrNotFound
	}
	if err != nil {
		return MedicalLeave{}, err
	}
	return m, nil
}

func (s *Service) Get(ctx context.Context, id string) (MedicalLeave, error) {
	return scanLeave(s.Store.DB.QueryRow(ctx, `
    SELECT `+leaveColumns+`
    FROM medical_leaves m
    JOIN employees e ON m.employee_id = e.id
    WHERE m.id = $1
  `, id))
}

func (s *Service) Submit(ctx context.Context, employeeID string, input SubmitInput) (MedicalLeave, error) {
	if err := ValidateSubmit(input); err != nil {
		return MedicalLeave{}, err
	}

	var id string
	err := s.Store.DB.QueryRow(ctx, `
    INSERT INTO medical_leaves (folio, employee_id, start_date, end_date, total_days,
                                document_url, state)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, input.Folio, employeeID, input.StartDate, input.EndDate,
		TotalDays(input.StartDate, input.EndDate), input.DocumentURL, StatePending).Scan(&id)
	if err != nil {
		return MedicalLeave{}, err
	}
	return s.Get(ctx, id)
}

// Approve accepts the leave and flags every overlapping approved request of
// the same employee for anulment. Review is a direction-level duty. The
// review and the flags share one transaction: an approved leave never lands
// without its overlap flags.
func (s *Service) Approve(ctx context.Context, leaveID string, reviewer directory.Employee, comments string) (MedicalLeave, []string, error) {
	if reviewer.RoleLevel < auth.LevelSubDirection {
		return MedicalLeave{}, nil, ErrForbidden
	}

	tx, err := s.Store.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return MedicalLeave{}, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var employeeID string
	var start, end time.Time
	err = tx.QueryRow(ctx, `
    UPDATE medical_leaves
    SET state = $1, reviewer_id = $2, reviewed_at = now(), comments = $3, updated_at = now()
    WHERE id = $4 AND state = $5
    RETURNING employee_id, start_date, end_date
  `, StateApproved, reviewer.ID, comments, leaveID, StatePending).Scan(&employeeID, &start, &end)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.Get(ctx, leaveID); getErr != nil {
			return MedicalLeave{}, nil, getErr
		}
		return MedicalLeave{}, nil, ErrInvalidState
	}
	if err != nil {
		return MedicalLeave{}, nil, err
	}

	flagged, err := s.Requests.FlagMedicalCancellations(ctx, tx, employeeID, start, end)
	if err != nil {
		return MedicalLeave{}, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return MedicalLeave{}, nil, err
	}

	m, err := s.Get(ctx, leaveID)
	if err != nil {
		return MedicalLeave{}, nil, err
	}
	return m, flagged, nil
}

// Reject requires a non-empty explanation for the submitter.
func (s *Service) Reject(ctx context.Context, leaveID string, reviewer directory.Employee, comments string) (MedicalLeave, error) {
	if reviewer.RoleLevel < auth.LevelSubDirection {
		return MedicalLeave{}, ErrForbidden
	}
	if strings.TrimSpace(comments) == "" {
		return MedicalLeave{}, fmt.Errorf("%w: rejection comments are required", ErrValidation)
	}
	return s.review(ctx, leaveID, reviewer.ID, StateRejected, comments)
}

func (s *Service) review(ctx context.Context, leaveID, reviewerID, next, comments string) (MedicalLeave, error) {
	tag, err := s.Store.DB.Exec(ctx, `
    UPDATE medical_leaves
    SET state = $1, reviewer_id = $2, reviewed_at = now(), comments = $3, updated_at = now()
    WHERE id = $4 AND state = $5
  `, next, reviewerID, comments, leaveID, StatePending)
	if err != nil {
		return MedicalLeave{}, err
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.Get(ctx, leaveID); err != nil {
			return MedicalLeave{}, err
		}
		return MedicalLeave{}, ErrInvalidState
	}
	return s.Get(ctx, leaveID)
}

func (s *Service) listQuery(ctx context.Context, where string, args ...any) ([]MedicalLeave, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT `+leaveColumns+`
    FROM medical_leaves m
    JOIN employees e ON m.employee_id = e.id
    WHERE `+where+`
    ORDER BY m.created_at DESC
  `, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MedicalLeave
	for rows.Next() {
		m, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Service) ListMine(ctx context.Context, employeeID string) ([]MedicalLeave, error) {
	return s.listQuery(ctx, "m.employee_id = $1", employeeID)
}

func (s *Service) PendingInbox(ctx context.Context, actor auth.UserContext) ([]MedicalLeave, error) {
	if actor.RoleLevel < auth.LevelSubDirection {
		return nil, ErrForbidden
	}
	return s.listQuery(ctx, "m.state = $1", StatePending)
}

func (s *Service) MyReviews(ctx context.Context, reviewerID string) ([]MedicalLeave, error) {
	return s.listQuery(ctx, "m.reviewer_id = $1", reviewerID)
}

func (s *Service) History(ctx context.Context) ([]MedicalLeave, error) {
	return s.listQuery(ctx, "m.state <> $1", StatePending)
}

// Current lists approved leaves covering today, for the absence dashboard.
func (s *Service) Current(ctx context.Context) ([]MedicalLeave, error) {
	today := calendarDate(time.Now())
	return s.listQuery(ctx, "m.state = $1 AND m.start_date <= $2 AND m.end_date >= $2", StateApproved, today)
}
