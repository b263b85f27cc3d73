package activity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"intranet/internal/platform/db"
)

type Service struct {
	DB db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{DB: q}
}

const activityColumns = `
    a.id, a.title, a.description, a.type, a.start_at, a.end_at, a.all_day,
    a.location, a.capacity,
    (SELECT count(*) FROM activity_enrollments en WHERE en.activity_id = a.id),
    a.area_ids, a.created_by, a.active, a.created_at`

func scanActivity(row pgx.Row) (Activity, error) {
	var a Activity
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Type, &a.StartAt, &a.EndAt,
		&a.AllDay, &a.Location, &a.Capacity, &a.Enrolled, &a.AreaIDs,
		&a.CreatedBy, &a.Active, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Activity{}, ErrNotFound
	}
	if err != nil {
		return Activity{}, err
	}
	return a, nil
}

func validateCreate(input CreateInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if input.StartAt.IsZero() || input.EndAt.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrValidation)
	}
	if input.EndAt.Before(input.StartAt) {
		return fmt.Errorf("%w: end before start", ErrValidation)
	}
	if input.Capacity < 0 {
		return fmt.Errorf("%w: capacity cannot be negative", ErrValidation)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (Activity, error) {
	return scanActivity(s.DB.QueryRow(ctx,
		"SELECT "+activityColumns+" FROM activities a WHERE a.id = $1", id))
}

func (s *Service) Create(ctx context.Context, createdBy string, input CreateInput) (Activity, error) {
	if err := validateCreate(input); err != nil {
		return Activity{}, err
	}

	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO activities (title, description, type, start_at, end_at, all_day,
                            location, capacity, area_ids, created_by, active)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,TRUE)
    RETURNING id
  `, input.Title, input.Description, input.Type, input.StartAt, input.EndAt,
		input.AllDay, input.Location, input.Capacity, input.AreaIDs, createdBy).Scan(&id)
	if err != nil {
		return Activity{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE activities SET active = FALSE WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUpcoming returns active activities that have not yet ended.
func (s *Service) ListUpcoming(ctx context.Context) ([]Activity, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+activityColumns+`
    FROM activities a
    WHERE a.active AND a.end_at >= $1
    ORDER BY a.start_at
  `, time.Now())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Enroll adds the employee under a row lock so the capacity check and the
// insert cannot race another enrollment.
func (s *Service) Enroll(ctx context.Context, activityID, employeeID string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var capacity int
	var active bool
	err = tx.QueryRow(ctx,
		"SELECT capacity, active FROM activities WHERE id = $1 FOR UPDATE",
		activityID).Scan(&capacity, &active)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !active {
		return ErrNotFound
	}

	var enrolled int
	var already bool
	err = tx.QueryRow(ctx, `
    SELECT count(*),
           COALESCE(bool_or(employee_id = $2), FALSE)
    FROM activity_enrollments WHERE activity_id = $1
  `, activityID, employeeID).Scan(&enrolled, &already)
	if err != nil {
		return err
	}
	if already {
		return ErrAlreadyEnrolled
	}
	if capacity > 0 && enrolled >= capacity {
		return ErrFull
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO activity_enrollments (activity_id, employee_id) VALUES ($1, $2)",
		activityID, employeeID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Service) Withdraw(ctx context.Context, activityID, employeeID string) error {
	tag, err := s.DB.Exec(ctx,
		"DELETE FROM activity_enrollments WHERE activity_id = $1 AND employee_id = $2",
		activityID, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotEnrolled
	}
	return nil
}

func (s *Service) Enrollments(ctx context.Context, activityID string) ([]Enrollment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT en.id, en.activity_id, en.employee_id,
           e.first_name || ' ' || e.last_name_paternal || ' ' || e.last_name_maternal,
           en.enrolled_at
    FROM activity_enrollments en
    JOIN employees e ON en.employee_id = e.id
    WHERE en.activity_id = $1
    ORDER BY en.enrolled_at
  `, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Enrollment
	for rows.Next() {
		var en Enrollment
		if err := rows.Scan(&en.ID, &en.ActivityID, &en.EmployeeID, &en.EmployeeName, &en.EnrolledAt); err != nil {
			return nil, err
		}
		out = append(out, en)
	}
	return out, rows.Err()
}
