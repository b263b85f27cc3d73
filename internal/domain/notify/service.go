package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"intranet/internal/platform/db"
)

var ErrNotFound = errors.New("notification not found")

// Mailer is the optional e-mail fan-out. Delivery failures are logged and
// never propagated; the workflows must not depend on the sink.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Service struct {
	DB     db.Querier
	Mailer Mailer
}

func NewService(q db.Querier, mailer Mailer) *Service {
	return &Service{DB: q, Mailer: mailer}
}

// Notify stores the notification and, when a mailer is configured, sends a
// copy to the employee's e-mail address.
func (s *Service) Notify(ctx context.Context, employeeID, ntype, title, message string) error {
	if _, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (employee_id, type, title, message)
    VALUES ($1,$2,$3,$4)
  `, employeeID, ntype, title, message); err != nil {
		return err
	}

	if s.Mailer == nil {
		return nil
	}

	var email string
	if err := s.DB.QueryRow(ctx, "SELECT email FROM employees WHERE id = $1", employeeID).Scan(&email); err != nil {
		slog.Warn("notification email lookup failed", "err", err)
		return nil
	}
	if email == "" {
		return nil
	}
	if err := s.Mailer.Send(ctx, email, title, message); err != nil {
		slog.Warn("notification email send failed", "err", err)
	}
	return nil
}

// Fanout inserts one notification per matching active employee in a single
// statement. An empty levels or areaIDs slice means no restriction on that
// axis. Broadcasts stay in-app; the mailer is reserved for the one-to-one
// workflow notifications.
func (s *Service) Fanout(ctx context.Context, ntype, title, message string, levels []int, areaIDs []string) error {
	query := `
    INSERT INTO notifications (employee_id, type, title, message)
    SELECT e.id, $1, $2, $3
    FROM employees e
    JOIN roles r ON e.role_id = r.id
    WHERE e.active`
	args := []any{ntype, title, message}
	if len(levels) > 0 {
		args = append(args, levels)
		query += fmt.Sprintf(" AND r.level = ANY($%d)", len(args))
	}
	if len(areaIDs) > 0 {
		args = append(args, areaIDs)
		query += fmt.Sprintf(" AND e.area_id = ANY($%d)", len(args))
	}
	_, err := s.DB.Exec(ctx, query, args...)
	return err
}

func (s *Service) List(ctx context.Context, employeeID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, type, title, message, read, created_at
    FROM notifications
    WHERE employee_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, employeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.EmployeeID, &n.Type, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Service) UnreadCount(ctx context.Context, employeeID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx,
		"SELECT count(*) FROM notifications WHERE employee_id = $1 AND NOT read",
		employeeID).Scan(&count)
	return count, err
}

func (s *Service) MarkRead(ctx context.Context, employeeID, notificationID string) error {
	tag, err := s.DB.Exec(ctx,
		"UPDATE notifications SET read = TRUE WHERE id = $1 AND employee_id = $2",
		notificationID, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, employeeID string) error {
	_, err := s.DB.Exec(ctx,
		"UPDATE notifications SET read = TRUE WHERE employee_id = $1 AND NOT read", employeeID)
	return err
}
