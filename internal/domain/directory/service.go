package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"intranet/internal/domain/auth"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

const employeeColumns = `
    e.id, e.rut, e.first_name, e.last_name_paternal, e.last_name_maternal,
    e.email, e.phone, e.position, e.area_id, e.role_id, r.level, e.hire_date,
    e.is_area_head, e.active, e.vacation_days, e.administrative_days,
    e.unpaid_accumulated, e.lieu_hours, e.created_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(&emp.ID, &emp.RUT, &emp.FirstName, &emp.LastNamePaternal, &emp.LastNameMaternal,
		&emp.Email, &emp.Phone, &emp.Position, &emp.AreaID, &emp.RoleID, &emp.RoleLevel, &emp.HireDate,
		&emp.IsAreaHead, &emp.Active, &emp.VacationDays, &emp.AdministrativeDays,
		&emp.UnpaidAccumulated, &emp.LieuHours, &emp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

func (s *Service) GetEmployee(ctx context.Context, id string) (Employee, error) {
	return scanEmployee(s.Store.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    JOIN roles r ON e.role_id = r.id
    WHERE e.id = $1
  `, id))
}

func (s *Service) GetEmployeeByRUT(ctx context.Context, rut string) (Employee, error) {
	return scanEmployee(s.Store.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    JOIN roles r ON e.role_id = r.id
    WHERE e.rut = $1
  `, rut))
}

// ListEmployees applies the visibility rule: Direction and Sub-direction see
// everyone, a Supervisor sees their area, a Functionary only themselves.
func (s *Service) ListEmployees(ctx context.Context, actor auth.UserContext, limit, offset int) ([]Employee, error) {
	query := `
    SELECT ` + employeeColumns + `
    FROM employees e
    JOIN roles r ON e.role_id = r.id
    WHERE e.active
  `
	args := []any{}
	switch {
	case actor.RoleLevel >= auth.LevelSubDirection:
	case actor.RoleLevel == auth.LevelSupervisor:
		query += " AND e.area_id = $1"
		args = append(args, actor.AreaID)
	default:
		query += " AND e.id = $1"
		args = append(args, actor.UserID)
	}
	query += fmt.Sprintf(" ORDER BY e.last_name_paternal, e.last_name_maternal, e.first_name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Store.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

type CreateEmployeeInput struct {
	RUT              string
	FirstName        string
	LastNamePaternal string
	LastNameMaternal string
	Email            string
	Phone            string
	Position         string
	AreaID           string
	RoleID           string
	HireDate         time.Time
	Password         string
}

func (s *Service) CreateEmployee(ctx context.Context, input CreateEmployeeInput) (string, error) {
	if !ValidRUT(input.RUT) {
		return "", ErrInvalidRUT
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.Email) == "" {
		return "", ErrValidation
	}
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return "", err
	}

	var id string
	err = s.Store.DB.QueryRow(ctx, `
    INSERT INTO employees (rut, first_name, last_name_paternal, last_name_maternal, email,
                           phone, position, area_id, role_id, hire_date, password_hash)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id
  `, input.RUT, input.FirstName, input.LastNamePaternal, input.LastNameMaternal, input.Email,
		input.Phone, input.Position, input.AreaID, input.RoleID, input.HireDate, hash).Scan(&id)
	return id, err
}

type UpdateEmployeeInput struct {
	Phone    string
	Position string
	AreaID   string
	RoleID   string
}

func (s *Service) UpdateEmployee(ctx context.Context, id string, input UpdateEmployeeInput) error {
	tag, err := s.Store.DB.Exec(ctx, `
    UPDATE employees
    SET phone = $1, position = $2, area_id = $3, role_id = $4, updated_at = now()
    WHERE id = $5
  `, input.Phone, input.Position, input.AreaID, input.RoleID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) DeactivateEmployee(ctx context.Context, id string) error {
	tag, err := s.Store.DB.Exec(ctx, "UPDATE employees SET active = false, updated_at = now() WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) PasswordHash(ctx context.Context, rut string) (string, string, error) {
	var id, hash string
	err := s.Store.DB.QueryRow(ctx, "SELECT id, password_hash FROM employees WHERE rut = $1 AND active", rut).Scan(&id, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return id, hash, err
}

func (s *Service) PasswordHashByID(ctx context.Context, id string) (string, error) {
	var hash string
	err := s.Store.DB.QueryRow(ctx, "SELECT password_hash FROM employees WHERE id = $1 AND active", id).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return hash, err
}

func (s *Service) SetPassword(ctx context.Context, id, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	tag, err := s.Store.DB.Exec(ctx,
		"UPDATE employees SET password_hash = $1, updated_at = now() WHERE id = $2", hash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) GetRole(ctx context.Context, roleID string) (Role, error) {
	var role Role
	err := s.Store.DB.QueryRow(ctx, `
    SELECT id, name, description, level,
           can_approve_requests, can_manage_medical_leaves, can_publish_announcements,
           can_upload_documents, can_create_activities, can_view_reports, can_manage_users,
           created_at
    FROM roles
    WHERE id = $1
  `, roleID).Scan(&role.ID, &role.Name, &role.Description, &role.Level,
		&role.CanApproveRequests, &role.CanManageMedicalLeaves, &role.CanPublishAnnouncements,
		&role.CanUploadDocuments, &role.CanCreateActivities, &role.CanViewReports, &role.CanManageUsers,
		&role.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Role{}, ErrNotFound
	}
	return role, err
}

func (s *Service) RoleForEmployee(ctx context.Context, employeeID string) (Role, error) {
	var roleID string
	err := s.Store.DB.QueryRow(ctx, "SELECT role_id FROM employees WHERE id = $1", employeeID).Scan(&roleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Role{}, ErrNotFound
	}
	if err != nil {
		return Role{}, err
	}
	return s.GetRole(ctx, roleID)
}

func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT id, name, description, level,
           can_approve_requests, can_manage_medical_leaves, can_publish_announcements,
           can_upload_documents, can_create_activities, can_view_reports, can_manage_users,
           created_at
    FROM roles
    ORDER BY level DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.Level,
			&role.CanApproveRequests, &role.CanManageMedicalLeaves, &role.CanPublishAnnouncements,
			&role.CanUploadDocuments, &role.CanCreateActivities, &role.CanViewReports, &role.CanManageUsers,
			&role.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

func (s *Service) ListAreas(ctx context.Context) ([]Area, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT id, name, description, code, COALESCE(head_id::text, ''), active, created_at
    FROM areas
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Area
	for rows.Next() {
		var area Area
		if err := rows.Scan(&area.ID, &area.Name, &area.Description, &area.Code, &area.HeadID, &area.Active, &area.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, area)
	}
	return out, rows.Err()
}

func (s *Service) CreateArea(ctx context.Context, name, description, code string) (string, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(code) == "" {
		return "", ErrValidation
	}
	var id string
	err := s.Store.DB.QueryRow(ctx, `
    INSERT INTO areas (name, description, code)
    VALUES ($1,$2,$3)
    RETURNING id
  `, name, description, code).Scan(&id)
	return id, err
}

func (s *Service) AreaMembers(ctx context.Context, areaID string) ([]Employee, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    JOIN roles r ON e.role_id = r.id
    WHERE e.area_id = $1 AND e.active
    ORDER BY e.last_name_paternal, e.first_name
  `, areaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}
