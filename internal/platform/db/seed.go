package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"intranet/internal/domain/auth"
	"intranet/internal/platform/config"
)

type seedRole struct {
	name                    string
	level                   int
	canApproveRequests      bool
	canManageMedicalLeaves  bool
	canPublishAnnouncements bool
	canUploadDocuments      bool
	canCreateActivities     bool
	canViewReports          bool
	canManageUsers          bool
}

var seedRoles = []seedRole{
	{name: "Functionary", level: auth.LevelFunctionary},
	{name: "Supervisor", level: auth.LevelSupervisor,
		canApproveRequests: true, canCreateActivities: true},
	{name: "Sub-direction", level: auth.LevelSubDirection,
		canApproveRequests: true, canManageMedicalLeaves: true,
		canPublishAnnouncements: true, canUploadDocuments: true,
		canCreateActivities: true, canViewReports: true},
	{name: "Direction", level: auth.LevelDirection,
		canApproveRequests: true, canManageMedicalLeaves: true,
		canPublishAnnouncements: true, canUploadDocuments: true,
		canCreateActivities: true, canViewReports: true, canManageUsers: true},
}

// Seed ensures the four hierarchy roles, a default area and the initial
// admin user exist. It is idempotent and safe to run on every boot.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	roleIDs, err := ensureRoles(ctx, pool)
	if err != nil {
		return err
	}

	areaID, err := ensureArea(ctx, pool, cfg.SeedAreaName, cfg.SeedAreaCode)
	if err != nil {
		return err
	}

	if cfg.SeedAdminRUT != "" && cfg.SeedAdminPassword != "" {
		if err := ensureAdmin(ctx, pool, cfg, areaID, roleIDs[auth.LevelDirection]); err != nil {
			return err
		}
	}
	return nil
}

func ensureRoles(ctx context.Context, pool *pgxpool.Pool) (map[int]string, error) {
	roleIDs := map[int]string{}
	for _, r := range seedRoles {
		var id string
		err := pool.QueryRow(ctx, "SELECT id FROM roles WHERE level = $1", r.level).Scan(&id)
		if err == nil {
			roleIDs[r.level] = id
			continue
		}

		err = pool.QueryRow(ctx, `
      INSERT INTO roles (name, level, can_approve_requests, can_manage_medical_leaves,
                         can_publish_announcements, can_upload_documents,
                         can_create_activities, can_view_reports, can_manage_users)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
      RETURNING id
    `, r.name, r.level, r.canApproveRequests, r.canManageMedicalLeaves,
			r.canPublishAnnouncements, r.canUploadDocuments, r.canCreateActivities,
			r.canViewReports, r.canManageUsers).Scan(&id)
		if err != nil {
			return nil, err
		}
		roleIDs[r.level] = id
	}
	return roleIDs, nil
}

func ensureArea(ctx context.Context, pool *pgxpool.Pool, name, code string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM areas WHERE code = $1", code).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx,
		"INSERT INTO areas (name, code, active) VALUES ($1, $2, TRUE) RETURNING id",
		name, code).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, cfg config.Config, areaID, roleID string) error {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM employees WHERE rut = $1", cfg.SeedAdminRUT).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO employees (rut, first_name, last_name_paternal, last_name_maternal,
                           email, position, area_id, role_id, hire_date,
                           password_hash, active)
    VALUES ($1, 'Admin', 'User', '', $2, 'Director', $3, $4, now()::date, $5, TRUE)
  `, cfg.SeedAdminRUT, cfg.SeedAdminEmail, areaID, roleID, hash)
	return err
}
