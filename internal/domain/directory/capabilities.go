package directory

import (
	"context"
	"fmt"
)

// Capability names, each backed by a flag on the role.
const (
	CapApproveRequests      = "approve_requests"
	CapManageMedicalLeaves  = "manage_medical_leaves"
	CapPublishAnnouncements = "publish_announcements"
	CapUploadDocuments      = "upload_documents"
	CapCreateActivities     = "create_activities"
	CapViewReports          = "view_reports"
	CapManageUsers          = "manage_users"
)

var capabilityColumns = map[string]string{
	CapApproveRequests:      "can_approve_requests",
	CapManageMedicalLeaves:  "can_manage_medical_leaves",
	CapPublishAnnouncements: "can_publish_announcements",
	CapUploadDocuments:      "can_upload_documents",
	CapCreateActivities:     "can_create_activities",
	CapViewReports:          "can_view_reports",
	CapManageUsers:          "can_manage_users",
}

// HasCapability checks the employee's role flag for the named capability.
func (s *Service) HasCapability(ctx context.Context, employeeID, capability string) (bool, error) {
	column, ok := capabilityColumns[capability]
	if !ok {
		return false, fmt.Errorf("unknown capability %q", capability)
	}

	var allowed bool
	err := s.Store.DB.QueryRow(ctx, `
    SELECT r.`+column+`
    FROM employees e
    JOIN roles r ON e.role_id = r.id
    WHERE e.id = $1
  `, employeeID).Scan(&allowed)
	if err != nil {
		return false, err
	}
	return allowed, nil
}
