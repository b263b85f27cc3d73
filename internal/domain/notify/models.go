package notify

import "time"

// Notification types raised by the workflows.
const (
	TypeRequestSubmitted    = "request_submitted"
	TypeRequestApproved     = "request_approved"
	TypeRequestRejected     = "request_rejected"
	TypeMedicalLeaveReview  = "medical_leave_reviewed"
	TypeAnnouncement        = "announcement_published"
	TypeDocumentPublished   = "document_published"
	TypeCancellationRequest = "cancellation_requested"
)

type Notification struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}
