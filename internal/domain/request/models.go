package request

import (
	"time"

	"github.com/shopspring/decimal"

	"intranet/internal/domain/ledger"
)

type Approval struct {
	ApproverID   string    `json:"approverId"`
	ApproverName string    `json:"approverName,omitempty"`
	At           time.Time `json:"at"`
}

type LeaveRequest struct {
	ID           string           `json:"id"`
	Number       string           `json:"number"`
	EmployeeID   string           `json:"employeeId"`
	EmployeeName string           `json:"employeeName,omitempty"`
	AreaID       string           `json:"areaId,omitempty"`
	Type         ledger.LeaveType `json:"type"`
	StartDate    time.Time        `json:"startDate"`
	EndDate      time.Time        `json:"endDate"`
	Quantity     decimal.Decimal  `json:"quantity"`
	Reason       string           `json:"reason"`
	ContactPhone string           `json:"contactPhone"`
	State        string           `json:"state"`

	Supervisor         *Approval `json:"supervisorApproval,omitempty"`
	Direction          *Approval `json:"directionApproval,omitempty"`
	ResolutionComments string    `json:"resolutionComments,omitempty"`

	PDFGenerated bool   `json:"pdfGenerated"`
	PDFURL       string `json:"pdfUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SubmitInput struct {
	Type         ledger.LeaveType
	StartDate    time.Time
	EndDate      time.Time
	Quantity     decimal.Decimal
	Reason       string
	ContactPhone string
}
