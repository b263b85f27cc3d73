package directory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the directory record for a clinic staff member. The four
// balance pools at the bottom are owned by this record but are only ever
// mutated through the ledger package.
type Employee struct {
	ID                 string          `json:"id"`
	RUT                string          `json:"rut"`
	FirstName          string          `json:"firstName"`
	LastNamePaternal   string          `json:"lastNamePaternal"`
	LastNameMaternal   string          `json:"lastNameMaternal"`
	Email              string          `json:"email"`
	Phone              string          `json:"phone"`
	Position           string          `json:"position"`
	AreaID             string          `json:"areaId"`
	RoleID             string          `json:"roleId"`
	RoleLevel          int             `json:"roleLevel"`
	HireDate           time.Time       `json:"hireDate"`
	IsAreaHead         bool            `json:"isAreaHead"`
	Active             bool            `json:"active"`
	VacationDays       int             `json:"vacationDays"`
	AdministrativeDays decimal.Decimal `json:"administrativeDays"`
	UnpaidAccumulated  decimal.Decimal `json:"unpaidAccumulated"`
	LieuHours          decimal.Decimal `json:"lieuHours"`
	CreatedAt          time.Time       `json:"createdAt"`
}

type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Level       int    `json:"level"`

	CanApproveRequests      bool `json:"canApproveRequests"`
	CanManageMedicalLeaves  bool `json:"canManageMedicalLeaves"`
	CanPublishAnnouncements bool `json:"canPublishAnnouncements"`
	CanUploadDocuments      bool `json:"canUploadDocuments"`
	CanCreateActivities     bool `json:"canCreateActivities"`
	CanViewReports          bool `json:"canViewReports"`
	CanManageUsers          bool `json:"canManageUsers"`

	CreatedAt time.Time `json:"createdAt"`
}

type Area struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	HeadID      string    `json:"headId,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BalanceSummary is the per-employee view the frontend dashboards render.
type BalanceSummary struct {
	VacationDays       int             `json:"vacationDays"`
	AdministrativeDays decimal.Decimal `json:"administrativeDays"`
	UnpaidAccumulated  decimal.Decimal `json:"unpaidAccumulated"`
	LieuHours          decimal.Decimal `json:"lieuHours"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastNamePaternal + " " + e.LastNameMaternal
}

func (e Employee) Balances() BalanceSummary {
	return BalanceSummary{
		VacationDays:       e.VacationDays,
		AdministrativeDays: e.AdministrativeDays,
		UnpaidAccumulated:  e.UnpaidAccumulated,
		LieuHours:          e.LieuHours,
	}
}
