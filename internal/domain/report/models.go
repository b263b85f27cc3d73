package report

import "github.com/shopspring/decimal"

type AreaBalance struct {
	AreaID             string          `json:"areaId"`
	AreaName           string          `json:"areaName"`
	Employees          int             `json:"employees"`
	VacationDays       int             `json:"vacationDays"`
	AdministrativeDays decimal.Decimal `json:"administrativeDays"`
	LieuHours          decimal.Decimal `json:"lieuHours"`
	UnpaidAccumulated  decimal.Decimal `json:"unpaidAccumulated"`
}

type UsageRow struct {
	Type     string          `json:"type"`
	Requests int             `json:"requests"`
	Quantity decimal.Decimal `json:"quantity"`
}

type Dashboard struct {
	PendingRequests      int `json:"pendingRequests"`
	PendingMedicalLeaves int `json:"pendingMedicalLeaves"`
	CurrentMedicalLeaves int `json:"currentMedicalLeaves"`
	ActiveEmployees      int `json:"activeEmployees"`
}
