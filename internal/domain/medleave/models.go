package medleave

import "time"

type MedicalLeave struct {
	ID           string     `json:"id"`
	Folio        string     `json:"folio"`
	EmployeeID   string     `json:"employeeId"`
	EmployeeName string     `json:"employeeName"`
	AreaID       string     `json:"areaId"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	TotalDays    int        `json:"totalDays"`
	DocumentURL  string     `json:"documentUrl,omitempty"`
	State        string     `json:"state"`
	ReviewerID   *string    `json:"reviewerId,omitempty"`
	ReviewedAt   *time.Time `json:"reviewedAt,omitempty"`
	Comments     string     `json:"comments,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsCurrent reports whether the leave covers the given instant. Only approved
// leaves count as current.
func (m MedicalLeave) IsCurrent(now time.Time) bool {
	if m.State != StateApproved {
		return false
	}
	day := calendarDate(now)
	return !day.Before(calendarDate(m.StartDate)) && !day.After(calendarDate(m.EndDate))
}

// DaysRemaining counts the days of the leave still ahead, inclusive of today.
func (m MedicalLeave) DaysRemaining(now time.Time) int {
	if !m.IsCurrent(now) {
		return 0
	}
	return int(calendarDate(m.EndDate).Sub(calendarDate(now)).Hours()/24) + 1
}

type SubmitInput struct {
	Folio       string    `json:"folio"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	DocumentURL string    `json:"documentUrl"`
}
