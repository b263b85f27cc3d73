package activity

import "time"

type Activity struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	AllDay      bool      `json:"allDay"`
	Location    string    `json:"location"`
	// Capacity 0 means unlimited.
	Capacity  int       `json:"capacity"`
	Enrolled  int       `json:"enrolled"`
	AreaIDs   []string  `json:"areaIds,omitempty"`
	CreatedBy string    `json:"createdBy"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

type Enrollment struct {
	ID           string    `json:"id"`
	ActivityID   string    `json:"activityId"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	EnrolledAt   time.Time `json:"enrolledAt"`
}

type CreateInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	AllDay      bool      `json:"allDay"`
	Location    string    `json:"location"`
	Capacity    int       `json:"capacity"`
	AreaIDs     []string  `json:"areaIds"`
}
