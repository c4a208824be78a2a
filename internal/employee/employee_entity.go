package employee

import "time"

type Employee struct {
	ID           int64  `gorm:"primaryKey"`
	UserID       *int64 `gorm:"column:user_id"`
	FullName     string `gorm:"type:varchar(255);not null"`
	Email        string `gorm:"type:varchar(255);not null"`
	DepartmentID *int64 `gorm:"column:department_id"`
	LocationID   *int64 `gorm:"column:location_id"`
	ManagerID    *int64 `gorm:"column:manager_id"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Approver is a person as seen by the leave workflow: a user account joined
// with the employee record that places it in a department and location.
// Requesters and broadcast recipients use the same shape.
type Approver struct {
	UserID       int64  `json:"user_id"`
	EmployeeID   int64  `json:"employee_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	DepartmentID *int64 `json:"department_id,omitempty"`
	LocationID   *int64 `json:"location_id,omitempty"`
}
