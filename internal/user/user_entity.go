package user

import "time"

const (
	RoleEmployee = "employee"
	RoleHod      = "hod"
	RoleAdmin    = "admin"
)

type User struct {
	ID         int64  `gorm:"column:id;primaryKey"`
	EmployeeID *int64 `gorm:"column:employee_id"`
	Name       string `gorm:"column:name;type:varchar(255)"`
	Email      string `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	Role       string `gorm:"column:role;type:varchar(20);default:employee"`
	IsActive   bool   `gorm:"column:is_active;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
