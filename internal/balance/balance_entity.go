package balance

import "time"

// LeaveBalance is one employee's ledger row for a leave type in a calendar year.
type LeaveBalance struct {
	ID           int64  `gorm:"primaryKey"`
	EmployeeID   int64  `gorm:"column:employee_id;not null"`
	LeaveType    string `gorm:"column:leave_type;type:varchar(50);not null"`
	Year         int    `gorm:"not null"`
	TotalBalance int    `gorm:"column:total_balance;not null"`
	UsedBalance  int    `gorm:"column:used_balance;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (LeaveBalance) TableName() string { return "leave_balances" }

// Remaining never goes negative, even when used exceeds the allowance.
func (b LeaveBalance) Remaining() int {
	if r := b.TotalBalance - b.UsedBalance; r > 0 {
		return r
	}
	return 0
}

type LeaveType struct {
	Key         string `gorm:"primaryKey;column:key"`
	Name        string `gorm:"not null"`
	DefaultDays int    `gorm:"column:default_days;not null"`
}

func (LeaveType) TableName() string { return "leave_types" }
