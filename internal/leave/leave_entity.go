package leave

import "time"

// Gate statuses.
const (
	GatePending  = "Pending"
	GateApproved = "Approved"
	GateRejected = "Rejected"
)

// Overall statuses. The pending sentinel is lowercase while gate values are
// capitalized; clients match on both spellings.
const (
	StatusPending  = "pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

type Gate string

const (
	GateHod   Gate = "hod"
	GateAdmin Gate = "admin"
)

func (g Gate) Valid() bool { return g == GateHod || g == GateAdmin }

// Other is the gate that is not g.
func (g Gate) Other() Gate {
	if g == GateHod {
		return GateAdmin
	}
	return GateHod
}

type LeaveRequest struct {
	ID         int64     `gorm:"primaryKey"`
	EmployeeID int64     `gorm:"column:employee_id;not null"`
	LeaveType  string    `gorm:"column:leave_type;type:varchar(50);not null"`
	StartDate  time.Time `gorm:"type:date;not null"`
	EndDate    time.Time `gorm:"type:date;not null"`
	Days       int       `gorm:"not null"`
	Reason     *string
	Status     string `gorm:"type:varchar(20);not null"`

	HodStatus       string `gorm:"column:hod_status;type:varchar(20);not null"`
	HodApproverID   *int64 `gorm:"column:hod_approver_id"`
	HodRemark       *string
	HodApprovedAt   *time.Time
	AdminStatus     string `gorm:"column:admin_status;type:varchar(20);not null"`
	AdminApproverID *int64 `gorm:"column:admin_approver_id"`
	AdminRemark     *string
	AdminApprovedAt *time.Time

	// BalanceCredited is set, under the row lock, by the first Approved gate.
	// Later gate changes never clear it.
	BalanceCredited bool `gorm:"column:balance_credited;not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string { return "leave_requests" }

func (l *LeaveRequest) GateStatus(g Gate) string {
	if g == GateHod {
		return l.HodStatus
	}
	return l.AdminStatus
}

// SetGate records one gate decision and recomputes the overall status.
func (l *LeaveRequest) SetGate(g Gate, status string, remark *string, approverID *int64, at time.Time) {
	switch g {
	case GateHod:
		l.HodStatus = status
		l.HodRemark = remark
		l.HodApproverID = approverID
		l.HodApprovedAt = &at
	case GateAdmin:
		l.AdminStatus = status
		l.AdminRemark = remark
		l.AdminApproverID = approverID
		l.AdminApprovedAt = &at
	}
	l.Status = DeriveStatus(l.HodStatus, l.AdminStatus)
}

// MarkCredited flags the request once either gate is Approved and reports
// whether this call set the flag, meaning a balance credit is now due.
func (l *LeaveRequest) MarkCredited() bool {
	if l.BalanceCredited {
		return false
	}
	if l.HodStatus != GateApproved && l.AdminStatus != GateApproved {
		return false
	}
	l.BalanceCredited = true
	return true
}

func (l *LeaveRequest) BothPending() bool {
	return l.HodStatus == GatePending && l.AdminStatus == GatePending
}

func (l *LeaveRequest) Year() int { return l.StartDate.Year() }
