package events

import "time"

const LeaveNotificationTopic = "hr.leave.notification.v1"

const (
	LeaveApprovalRequested = "leave.approval_requested"
	LeaveDecided           = "leave.decided"
	LeaveOrgWideNotice     = "leave.org_wide_notice"
)

type LeaveRecipient struct {
	UserID int64  `json:"user_id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
}

// LeaveNotificationEvent carries everything a consumer needs to render and
// send one leave email without reading the database.
type LeaveNotificationEvent struct {
	EventType     string           `json:"event_type"`
	LeaveID       int64            `json:"leave_id"`
	EmployeeName  string           `json:"employee_name"`
	EmployeeEmail string           `json:"employee_email"`
	LeaveType     string           `json:"leave_type"`
	StartDate     string           `json:"start_date"`
	EndDate       string           `json:"end_date"`
	Days          int              `json:"days"`
	Reason        string           `json:"reason,omitempty"`
	Recipients    []LeaveRecipient `json:"recipients"`
	ApproveToken  string           `json:"approve_token,omitempty"`
	RejectToken   string           `json:"reject_token,omitempty"`
	FinalStatus   string           `json:"final_status,omitempty"`
	ApproverName  string           `json:"approver_name,omitempty"`
	Remark        string           `json:"remark,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}
