package leave

import "time"

const dateLayout = "2006-01-02"

// Actor is the authenticated caller of a lifecycle operation.
type Actor struct {
	UserID     int64
	EmployeeID int64
	Role       string
	Name       string
	Email      string
}

type CreateLeaveRequest struct {
	LeaveType string  `json:"leave_type" binding:"required"`
	StartDate string  `json:"start_date" binding:"required"`
	EndDate   string  `json:"end_date" binding:"required"`
	Days      *int    `json:"days" binding:"omitempty,min=1"`
	Reason    *string `json:"reason"`
}

type CheckOverlapRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	ExcludeID *int64 `json:"exclude_id"`
}

type UpdateLeaveRequest struct {
	LeaveType *string `json:"leave_type"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Days      *int    `json:"days" binding:"omitempty,min=1"`
	Reason    *string `json:"reason"`
}

type ApproveLeaveRequest struct {
	Status  string `json:"status" binding:"required,oneof=Approved Rejected"`
	Comment string `json:"comment"`
}

type BulkApproveRequest struct {
	IDs     []int64 `json:"ids" binding:"required,min=1,dive,gt=0"`
	Status  string  `json:"status" binding:"required,oneof=Approved Rejected"`
	Comment string  `json:"comment"`
}

type ListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending Approved Rejected"`
	EmployeeID int64  `form:"employee_id"`
}

type LeaveResponse struct {
	ID              int64   `json:"id"`
	EmployeeID      int64   `json:"employee_id"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Days            int     `json:"days"`
	Reason          *string `json:"reason"`
	Status          string  `json:"status"`
	HodStatus       string  `json:"hod_status"`
	HodApproverID   *int64  `json:"hod_approver_id"`
	HodRemark       *string `json:"hod_remark"`
	HodApprovedAt   *string `json:"hod_approved_at"`
	AdminStatus     string  `json:"admin_status"`
	AdminApproverID *int64  `json:"admin_approver_id"`
	AdminRemark     *string `json:"admin_remark"`
	AdminApprovedAt *string `json:"admin_approved_at"`
	BalanceCredited bool    `json:"balance_credited"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type OverlapResponse struct {
	HasOverlap bool            `json:"has_overlap"`
	Conflicts  []LeaveResponse `json:"conflicts"`
}

type BulkFailure struct {
	ID         int64  `json:"id"`
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
}

type BulkResult struct {
	Successful []int64       `json:"successful"`
	Failed     []BulkFailure `json:"failed"`
}

type EmailActionResponse struct {
	Message string        `json:"message"`
	Leave   LeaveResponse `json:"leave"`
}

func toResponse(l LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:              l.ID,
		EmployeeID:      l.EmployeeID,
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate.Format(dateLayout),
		EndDate:         l.EndDate.Format(dateLayout),
		Days:            l.Days,
		Reason:          l.Reason,
		Status:          l.Status,
		HodStatus:       l.HodStatus,
		HodApproverID:   l.HodApproverID,
		HodRemark:       l.HodRemark,
		HodApprovedAt:   formatTime(l.HodApprovedAt),
		AdminStatus:     l.AdminStatus,
		AdminApproverID: l.AdminApproverID,
		AdminRemark:     l.AdminRemark,
		AdminApprovedAt: formatTime(l.AdminApprovedAt),
		BalanceCredited: l.BalanceCredited,
		CreatedAt:       l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       l.UpdatedAt.Format(time.RFC3339),
	}
}

func toResponses(rows []LeaveRequest) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(rows))
	for _, l := range rows {
		out = append(out, toResponse(l))
	}
	return out
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
