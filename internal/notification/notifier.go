package notification

import (
	"context"
	"time"

	"go-leave/internal/approvaltoken"
	"go-leave/internal/realtime"
)

// LeaveSummary is the part of a leave request that appears in messages.
type LeaveSummary struct {
	ID            int64
	EmployeeName  string
	EmployeeEmail string
	LeaveType     string
	StartDate     time.Time
	EndDate       time.Time
	Days          int
	Reason        string
}

type Recipient struct {
	UserID int64
	Name   string
	Email  string
	Role   string
}

//go:generate mockgen -source=notifier.go -destination=mock/notifier_mock.go -package=mock
type Notifier interface {
	// NotifyApprovalRequested asks one approver to act. tokens is nil when
	// the email carries no one-click links.
	NotifyApprovalRequested(ctx context.Context, leave LeaveSummary, approver Recipient, tokens *approvaltoken.TokenPair) error
	NotifyDecision(ctx context.Context, leave LeaveSummary, employee Recipient, finalStatus, approverName, remark string) error
	NotifyOrgWide(ctx context.Context, leave LeaveSummary, approverName string, recipients []Recipient) error
	PushLiveEvent(ctx context.Context, target realtime.Target, ev realtime.Event) error
}
