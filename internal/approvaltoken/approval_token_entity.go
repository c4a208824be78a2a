package approvaltoken

import "time"

const (
	ActionApprove = "approve"
	ActionReject  = "reject"

	RoleHod   = "hod"
	RoleAdmin = "admin"

	TokenBytes = 32
	TTL        = 7 * 24 * time.Hour
)

// ApprovalToken is a single-use credential that lets one approver act on one
// request from an email link.
type ApprovalToken struct {
	Token          string
	LeaveRequestID int64
	ApproverEmail  string
	ApproverRole   string
	Action         string
	Used           bool
	ExpiresAt      time.Time
	CreatedAt      time.Time
}

// TokenPair is what one approval email carries.
type TokenPair struct {
	Approve string
	Reject  string
}

func ValidAction(a string) bool {
	return a == ActionApprove || a == ActionReject
}

func ValidRole(r string) bool {
	return r == RoleHod || r == RoleAdmin
}
