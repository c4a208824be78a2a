package leave

// DeriveStatus folds the two gates into the overall status: any rejection
// wins, both approvals approve, anything else is still pending.
func DeriveStatus(hod, admin string) string {
	switch {
	case hod == GateRejected || admin == GateRejected:
		return StatusRejected
	case hod == GateApproved && admin == GateApproved:
		return StatusApproved
	default:
		return StatusPending
	}
}

func isTerminal(status string) bool {
	return status == StatusApproved || status == StatusRejected
}
