package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		hod, admin string
		want       string
	}{
		{GatePending, GatePending, StatusPending},
		{GatePending, GateApproved, StatusPending},
		{GatePending, GateRejected, StatusRejected},
		{GateApproved, GatePending, StatusPending},
		{GateApproved, GateApproved, StatusApproved},
		{GateApproved, GateRejected, StatusRejected},
		{GateRejected, GatePending, StatusRejected},
		{GateRejected, GateApproved, StatusRejected},
		{GateRejected, GateRejected, StatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.hod+"/"+tt.admin, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.hod, tt.admin))
		})
	}
}

func TestLeaveRequest_SetGate(t *testing.T) {
	l := LeaveRequest{HodStatus: GatePending, AdminStatus: GatePending, Status: StatusPending}
	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	assert.True(t, l.BothPending())
	assert.False(t, l.MarkCredited())

	l.SetGate(GateAdmin, GateApproved, ptr("ok"), ptr(int64(3)), at)
	assert.Equal(t, StatusPending, l.Status)
	assert.Equal(t, "ok", *l.AdminRemark)
	assert.Equal(t, at, *l.AdminApprovedAt)
	assert.False(t, l.BothPending())
	assert.Nil(t, l.HodApprovedAt)

	l.SetGate(GateHod, GateApproved, nil, ptr(int64(2)), at)
	assert.Equal(t, StatusApproved, l.Status)

	assert.Equal(t, GateAdmin, GateHod.Other())
	assert.Equal(t, GateHod, GateAdmin.Other())
	assert.False(t, Gate("finance").Valid())
}

func TestLeaveRequest_MarkCredited(t *testing.T) {
	l := LeaveRequest{HodStatus: GatePending, AdminStatus: GatePending, Status: StatusPending}
	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	l.SetGate(GateAdmin, GateRejected, nil, nil, at)
	assert.False(t, l.MarkCredited())
	assert.False(t, l.BalanceCredited)

	l.SetGate(GateAdmin, GateApproved, nil, nil, at)
	assert.True(t, l.MarkCredited())
	assert.False(t, l.MarkCredited())

	// flipping the gate back does not clear the flag
	l.SetGate(GateAdmin, GateRejected, nil, nil, at)
	assert.True(t, l.BalanceCredited)
	l.SetGate(GateAdmin, GateApproved, nil, nil, at)
	assert.False(t, l.MarkCredited())
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name         string
		aStart, aEnd string
		bStart, bEnd string
		want         bool
	}{
		{"identical", "2024-06-10", "2024-06-12", "2024-06-10", "2024-06-12", true},
		{"touching end", "2024-06-10", "2024-06-12", "2024-06-12", "2024-06-15", true},
		{"touching start", "2024-06-10", "2024-06-12", "2024-06-08", "2024-06-10", true},
		{"inside", "2024-06-10", "2024-06-20", "2024-06-12", "2024-06-13", true},
		{"covering", "2024-06-12", "2024-06-13", "2024-06-10", "2024-06-20", true},
		{"before", "2024-06-10", "2024-06-12", "2024-06-01", "2024-06-09", false},
		{"after", "2024-06-10", "2024-06-12", "2024-06-13", "2024-06-14", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a1, a2, b1, b2 := day(tt.aStart), day(tt.aEnd), day(tt.bStart), day(tt.bEnd)
			assert.Equal(t, tt.want, Overlaps(a1, a2, b1, b2))
			assert.Equal(t, tt.want, Overlaps(b1, b2, a1, a2), "symmetric")
			assert.True(t, Overlaps(a1, a2, a1, a2), "reflexive")
		})
	}
}

func TestInclusiveDays(t *testing.T) {
	assert.Equal(t, 1, inclusiveDays(day("2024-06-10"), day("2024-06-10")))
	assert.Equal(t, 3, inclusiveDays(day("2024-06-10"), day("2024-06-12")))
	// leap day
	assert.Equal(t, 2, inclusiveDays(day("2024-02-28"), day("2024-02-29")))
}
