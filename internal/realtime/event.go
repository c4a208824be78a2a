package realtime

import "context"

const (
	EventNewLeave          = "new_leave"
	EventLeaveStatusUpdate = "leave_status_update"
	EventLeaveDeleted      = "leave_deleted"
)

// Event is one live message for connected clients.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Target selects recipients. A subscriber matches when its user id or its
// role is listed.
type Target struct {
	UserIDs []int64  `json:"user_ids,omitempty"`
	Roles   []string `json:"roles,omitempty"`
}

func ToUser(id int64) Target { return Target{UserIDs: []int64{id}} }

func ToRoles(roles ...string) Target { return Target{Roles: roles} }

func (t Target) Empty() bool { return len(t.UserIDs) == 0 && len(t.Roles) == 0 }

func (t Target) matches(userID int64, role string) bool {
	for _, id := range t.UserIDs {
		if id == userID {
			return true
		}
	}
	for _, r := range t.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type Publisher interface {
	Publish(ctx context.Context, target Target, ev Event) error
}
