package rbac

import (
	"go-leave/internal/user"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	ResourceLeave    = "leave"
	ResourceBalance  = "balance"
	ResourceCalendar = "calendar"

	ActionCreate       = "create"
	ActionRead         = "read"
	ActionList         = "list"
	ActionUpdate       = "update"
	ActionDelete       = "delete"
	ActionApproveHod   = "approve_hod"
	ActionApproveAdmin = "approve_admin"
)

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// DefaultPermissions is the built-in leave policy. Roles inherit along
// admin -> hod -> employee.
var DefaultPermissions = []Permission{
	{user.RoleEmployee, ResourceLeave, ActionCreate},
	{user.RoleEmployee, ResourceLeave, ActionRead},
	{user.RoleEmployee, ResourceLeave, ActionUpdate},
	{user.RoleEmployee, ResourceLeave, ActionDelete},
	{user.RoleEmployee, ResourceBalance, ActionRead},
	{user.RoleEmployee, ResourceCalendar, ActionRead},
	{user.RoleHod, ResourceLeave, ActionList},
	{user.RoleHod, ResourceLeave, ActionApproveHod},
	{user.RoleAdmin, ResourceLeave, ActionApproveAdmin},
}

var inheritance = [][2]string{
	{user.RoleHod, user.RoleEmployee},
	{user.RoleAdmin, user.RoleHod},
}

func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	return casbin.NewEnforcer(m)
}
