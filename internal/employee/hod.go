package employee

import (
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/user"
)

// Snapshot is the slice of the directory HOD resolution looks at.
// Manager is the employee's assigned manager, if any could be loaded.
// Hods are the active HOD accounts, ordered by employee id.
type Snapshot struct {
	Manager *Approver
	Hods    []Approver
}

// ResolveHod picks the approver for an employee's HOD gate.
//
// Priority: assigned manager, then a HOD of the same department, then a HOD
// of the same location. Once a manager is assigned it is authoritative: a
// manager who is not a HOD is an error, not a reason to fall back.
func ResolveHod(emp Employee, snap Snapshot) (*Approver, error) {
	if emp.ManagerID != nil {
		m := snap.Manager
		if m == nil || m.EmployeeID != *emp.ManagerID || m.Role != user.RoleHod {
			return nil, employeeerrors.ErrAssignedManagerNotHod
		}
		return m, nil
	}

	for i := range snap.Hods {
		h := snap.Hods[i]
		if h.EmployeeID != emp.ID && sameRef(h.DepartmentID, emp.DepartmentID) {
			return &h, nil
		}
	}
	for i := range snap.Hods {
		h := snap.Hods[i]
		if h.EmployeeID != emp.ID && sameRef(h.LocationID, emp.LocationID) {
			return &h, nil
		}
	}

	return nil, employeeerrors.ErrHodNotFound
}

// CanApproveAsHod reports whether actor may decide the HOD gate of emp's requests.
func CanApproveAsHod(emp Employee, actor Approver) bool {
	if emp.ManagerID != nil && *emp.ManagerID == actor.EmployeeID {
		return true
	}
	if actor.Role != user.RoleHod || actor.EmployeeID == emp.ID {
		return false
	}
	return sameRef(actor.DepartmentID, emp.DepartmentID) || sameRef(actor.LocationID, emp.LocationID)
}

// both set and equal
func sameRef(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}
