package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HodScope describes which employees' requests a HOD may act on.
type HodScope struct {
	EmployeeID   int64
	DepartmentID *int64
	LocationID   *int64
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id int64) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*LeaveRequest, error)
	FindActiveByEmployee(ctx context.Context, employeeID int64, excludeID *int64) ([]LeaveRequest, error)
	FindByEmployee(ctx context.Context, employeeID int64) ([]LeaveRequest, error)
	FindAll(ctx context.Context, filter ListFilter) ([]LeaveRequest, error)
	FindForHod(ctx context.Context, scope HodScope, filter ListFilter) ([]LeaveRequest, error)
	FindApprovedBetween(ctx context.Context, from, to time.Time) ([]LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn runs statements on the bound transaction when there is one.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id int64) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "id = ?", id).Error
	return &l, err
}

// FindActiveByEmployee returns requests that still block their dates:
// at least one gate Pending or Approved.
func (r *repository) FindActiveByEmployee(ctx context.Context, employeeID int64, excludeID *int64) ([]LeaveRequest, error) {
	active := []string{GatePending, GateApproved}
	db := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("(hod_status IN ? OR admin_status IN ?)", active, active)
	if excludeID != nil {
		db = db.Where("id <> ?", *excludeID)
	}

	var rows []LeaveRequest
	err := db.Order("start_date ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID int64) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := applyFilter(r.conn(ctx), filter, "").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindForHod(ctx context.Context, scope HodScope, filter ListFilter) ([]LeaveRequest, error) {
	db := r.conn(ctx).
		Joins("JOIN employees e ON e.id = leave_requests.employee_id")

	reach := r.db.Where("e.manager_id = ?", scope.EmployeeID)
	if scope.DepartmentID != nil {
		reach = reach.Or("e.id <> ? AND e.department_id = ?", scope.EmployeeID, *scope.DepartmentID)
	}
	if scope.LocationID != nil {
		reach = reach.Or("e.id <> ? AND e.location_id = ?", scope.EmployeeID, *scope.LocationID)
	}

	var rows []LeaveRequest
	err := applyFilter(db.Where(reach), filter, "leave_requests.").
		Order("leave_requests.created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindApprovedBetween(ctx context.Context, from, to time.Time) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.conn(ctx).
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Order("start_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.conn(ctx).Delete(&LeaveRequest{}, "id = ?", id).Error
}

func applyFilter(db *gorm.DB, filter ListFilter, prefix string) *gorm.DB {
	if filter.Status != "" {
		db = db.Where(prefix+"status = ?", filter.Status)
	}
	if filter.EmployeeID != 0 {
		db = db.Where(prefix+"employee_id = ?", filter.EmployeeID)
	}
	return db
}
