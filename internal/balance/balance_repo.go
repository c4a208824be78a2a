package balance

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	Credit(ctx context.Context, b *LeaveBalance) error
	Debit(ctx context.Context, employeeID int64, leaveType string, year, days int) (int64, error)
	ListForEmployee(ctx context.Context, employeeID int64, year int) ([]LeaveBalance, error)
	FindLeaveType(ctx context.Context, key string) (*LeaveType, error)
	ListLeaveTypes(ctx context.Context) ([]LeaveType, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Credit inserts the row on first use; afterwards it only grows used_balance.
// total_balance of an existing row is left untouched.
func (r *repository) Credit(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}, {Name: "leave_type"}, {Name: "year"}},
			DoUpdates: clause.Assignments(map[string]any{
				"used_balance": gorm.Expr("leave_balances.used_balance + EXCLUDED.used_balance"),
				"updated_at":   gorm.Expr("NOW()"),
			}),
		}).
		Create(b).Error
}

func (r *repository) Debit(ctx context.Context, employeeID int64, leaveType string, year, days int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("employee_id = ? AND leave_type = ? AND year = ?", employeeID, leaveType, year).
		UpdateColumns(map[string]any{
			"used_balance": gorm.Expr("GREATEST(used_balance - ?, 0)", days),
			"updated_at":   gorm.Expr("NOW()"),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) ListForEmployee(ctx context.Context, employeeID int64, year int) ([]LeaveBalance, error) {
	var rows []LeaveBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND year = ?", employeeID, year).
		Order("leave_type ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindLeaveType(ctx context.Context, key string) (*LeaveType, error) {
	var lt LeaveType
	err := r.db.WithContext(ctx).First(&lt, "key = ?", key).Error
	return &lt, err
}

func (r *repository) ListLeaveTypes(ctx context.Context) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).Order("key ASC").Find(&types).Error
	return types, err
}
