package employee

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Employee, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Employee, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByIDs(ctx context.Context, ids []int64) ([]Employee, error) {
	var employees []Employee
	if len(ids) == 0 {
		return employees, nil
	}
	err := r.db.WithContext(ctx).
		Where("id = ANY(?)", pq.Array(ids)).
		Order("id ASC").
		Find(&employees).Error
	return employees, err
}
