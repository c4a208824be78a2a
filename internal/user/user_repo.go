package user

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByEmployeeID(ctx context.Context, employeeID int64) (*User, error)
	FindActiveByRole(ctx context.Context, role string) ([]User, error)
	FindActive(ctx context.Context) ([]User, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		First(&u, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).Error
	return &u, err
}

func (r *repository) FindByEmployeeID(ctx context.Context, employeeID int64) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "employee_id = ?", employeeID).Error
	return &u, err
}

func (r *repository) FindActiveByRole(ctx context.Context, role string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Where("is_active").
		Order("id ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) FindActive(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Where("is_active").
		Order("id ASC").
		Find(&users).Error
	return users, err
}
