package employee

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/user"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	AdminRosterKey = "directory:admins"
	adminRosterTTL = 5 * time.Minute
)

// Service is the read-only directory the leave workflow resolves people through.
type Service interface {
	GetByID(ctx context.Context, id int64) (*Employee, error)
	Person(ctx context.Context, employeeID int64) (Approver, error)
	ResolveHod(ctx context.Context, emp Employee) (*Approver, error)
	Admins(ctx context.Context) ([]Approver, error)
	ApproverByEmail(ctx context.Context, email string) (*Approver, error)
	ActiveRecipients(ctx context.Context) ([]Approver, error)
}

type service struct {
	repo   Repository
	users  user.Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, users user.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		repo:   repo,
		users:  users,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetByID(ctx context.Context, id int64) (*Employee, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapEmployeeError(err)
	}
	return e, nil
}

func (s *service) Person(ctx context.Context, employeeID int64) (Approver, error) {
	e, err := s.GetByID(ctx, employeeID)
	if err != nil {
		return Approver{}, err
	}

	u, err := s.users.FindByEmployeeID(ctx, employeeID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return Approver{}, err
		}
		// employee without a login account
		return Approver{
			EmployeeID:   e.ID,
			Name:         e.FullName,
			Email:        e.Email,
			Role:         user.RoleEmployee,
			DepartmentID: e.DepartmentID,
			LocationID:   e.LocationID,
		}, nil
	}

	return toApprover(*u, e), nil
}

func (s *service) ResolveHod(ctx context.Context, emp Employee) (*Approver, error) {
	var snap Snapshot

	if emp.ManagerID != nil {
		m, err := s.Person(ctx, *emp.ManagerID)
		switch {
		case err == nil:
			snap.Manager = &m
		case errors.Is(err, employeeerrors.ErrEmployeeNotFound):
			s.logger.Warn("assigned manager not found",
				zap.Int64("employee_id", emp.ID),
				zap.Int64("manager_id", *emp.ManagerID),
			)
		default:
			return nil, err
		}
		return ResolveHod(emp, snap)
	}

	hods, err := s.approversByRole(ctx, user.RoleHod)
	if err != nil {
		return nil, err
	}
	snap.Hods = hods
	return ResolveHod(emp, snap)
}

// Admins is read on every new request, so the roster is cached in redis
// and concurrent misses collapse into one query.
func (s *service) Admins(ctx context.Context) ([]Approver, error) {
	if s.rdb != nil {
		val, err := s.rdb.Get(ctx, AdminRosterKey).Result()
		if err == nil {
			var cached []Approver
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("admin roster cache read failed", zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(AdminRosterKey, func() (any, error) {
		admins, err := s.approversByRole(ctx, user.RoleAdmin)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(admins); err == nil {
				if err := s.rdb.Set(ctx, AdminRosterKey, string(payload), adminRosterTTL).Err(); err != nil {
					s.logger.Warn("admin roster cache write failed", zap.Error(err))
				}
			}
		}
		return admins, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Approver), nil
}

func (s *service) ApproverByEmail(ctx context.Context, email string) (*Approver, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, mapRepositoryError(err, employeeerrors.ErrApproverNotFound)
	}
	if !u.IsActive {
		return nil, employeeerrors.ErrApproverNotFound
	}

	var e *Employee
	if u.EmployeeID != nil {
		found, err := s.repo.FindByID(ctx, *u.EmployeeID)
		switch {
		case err == nil:
			e = found
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	a := toApprover(*u, e)
	return &a, nil
}

func (s *service) ActiveRecipients(ctx context.Context) ([]Approver, error) {
	users, err := s.users.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Approver, 0, len(users))
	for _, u := range users {
		out = append(out, toApprover(u, nil))
	}
	return out, nil
}

func (s *service) approversByRole(ctx context.Context, role string) ([]Approver, error) {
	users, err := s.users.FindActiveByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		if u.EmployeeID != nil {
			ids = append(ids, *u.EmployeeID)
		}
	}
	employees, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*Employee, len(employees))
	for i := range employees {
		byID[employees[i].ID] = &employees[i]
	}

	out := make([]Approver, 0, len(users))
	for _, u := range users {
		var e *Employee
		if u.EmployeeID != nil {
			e = byID[*u.EmployeeID]
		}
		out = append(out, toApprover(u, e))
	}
	return out, nil
}

func toApprover(u user.User, e *Employee) Approver {
	a := Approver{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
	}
	if u.EmployeeID != nil {
		a.EmployeeID = *u.EmployeeID
	}
	if e != nil {
		a.EmployeeID = e.ID
		a.DepartmentID = e.DepartmentID
		a.LocationID = e.LocationID
		if a.Name == "" {
			a.Name = e.FullName
		}
	}
	return a
}
