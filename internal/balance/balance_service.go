package balance

import (
	"context"
	"errors"

	balanceerrors "go-leave/internal/balance/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is the leave balance ledger. Callers decide when a credit is due;
// the ledger only applies it.
type Service interface {
	CreditOnApproval(ctx context.Context, employeeID int64, leaveType string, year, days int) error
	DebitOnDeletion(ctx context.Context, employeeID int64, leaveType string, year, days int) error
	Balances(ctx context.Context, employeeID int64, year int) ([]BalanceResponse, error)
	LeaveType(ctx context.Context, key string) (*LeaveType, error)
	LeaveTypes(ctx context.Context) ([]LeaveTypeResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) CreditOnApproval(ctx context.Context, employeeID int64, leaveType string, year, days int) error {
	if days <= 0 {
		return balanceerrors.ErrInvalidDays
	}

	total := 0
	lt, err := s.LeaveType(ctx, leaveType)
	switch {
	case err == nil:
		total = lt.DefaultDays
	case errors.Is(err, balanceerrors.ErrLeaveTypeNotFound):
		s.logger.Warn("crediting leave type missing from catalog",
			zap.String("leave_type", leaveType),
			zap.Int64("employee_id", employeeID),
		)
	default:
		return err
	}

	err = s.repo.Credit(ctx, &LeaveBalance{
		EmployeeID:   employeeID,
		LeaveType:    leaveType,
		Year:         year,
		TotalBalance: total,
		UsedBalance:  days,
	})
	if err != nil {
		return err
	}

	s.logger.Info("leave balance credited",
		zap.Int64("employee_id", employeeID),
		zap.String("leave_type", leaveType),
		zap.Int("year", year),
		zap.Int("days", days),
	)
	return nil
}

func (s *service) DebitOnDeletion(ctx context.Context, employeeID int64, leaveType string, year, days int) error {
	if days <= 0 {
		return balanceerrors.ErrInvalidDays
	}

	n, err := s.repo.Debit(ctx, employeeID, leaveType, year, days)
	if err != nil {
		return err
	}
	if n == 0 {
		s.logger.Warn("no balance row to debit",
			zap.Int64("employee_id", employeeID),
			zap.String("leave_type", leaveType),
			zap.Int("year", year),
		)
		return nil
	}

	s.logger.Info("leave balance debited",
		zap.Int64("employee_id", employeeID),
		zap.String("leave_type", leaveType),
		zap.Int("year", year),
		zap.Int("days", days),
	)
	return nil
}

// Balances lists one entry per catalog leave type. Types the employee has
// not used yet report the catalog allowance with nothing used.
func (s *service) Balances(ctx context.Context, employeeID int64, year int) ([]BalanceResponse, error) {
	types, err := s.repo.ListLeaveTypes(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListForEmployee(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}

	byType := make(map[string]LeaveBalance, len(rows))
	for _, r := range rows {
		byType[r.LeaveType] = r
	}

	out := make([]BalanceResponse, 0, len(types))
	for _, t := range types {
		b, ok := byType[t.Key]
		if !ok {
			b = LeaveBalance{LeaveType: t.Key, Year: year, TotalBalance: t.DefaultDays}
		}
		delete(byType, t.Key)
		out = append(out, toResponse(b, t.Name))
	}
	// rows for types dropped from the catalog
	for _, r := range rows {
		if _, ok := byType[r.LeaveType]; ok {
			out = append(out, toResponse(r, r.LeaveType))
		}
	}
	return out, nil
}

func (s *service) LeaveType(ctx context.Context, key string) (*LeaveType, error) {
	lt, err := s.repo.FindLeaveType(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, balanceerrors.ErrLeaveTypeNotFound
		}
		return nil, err
	}
	return lt, nil
}

func (s *service) LeaveTypes(ctx context.Context) ([]LeaveTypeResponse, error) {
	types, err := s.repo.ListLeaveTypes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, LeaveTypeResponse{Key: t.Key, Name: t.Name, DefaultDays: t.DefaultDays})
	}
	return out, nil
}

func toResponse(b LeaveBalance, name string) BalanceResponse {
	return BalanceResponse{
		LeaveType: b.LeaveType,
		Name:      name,
		Year:      b.Year,
		Total:     b.TotalBalance,
		Used:      b.UsedBalance,
		Remaining: b.Remaining(),
	}
}
