package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadPolicy(perms []Permission) error
	Enforce(req EnforceRequest) (bool, error)
	Permissions(role string) ([]Permission, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewService loads DefaultPermissions when perms is empty.
func NewService(enforcer *casbin.Enforcer, logger *zap.Logger, perms ...Permission) (Service, error) {
	if logger == nil {
		logger = zap.L()
	}
	s := &service{enforcer: enforcer, logger: logger.Named("rbac.service")}
	if len(perms) == 0 {
		perms = DefaultPermissions
	}
	if err := s.LoadPolicy(perms); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *service) LoadPolicy(perms []Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enforcer.ClearPolicy()

	for _, g := range inheritance {
		if _, err := s.enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return err
		}
	}
	for _, p := range perms {
		if _, err := s.enforcer.AddPolicy(p.Role, p.Resource, p.Action); err != nil {
			return err
		}
	}

	s.logger.Info("rbac policy loaded", zap.Int("permissions", len(perms)))
	return nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if req.Role == "" {
		return false, nil
	}

	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", req.Role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

// Permissions lists what role may do, inherited grants included.
func (s *service) Permissions(role string) ([]Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rules, err := s.enforcer.GetImplicitPermissionsForUser(role)
	if err != nil {
		return nil, err
	}

	out := make([]Permission, 0, len(rules))
	for _, r := range rules {
		if len(r) < 3 {
			continue
		}
		out = append(out, Permission{Role: r[0], Resource: r[1], Action: r[2]})
	}
	return out, nil
}
