package rbac

import (
	"sync"

	"go-offboard/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

// rolePermissions is the static permission matrix over approver roles.
// Approver-level eligibility (who may act on a given request level) is the
// approval engine's concern; this only gates the API surface.
var rolePermissions = map[string][][2]string{
	"HR": {
		{"approval", "read"}, {"approval", "create"}, {"approval", "decide"},
		{"approval", "escalate"}, {"template", "read"}, {"template", "admin"},
		{"session", "read"}, {"session", "create"}, {"session", "update"},
	},
	"IT": {
		{"approval", "read"}, {"approval", "decide"},
		{"template", "read"}, {"session", "read"},
	},
	"Legal": {
		{"approval", "read"}, {"approval", "decide"},
		{"template", "read"}, {"session", "read"},
	},
	"Finance": {
		{"approval", "read"}, {"approval", "decide"},
		{"template", "read"}, {"session", "read"},
	},
	"Manager": {
		{"approval", "read"}, {"approval", "create"}, {"approval", "decide"},
		{"approval", "escalate"}, {"template", "read"},
		{"session", "read"}, {"session", "create"}, {"session", "update"},
	},
	"Executive": {
		{"approval", "read"}, {"approval", "create"}, {"approval", "decide"},
		{"approval", "escalate"}, {"template", "read"}, {"template", "admin"},
		{"session", "read"}, {"session", "create"}, {"session", "update"},
	},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) loadPolicyUnlocked() error {
	s.enforcer.ClearPolicy()

	approverRoles, err := s.repo.GetApproverRoles()
	if err != nil {
		return err
	}

	for _, ar := range approverRoles {
		if _, err := s.enforcer.AddGroupingPolicy(ar.ApproverID, ar.Role); err != nil {
			return err
		}
	}

	for role, perms := range rolePermissions {
		for _, p := range perms {
			if _, err := s.enforcer.AddPolicy(role, p[0], p[1]); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Reload every call: the approver directory is small and read-mostly,
	// and this keeps role changes effective without cache invalidation.
	if err := s.loadPolicyUnlocked(); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(req.ApproverID, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("enforce failed",
			zap.String("approver_id", req.ApproverID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("enforce result",
		zap.String("approver_id", req.ApproverID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)

	return allowed, nil
}
