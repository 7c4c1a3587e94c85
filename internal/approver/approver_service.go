package approver

import (
	"context"
	"errors"

	approvererrors "go-offboard/internal/approver/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=approver_service.go -destination=mock/approver_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateApproverRequest) (ApproverResponse, error)
	GetAll(ctx context.Context) ([]ApproverResponse, error)
	GetByID(ctx context.Context, id string) (ApproverResponse, error)
	GetByRole(ctx context.Context, role string) ([]ApproverResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("approver.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approver.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateApproverRequest) (ApproverResponse, error) {
	s.logger.Debug("create approver requested",
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	if !IsValidRole(req.Role) {
		return ApproverResponse{}, approvererrors.ErrInvalidRole
	}

	a := &Approver{
		ID:    uuid.New(),
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}

	if req.DelegateTo != nil && *req.DelegateTo != "" {
		delegate, err := s.repo.FindByID(ctx, *req.DelegateTo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ApproverResponse{}, approvererrors.ErrInvalidDelegate
			}
			return ApproverResponse{}, err
		}
		a.DelegateTo = &delegate.ID
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("create approver persist failed", zap.Error(err))
		return ApproverResponse{}, mapRepositoryError(err)
	}

	return toApproverResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context) ([]ApproverResponse, error) {
	approvers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("list approvers failed", zap.Error(err))
		return nil, err
	}

	resp := make([]ApproverResponse, 0, len(approvers))
	for _, a := range approvers {
		resp = append(resp, toApproverResponse(a))
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (ApproverResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ApproverResponse{}, approvererrors.ErrApproverNotFound
		}
		return ApproverResponse{}, err
	}
	return toApproverResponse(*a), nil
}

func (s *service) GetByRole(ctx context.Context, role string) ([]ApproverResponse, error) {
	if !IsValidRole(role) {
		return nil, approvererrors.ErrInvalidRole
	}

	approvers, err := s.repo.FindByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	resp := make([]ApproverResponse, 0, len(approvers))
	for _, a := range approvers {
		resp = append(resp, toApproverResponse(a))
	}
	return resp, nil
}

func toApproverResponse(a Approver) ApproverResponse {
	resp := ApproverResponse{
		ID:    a.ID.String(),
		Name:  a.Name,
		Email: a.Email,
		Role:  a.Role,
	}
	if a.DelegateTo != nil {
		delegateID := a.DelegateTo.String()
		resp.DelegateTo = &delegateID
	}
	return resp
}
