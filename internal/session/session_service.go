package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-offboard/internal/approval"
	sessionerrors "go-offboard/internal/session/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=session_service.go -destination=mock/session_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateSessionRequest) (SessionResponse, error)
	GetAll(ctx context.Context) ([]SessionResponse, error)
	GetByID(ctx context.Context, id string) (SessionResponse, error)
	StartTask(ctx context.Context, sessionID, taskID string) (TaskResponse, error)
	CompleteTask(ctx context.Context, sessionID, taskID string) (TaskResponse, error)
	Cancel(ctx context.Context, id string) (SessionResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	approvals approval.Service
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, approvals approval.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("session.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.service")
	}
	return &service{db: db, repo: repo, approvals: approvals, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateSessionRequest) (SessionResponse, error) {
	s.logger.Debug("create session requested",
		zap.String("employee_id", req.EmployeeID),
		zap.Int("tasks", len(req.Tasks)),
	)

	if len(req.Tasks) == 0 {
		return SessionResponse{}, sessionerrors.ErrNoTasks
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create session begin tx failed", zap.Error(err))
		return SessionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sess := &OffboardingSession{
		ID:           uuid.New(),
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Department:   req.Department,
		Status:       StatusActive,
		StartedBy:    req.StartedBy,
	}

	for _, t := range req.Tasks {
		department := t.Department
		if department == "" {
			department = req.Department
		}
		sess.Tasks = append(sess.Tasks, OffboardingTask{
			ID:               uuid.New(),
			SessionID:        sess.ID,
			Name:             t.Name,
			TaskType:         t.TaskType,
			Department:       department,
			Status:           TaskStatusPending,
			RequiresApproval: t.RequiresApproval,
		})
	}

	if err := qtx.CreateSession(ctx, sess); err != nil {
		s.logger.Error("create session persist failed", zap.Error(err))
		return SessionResponse{}, mapSessionError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create session commit failed", zap.Error(err))
		return SessionResponse{}, err
	}

	s.logger.Info("offboarding session created",
		zap.String("session_id", sess.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("tasks", len(sess.Tasks)),
	)

	return toSessionResponse(*sess), nil
}

func (s *service) GetAll(ctx context.Context) ([]SessionResponse, error) {
	sessions, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, toSessionResponse(sess))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id string) (SessionResponse, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionResponse{}, sessionerrors.ErrSessionNotFound
		}
		return SessionResponse{}, err
	}
	return toSessionResponse(*sess), nil
}

// StartTask moves a pending task forward. Tasks that require approval get an
// approval request created from the first template matching the task's
// department and type, and wait in awaiting_approval until it is decided.
func (s *service) StartTask(ctx context.Context, sessionID, taskID string) (TaskResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("start task begin tx failed", zap.Error(err))
		return TaskResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sess, err := qtx.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TaskResponse{}, sessionerrors.ErrSessionNotFound
		}
		return TaskResponse{}, err
	}
	if !sess.IsActive() {
		return TaskResponse{}, sessionerrors.ErrSessionNotActive
	}

	task, err := qtx.FindTask(ctx, sessionID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TaskResponse{}, sessionerrors.ErrTaskNotFound
		}
		return TaskResponse{}, err
	}
	if task.Status != TaskStatusPending {
		return TaskResponse{}, sessionerrors.ErrTaskAlreadyStarted
	}

	if !task.RequiresApproval {
		task.Status = TaskStatusInProgress
		if err := qtx.UpdateTask(ctx, task); err != nil {
			s.logger.Error("start task persist failed", zap.Error(err))
			return TaskResponse{}, err
		}
		if err := tx.Commit(); err != nil {
			return TaskResponse{}, err
		}
		return toTaskResponse(*task), nil
	}

	templates, err := s.approvals.ListTemplates(ctx, task.Department, task.TaskType)
	if err != nil {
		return TaskResponse{}, err
	}
	if len(templates) == 0 {
		return TaskResponse{}, sessionerrors.ErrNoMatchingTemplate
	}

	ar, err := s.approvals.CreateRequest(ctx, approval.CreateApprovalRequest{
		SessionID:   sess.ID.String(),
		TaskID:      task.ID.String(),
		TaskName:    task.Name,
		RequestedBy: sess.StartedBy,
		TemplateID:  templates[0].ID,
		Metadata: map[string]string{
			"employee_id": sess.EmployeeID,
			"department":  task.Department,
			"task_type":   task.TaskType,
		},
	})
	if err != nil {
		return TaskResponse{}, err
	}

	task.Status = TaskStatusAwaitingApproval
	task.ApprovalRequestID = &ar.ID

	if err := qtx.UpdateTask(ctx, task); err != nil {
		s.logger.Error("start task persist failed", zap.Error(err))
		return TaskResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("start task commit failed", zap.Error(err))
		return TaskResponse{}, err
	}

	s.logger.Info("task entered approval",
		zap.String("session_id", sessionID),
		zap.String("task_id", taskID),
		zap.String("approval_request_id", ar.ID),
		zap.String("template_id", templates[0].ID),
	)

	return toTaskResponse(*task), nil
}

// CompleteTask finishes a task. Approval-gated tasks complete only when their
// linked request is approved; a rejected request marks the task rejected.
func (s *service) CompleteTask(ctx context.Context, sessionID, taskID string) (TaskResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("complete task begin tx failed", zap.Error(err))
		return TaskResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sess, err := qtx.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TaskResponse{}, sessionerrors.ErrSessionNotFound
		}
		return TaskResponse{}, err
	}
	if !sess.IsActive() {
		return TaskResponse{}, sessionerrors.ErrSessionNotActive
	}

	task, err := qtx.FindTask(ctx, sessionID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TaskResponse{}, sessionerrors.ErrTaskNotFound
		}
		return TaskResponse{}, err
	}

	switch task.Status {
	case TaskStatusInProgress:
		// no approval gate
	case TaskStatusAwaitingApproval:
		if task.ApprovalRequestID == nil {
			return TaskResponse{}, fmt.Errorf("task %s awaits approval but has no approval request", task.ID)
		}
		ar, err := s.approvals.GetRequest(ctx, *task.ApprovalRequestID)
		if err != nil {
			return TaskResponse{}, err
		}
		switch ar.Status {
		case approval.StatusApproved:
			// gate open
		case approval.StatusRejected:
			// Record the rejection on the task, then report the gate as closed.
			task.Status = TaskStatusRejected
			if err := qtx.UpdateTask(ctx, task); err != nil {
				return TaskResponse{}, err
			}
			if err := tx.Commit(); err != nil {
				return TaskResponse{}, err
			}
			return TaskResponse{}, sessionerrors.ErrApprovalNotGranted
		default:
			return TaskResponse{}, sessionerrors.ErrApprovalNotGranted
		}
	default:
		return TaskResponse{}, sessionerrors.ErrTaskNotCompletable
	}

	task.Status = TaskStatusCompleted
	if err := qtx.UpdateTask(ctx, task); err != nil {
		s.logger.Error("complete task persist failed", zap.Error(err))
		return TaskResponse{}, err
	}

	open, err := qtx.CountOpenTasks(ctx, sessionID)
	if err != nil {
		return TaskResponse{}, err
	}
	if open == 0 {
		sess.Status = StatusCompleted
		if err := qtx.UpdateSession(ctx, sess); err != nil {
			s.logger.Error("complete session persist failed", zap.Error(err))
			return TaskResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("complete task commit failed", zap.Error(err))
		return TaskResponse{}, err
	}

	s.logger.Info("task completed",
		zap.String("session_id", sessionID),
		zap.String("task_id", taskID),
		zap.Bool("session_completed", open == 0),
	)

	return toTaskResponse(*task), nil
}

func (s *service) Cancel(ctx context.Context, id string) (SessionResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel session begin tx failed", zap.Error(err))
		return SessionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sess, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionResponse{}, sessionerrors.ErrSessionNotFound
		}
		return SessionResponse{}, err
	}
	if !sess.IsActive() {
		return SessionResponse{}, sessionerrors.ErrSessionNotActive
	}

	sess.Status = StatusCancelled
	if err := qtx.UpdateSession(ctx, sess); err != nil {
		s.logger.Error("cancel session persist failed", zap.Error(err))
		return SessionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel session commit failed", zap.Error(err))
		return SessionResponse{}, err
	}

	s.logger.Info("offboarding session cancelled", zap.String("session_id", id))

	return toSessionResponse(*sess), nil
}

func toTaskResponse(t OffboardingTask) TaskResponse {
	resp := TaskResponse{
		ID:               t.ID.String(),
		SessionID:        t.SessionID.String(),
		Name:             t.Name,
		TaskType:         t.TaskType,
		Department:       t.Department,
		Status:           t.Status,
		RequiresApproval: t.RequiresApproval,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	if t.ApprovalRequestID != nil {
		resp.ApprovalRequestID = *t.ApprovalRequestID
	}
	return resp
}

func toSessionResponse(s OffboardingSession) SessionResponse {
	tasks := make([]TaskResponse, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		tasks = append(tasks, toTaskResponse(t))
	}
	return SessionResponse{
		ID:           s.ID.String(),
		EmployeeID:   s.EmployeeID,
		EmployeeName: s.EmployeeName,
		Department:   s.Department,
		Status:       s.Status,
		StartedBy:    s.StartedBy,
		Tasks:        tasks,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
