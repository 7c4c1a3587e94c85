package session_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-offboard/internal/approval"
	"go-offboard/internal/session"
	sessionerrors "go-offboard/internal/session/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeSessionRepository struct {
	withTxFn         func(tx *sql.Tx) session.Repository
	createSessionFn  func(ctx context.Context, s *session.OffboardingSession) error
	findAllFn        func(ctx context.Context) ([]session.OffboardingSession, error)
	findByIDFn       func(ctx context.Context, id string) (*session.OffboardingSession, error)
	updateSessionFn  func(ctx context.Context, s *session.OffboardingSession) error
	findTaskFn       func(ctx context.Context, sessionID, taskID string) (*session.OffboardingTask, error)
	updateTaskFn     func(ctx context.Context, t *session.OffboardingTask) error
	countOpenTasksFn func(ctx context.Context, sessionID string) (int64, error)
}

func (f *fakeSessionRepository) WithTx(tx *sql.Tx) session.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeSessionRepository) CreateSession(ctx context.Context, s *session.OffboardingSession) error {
	if f.createSessionFn != nil {
		return f.createSessionFn(ctx, s)
	}
	return nil
}

func (f *fakeSessionRepository) FindAll(ctx context.Context) ([]session.OffboardingSession, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeSessionRepository) FindByID(ctx context.Context, id string) (*session.OffboardingSession, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSessionRepository) UpdateSession(ctx context.Context, s *session.OffboardingSession) error {
	if f.updateSessionFn != nil {
		return f.updateSessionFn(ctx, s)
	}
	return nil
}

func (f *fakeSessionRepository) FindTask(ctx context.Context, sessionID, taskID string) (*session.OffboardingTask, error) {
	if f.findTaskFn != nil {
		return f.findTaskFn(ctx, sessionID, taskID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSessionRepository) UpdateTask(ctx context.Context, t *session.OffboardingTask) error {
	if f.updateTaskFn != nil {
		return f.updateTaskFn(ctx, t)
	}
	return nil
}

func (f *fakeSessionRepository) CountOpenTasks(ctx context.Context, sessionID string) (int64, error) {
	if f.countOpenTasksFn != nil {
		return f.countOpenTasksFn(ctx, sessionID)
	}
	return 0, nil
}

type fakeApprovalService struct {
	createRequestFn func(ctx context.Context, req approval.CreateApprovalRequest) (approval.ApprovalRequestResponse, error)
	getRequestFn    func(ctx context.Context, requestID string) (approval.ApprovalRequestResponse, error)
	listTemplatesFn func(ctx context.Context, department, taskType string) ([]approval.TemplateResponse, error)
}

func (f *fakeApprovalService) CreateRequest(ctx context.Context, req approval.CreateApprovalRequest) (approval.ApprovalRequestResponse, error) {
	if f.createRequestFn != nil {
		return f.createRequestFn(ctx, req)
	}
	return approval.ApprovalRequestResponse{}, nil
}
func (f *fakeApprovalService) Approve(ctx context.Context, requestID string, req approval.ApproveRequest) (approval.ApprovalRequestResponse, error) {
	return approval.ApprovalRequestResponse{}, nil
}
func (f *fakeApprovalService) Reject(ctx context.Context, requestID string, req approval.RejectRequest) (approval.ApprovalRequestResponse, error) {
	return approval.ApprovalRequestResponse{}, nil
}
func (f *fakeApprovalService) Delegate(ctx context.Context, requestID string, req approval.DelegateRequest) (approval.ApprovalRequestResponse, error) {
	return approval.ApprovalRequestResponse{}, nil
}
func (f *fakeApprovalService) Escalate(ctx context.Context, requestID string) (approval.ApprovalRequestResponse, error) {
	return approval.ApprovalRequestResponse{}, nil
}
func (f *fakeApprovalService) CheckEscalations(ctx context.Context) ([]approval.ApprovalRequestResponse, error) {
	return nil, nil
}
func (f *fakeApprovalService) GetPendingApprovals(ctx context.Context, approverID string) ([]approval.ApprovalRequestResponse, error) {
	return nil, nil
}
func (f *fakeApprovalService) GetRequest(ctx context.Context, requestID string) (approval.ApprovalRequestResponse, error) {
	if f.getRequestFn != nil {
		return f.getRequestFn(ctx, requestID)
	}
	return approval.ApprovalRequestResponse{}, nil
}
func (f *fakeApprovalService) GetSessionApprovals(ctx context.Context, sessionID string) ([]approval.ApprovalRequestResponse, error) {
	return nil, nil
}
func (f *fakeApprovalService) ListTemplates(ctx context.Context, department, taskType string) ([]approval.TemplateResponse, error) {
	if f.listTemplatesFn != nil {
		return f.listTemplatesFn(ctx, department, taskType)
	}
	return nil, nil
}

type sessionServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   session.Service
	repo      *fakeSessionRepository
	approvals *fakeApprovalService
}

func setupSessionServiceTest(t *testing.T) *sessionServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeSessionRepository{}
	approvals := &fakeApprovalService{}
	svc := session.NewService(db, repo, approvals)

	return &sessionServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		approvals: approvals,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func activeSession(id uuid.UUID) *session.OffboardingSession {
	return &session.OffboardingSession{
		ID:           id,
		EmployeeID:   "emp-1",
		EmployeeName: "Jordan Lee",
		Department:   "IT",
		Status:       session.StatusActive,
		StartedBy:    "hr-1",
	}
}

func TestSessionService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupSessionServiceTest(t)
		defer deps.db.Close()

		var created *session.OffboardingSession
		deps.repo.createSessionFn = func(ctx context.Context, s *session.OffboardingSession) error {
			created = s
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, session.CreateSessionRequest{
			EmployeeID:   "emp-1",
			EmployeeName: "Jordan Lee",
			Department:   "IT",
			StartedBy:    "hr-1",
			Tasks: []session.CreateTaskRequest{
				{Name: "Revoke SSO", TaskType: "access_revoke", RequiresApproval: true},
				{Name: "Collect laptop", TaskType: "asset_recovery", Department: "Finance"},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, session.StatusActive, resp.Status)
		assert.Len(t, resp.Tasks, 2)

		if assert.NotNil(t, created) {
			// Task department defaults to the session's when unset.
			assert.Equal(t, "IT", created.Tasks[0].Department)
			assert.Equal(t, "Finance", created.Tasks[1].Department)
			assert.Equal(t, session.TaskStatusPending, created.Tasks[0].Status)
		}

		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate active session", func(t *testing.T) {
		deps := setupSessionServiceTest(t)
		defer deps.db.Close()

		deps.repo.createSessionFn = func(ctx context.Context, s *session.OffboardingSession) error {
			return errors.New(`duplicate key value violates unique constraint "uq_sessions_employee_active"`)
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, session.CreateSessionRequest{
			EmployeeID:   "emp-1",
			EmployeeName: "Jordan Lee",
			StartedBy:    "hr-1",
			Tasks:        []session.CreateTaskRequest{{Name: "Revoke SSO", TaskType: "access_revoke"}},
		})

		assert.ErrorIs(t, err, sessionerrors.ErrSessionAlreadyActive)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestSessionService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		deps := setupSessionServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, uuid.New().String())
		assert.ErrorIs(t, err, sessionerrors.ErrSessionNotFound)
	})

	t.Run("success", func(t *testing.T) {
		deps := setupSessionServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, got string) (*session.OffboardingSession, error) {
			assert.Equal(t, id.String(), got)
			return activeSession(id), nil
		}

		resp, err := deps.service.GetByID(ctx, id.String())
		assert.NoError(t, err)
		assert.Equal(t, id.String(), resp.ID)
	})
}

func TestSessionService_StartTask(t *testing.T) {
	ctx := context.Background()
	sessionID := uuid.New()
	taskID := uuid.New()

	t.Run("approval-gated task enters approval", func(t *testing.T) {
		deps := setupSessionServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*session.OffboardingSession, error) {
			return activeSession(sessionID), nil
		}
		deps.repo.findTaskFn = func(ctx context.Context, sid, tid string) (*session.OffboardingTask, error) {
			return &session.OffboardingTask{
				ID:               taskID,
				SessionID:        sessionID,
				Name:             "Revoke SSO",
				TaskType:         "access_revoke",
				Department:       "IT",
				Status:           session.TaskStatusPending,
				RequiresApproval: true,
			}, nil
		}

		var updated *session.OffboardingTask
		deps.repo.updateTaskFn = func(ctx context.Context, task *session.OffboardingTask) error {
			updated = task
			return nil
		}

		deps.approvals.listTemplatesFn = func(ctx context.Context, department, taskType string) ([]approval.TemplateResponse, error) {
			assert.Equal(t, "IT", department)
			assert.Equal(t, "access_revoke", taskType)
			return []approval.TemplateResponse{{ID: "offboard-access-revoke"}}, nil
		}
		deps.approvals.createRequestFn = func(ctx context.Context, req approval.CreateApprovalRequest) (approval.ApprovalRequestResponse, error) {
			assert.Equal(t, sessionID.String(), req.SessionID)
			assert.Equal(t, "offboard-access-revoke", req.TemplateID)
			assert.Equal(t, "emp-1", req.Metadata["employee_id"])
			return approval.ApprovalRequestResponse{ID: "ar-1", Status: approval.StatusPending}, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.StartTask(ctx, sessionID.String(), taskID.String())
		assert.NoError(t, err)
		assert.Equal(t, session.TaskStatusAwaitingApproval, resp.Status)
		assert.Equal(t, "ar-1", resp.ApprovalRequestID)

		if assert.NotNil(t, updated) && assert.NotNil(t, updated.ApprovalRequestID) {
			assert.Equal(t, "ar-1", *updated.ApprovalRequestID)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("no matching template", func(t *testing.T) {
		deps := setupSessionServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*session.OffboardingSession, error) {
			return activeSession(sessionID), nil
		}
		deps.repo.findTaskFn = func(ctx context.Context, sid, tid string) (*session.OffboardingTask, error) {
			return &session.OffboardingTask{
				ID:               taskID,
				SessionID:        sessionID,
				Status:           session.TaskStatusPending,
				RequiresApproval: true,
			}, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.StartTask(ctx, sessionID.String(), taskID.String())
		assert.ErrorIs(t, err, sessionerrors.ErrNoMatchingTemplate)
	})

	t.Run("plain task starts immediately", func(t *testing.T) {
		deps := setupSessionServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*session.OffboardingSession, error) {
			return activeSession(sessionID), nil
		}
		deps.repo.findTaskFn = func(ctx context.Context, sid, tid string) (*session.OffboardingTask, error) {
			return &session.OffboardingTask{
				ID:        taskID,
				SessionID: sessionID,
				Status:    session.TaskStatusPending,
			}, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.StartTask(ctx, sessionID.String(), taskID.String())
		assert.NoError(t, err)
		assert.Equal(t, session.TaskStatusInProgress, resp.Status)
		assert.Empty(t, resp.ApprovalRequestID)
	})

	t.Run("already started", func(t *testing.T) {
		deps := setupSessionServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*session.OffboardingSession, error) {
			return activeSession(sessionID), nil
		}
		deps.repo.findTaskFn = func(ctx context.Context, sid, tid string) (*session.OffboardingTask, error) {
			return &session.OffboardingTask{
				ID:        taskID,
				SessionID: sessionID,
				Status:    session.TaskStatusInProgress,
			}, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.StartTask(ctx, sessionID.String(), taskID.String())
		assert.ErrorIs(t, err, sessionerrors.ErrTaskAlreadyStarted)
	})

	t.Run("inactive session", func(t *testing.T) {
		deps := setupSessionServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*session.OffboardingSession, error) {
			s := activeSession(sessionID)
			s.Status = session.StatusCancelled
			return s, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.StartTask(ctx, sessionID.String(), taskID.String())
		assert.ErrorIs(t, err, sessionerrors.ErrSessionNotActive)
	})
}

func TestSessionService_CompleteTask(t *testing.T) {
	ctx := context.Background()
	sessionID := uuid.New()
	taskID := uuid.New()
	arID := "ar-1"

	gatedTask := func(status string) *session.OffboardingTask {
		return &session.OffboardingTask{
			ID:                taskID,
			SessionID:         sessionID,
			Status:            status,
			RequiresApproval:  true,
			ApprovalRequestID: &arID,
		}
	}

	t.Run("approved gate completes and closes the session", func(t *testing.T) {
		deps := setupSessionServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*session.OffboardingSession, error) {
			return activeSession(sessionID), nil
		}
		deps.repo.findTaskFn = func(ctx context.Context, sid, tid string) (*session.OffboardingTask, error) {
			return gatedTask(session.TaskStatusAwaitingApproval), nil
		}
		deps.approvals.getRequestFn = func(ctx context.Context, requestID string) (approval.ApprovalRequestResponse, error) {
			assert.Equal(t, arID, requestID)
			return approval.ApprovalRequestResponse{ID: requestID, Status: approval.StatusApproved}, nil
		}

		var updatedSession *session.OffboardingSession
		deps.repo.updateSessionFn = func(ctx context.Context, s *session.OffboardingSession) error {
			updatedSession = s
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.CompleteTask(ctx, sessionID.String(), taskID.String())
		assert.NoError(t, err)
		assert.Equal(t, session.TaskStatusCompleted, resp.Status)

		if assert.NotNil(t, updatedSession) {
			assert.Equal(t, session.StatusCompleted, updatedSession.Status)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("pending approval blocks completion", func(t *testing.T) {
		deps := setupSessionServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*session.OffboardingSession, error) {
			return activeSession(sessionID), nil
		}
		deps.repo.findTaskFn = func(ctx context.Context, sid, tid string) (*session.OffboardingTask, error) {
			return gatedTask(session.TaskStatusAwaitingApproval), nil
		}
		deps.approvals.getRequestFn = func(ctx context.Context, requestID string) (approval.ApprovalRequestResponse, error) {
			return approval.ApprovalRequestResponse{ID: requestID, Status: approval.StatusPending}, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.CompleteTask(ctx, sessionID.String(), taskID.String())
		assert.ErrorIs(t, err, sessionerrors.ErrApprovalNotGranted)
	})

	t.Run("rejected approval marks the task rejected", func(t *testing.T) {
		deps := setupSessionServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*session.OffboardingSession, error) {
			return activeSession(sessionID), nil
		}
		deps.repo.findTaskFn = func(ctx context.Context, sid, tid string) (*session.OffboardingTask, error) {
			return gatedTask(session.TaskStatusAwaitingApproval), nil
		}
		deps.approvals.getRequestFn = func(ctx context.Context, requestID string) (approval.ApprovalRequestResponse, error) {
			return approval.ApprovalRequestResponse{ID: requestID, Status: approval.StatusRejected}, nil
		}

		var updated *session.OffboardingTask
		deps.repo.updateTaskFn = func(ctx context.Context, task *session.OffboardingTask) error {
			updated = task
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		_, err := deps.service.CompleteTask(ctx, sessionID.String(), taskID.String())
		assert.ErrorIs(t, err, sessionerrors.ErrApprovalNotGranted)

		if assert.NotNil(t, updated) {
			assert.Equal(t, session.TaskStatusRejected, updated.Status)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("session stays active while tasks remain", func(t *testing.T) {
		deps := setupSessionServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*session.OffboardingSession, error) {
			return activeSession(sessionID), nil
		}
		deps.repo.findTaskFn = func(ctx context.Context, sid, tid string) (*session.OffboardingTask, error) {
			return &session.OffboardingTask{ID: taskID, SessionID: sessionID, Status: session.TaskStatusInProgress}, nil
		}
		deps.repo.countOpenTasksFn = func(ctx context.Context, sid string) (int64, error) {
			return 2, nil
		}
		deps.repo.updateSessionFn = func(ctx context.Context, s *session.OffboardingSession) error {
			t.Fatal("session must not be updated while tasks remain open")
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.CompleteTask(ctx, sessionID.String(), taskID.String())
		assert.NoError(t, err)
		assert.Equal(t, session.TaskStatusCompleted, resp.Status)
	})

	t.Run("pending task cannot be completed", func(t *testing.T) {
		deps := setupSessionServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*session.OffboardingSession, error) {
			return activeSession(sessionID), nil
		}
		deps.repo.findTaskFn = func(ctx context.Context, sid, tid string) (*session.OffboardingTask, error) {
			return &session.OffboardingTask{ID: taskID, SessionID: sessionID, Status: session.TaskStatusPending}, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.CompleteTask(ctx, sessionID.String(), taskID.String())
		assert.ErrorIs(t, err, sessionerrors.ErrTaskNotCompletable)
	})
}

func TestSessionService_Cancel(t *testing.T) {
	ctx := context.Background()
	sessionID := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupSessionServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*session.OffboardingSession, error) {
			return activeSession(sessionID), nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Cancel(ctx, sessionID.String())
		assert.NoError(t, err)
		assert.Equal(t, session.StatusCancelled, resp.Status)
	})

	t.Run("already terminal", func(t *testing.T) {
		deps := setupSessionServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*session.OffboardingSession, error) {
			s := activeSession(sessionID)
			s.Status = session.StatusCompleted
			return s, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Cancel(ctx, sessionID.String())
		assert.ErrorIs(t, err, sessionerrors.ErrSessionNotActive)
	})
}
