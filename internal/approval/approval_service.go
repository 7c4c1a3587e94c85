package approval

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	approvalerrors "go-offboard/internal/approval/errors"
	"go-offboard/internal/messaging/kafka"
	"go-offboard/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds the engine knobs that intentionally diverge from the previous
// implementation.
type Config struct {
	// AllowEscalatedApprovals keeps escalated requests approvable through
	// the normal path. With it disabled an escalated request can only be
	// rejected, which matches the old behavior but strands the request.
	AllowEscalatedApprovals bool
}

func DefaultConfig() Config {
	return Config{AllowEscalatedApprovals: true}
}

//go:generate mockgen -source=approval_service.go -destination=mock/approval_service_mock.go -package=mock
type Service interface {
	CreateRequest(ctx context.Context, req CreateApprovalRequest) (ApprovalRequestResponse, error)
	Approve(ctx context.Context, requestID string, req ApproveRequest) (ApprovalRequestResponse, error)
	Reject(ctx context.Context, requestID string, req RejectRequest) (ApprovalRequestResponse, error)
	Delegate(ctx context.Context, requestID string, req DelegateRequest) (ApprovalRequestResponse, error)
	Escalate(ctx context.Context, requestID string) (ApprovalRequestResponse, error)
	CheckEscalations(ctx context.Context) ([]ApprovalRequestResponse, error)
	GetPendingApprovals(ctx context.Context, approverID string) ([]ApprovalRequestResponse, error)
	GetRequest(ctx context.Context, requestID string) (ApprovalRequestResponse, error)
	GetSessionApprovals(ctx context.Context, sessionID string) ([]ApprovalRequestResponse, error)
	ListTemplates(ctx context.Context, department, taskType string) ([]TemplateResponse, error)
}

type service struct {
	cfg       Config
	templates TemplateRegistry
	requests  RequestStore
	pending   PendingIndex
	outbox    kafka.OutboxRepository
	logger    *zap.Logger

	// One mutex per request id. Every transition, including the sweep,
	// holds the request's mutex for its full duration.
	locks sync.Map
}

func NewService(
	cfg Config,
	templates TemplateRegistry,
	requests RequestStore,
	pending PendingIndex,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(cfg, templates, requests, pending, nil, logger...)
}

func NewServiceWithOutbox(
	cfg Config,
	templates TemplateRegistry,
	requests RequestStore,
	pending PendingIndex,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("approval.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.service")
	}
	return &service{
		cfg:       cfg,
		templates: templates,
		requests:  requests,
		pending:   pending,
		outbox:    outbox,
		logger:    l,
	}
}

func (s *service) lockRequest(requestID string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(requestID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu
}

// hoursSinceRequested measures escalation lag from the original creation
// time, not from when the current level became active. A long-running chain
// can therefore look overdue the moment a late level starts. Kept for
// compatibility and isolated here so the basis can change in one place.
func hoursSinceRequested(r *Request, now time.Time) float64 {
	return now.Sub(r.RequestedAt).Hours()
}

func (s *service) CreateRequest(ctx context.Context, req CreateApprovalRequest) (ApprovalRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create approval request",
		zap.String("request_id", rid),
		zap.String("session_id", req.SessionID),
		zap.String("task_id", req.TaskID),
		zap.String("template_id", req.TemplateID),
	)

	template, ok := s.templates.Get(req.TemplateID)
	if !ok {
		return ApprovalRequestResponse{}, approvalerrors.ErrTemplateNotFound
	}

	r := &Request{
		ID:           uuid.NewString(),
		SessionID:    req.SessionID,
		TaskID:       req.TaskID,
		TaskName:     req.TaskName,
		RequestedBy:  req.RequestedBy,
		RequestedAt:  time.Now().UTC(),
		CurrentLevel: 1,
		Status:       StatusPending,
		Levels:       template.CloneLevels(),
		History:      []Action{},
		Metadata:     req.Metadata,
	}

	// Saving makes the request visible to the sweep, so the remainder of
	// the setup runs under the request lock like any other transition.
	mu := s.lockRequest(r.ID)
	defer mu.Unlock()

	s.requests.Save(r)

	firstLevel := r.levelAt(1)
	approverIDs := make([]string, 0, len(firstLevel.Approvers))
	for _, a := range firstLevel.Approvers {
		s.pending.Add(a.ID, r.ID)
		approverIDs = append(approverIDs, a.ID)
	}

	s.publishRequested(ctx, r, 1, approverIDs)

	s.logger.Info("approval request created",
		zap.String("approval_request_id", r.ID),
		zap.String("session_id", r.SessionID),
		zap.String("task_id", r.TaskID),
		zap.String("template_id", template.ID),
		zap.Int("levels", len(r.Levels)),
	)

	return toRequestResponse(r), nil
}

func (s *service) Approve(ctx context.Context, requestID string, req ApproveRequest) (ApprovalRequestResponse, error) {
	r, ok := s.requests.Get(requestID)
	if !ok {
		return ApprovalRequestResponse{}, approvalerrors.ErrRequestNotFound
	}

	mu := s.lockRequest(requestID)
	defer mu.Unlock()

	if !s.statusAcceptsApprovals(r) {
		return ApprovalRequestResponse{}, approvalerrors.ErrInvalidState
	}

	level := r.currentLevelSpec()
	if level == nil {
		return ApprovalRequestResponse{}, approvalerrors.ErrInvalidState
	}

	member := eligibleApprover(level, req.ApproverID)
	if member == nil && !isEscalationTarget(r, level, req.ApproverID) {
		return ApprovalRequestResponse{}, approvalerrors.ErrUnauthorizedApprover
	}

	if r.hasApprovedAt(req.ApproverID, r.CurrentLevel) {
		return ApprovalRequestResponse{}, approvalerrors.ErrDuplicateApproval
	}

	r.History = append(r.History, Action{
		ID:                uuid.NewString(),
		ApprovalRequestID: r.ID,
		ApproverID:        req.ApproverID,
		ApproverName:      req.ApproverName,
		Action:            ActionApproved,
		Timestamp:         time.Now().UTC(),
		Level:             r.CurrentLevel,
		Comments:          req.Comments,
	})

	if r.approvedCountAt(r.CurrentLevel) >= level.RequiredApprovals {
		s.advanceLevel(ctx, r, req.ApproverID)
	} else {
		// The approver has acted; only the remaining approvers at this
		// level still owe a decision. When a delegate acted, the original
		// member's entry clears along with the delegate's.
		s.pending.Remove(req.ApproverID, r.ID)
		if member != nil {
			s.pending.Remove(member.ID, r.ID)
		}
	}

	s.logger.Info("approval recorded",
		zap.String("approval_request_id", r.ID),
		zap.String("approver_id", req.ApproverID),
		zap.Int("level", r.CurrentLevel),
		zap.String("status", r.Status),
	)

	return toRequestResponse(r), nil
}

func (s *service) statusAcceptsApprovals(r *Request) bool {
	if r.Status == StatusPending {
		return true
	}
	return r.Status == StatusEscalated && s.cfg.AllowEscalatedApprovals
}

// advanceLevel moves a request whose current level just met quorum. Caller
// holds the request lock.
func (s *service) advanceLevel(ctx context.Context, r *Request, decidedBy string) {
	s.pending.RemoveRequest(r.ID)

	if r.CurrentLevel == len(r.Levels) {
		r.CurrentLevel++
		r.Status = StatusApproved
		s.publishDecided(ctx, r, decidedBy)
		return
	}

	r.CurrentLevel++
	r.Status = StatusPending

	next := r.currentLevelSpec()
	approverIDs := make([]string, 0, len(next.Approvers))
	for _, a := range next.Approvers {
		s.pending.Add(a.ID, r.ID)
		approverIDs = append(approverIDs, a.ID)
	}

	s.publishRequested(ctx, r, r.CurrentLevel, approverIDs)
}

func (s *service) Reject(ctx context.Context, requestID string, req RejectRequest) (ApprovalRequestResponse, error) {
	r, ok := s.requests.Get(requestID)
	if !ok {
		return ApprovalRequestResponse{}, approvalerrors.ErrRequestNotFound
	}

	mu := s.lockRequest(requestID)
	defer mu.Unlock()

	if strings.TrimSpace(req.Reason) == "" {
		return ApprovalRequestResponse{}, approvalerrors.ErrReasonRequired
	}

	// Rejection is deliberately permissive: any approver may reject at any
	// live level, eligibility unchecked. Terminal requests stay immutable.
	if r.IsTerminal() {
		return ApprovalRequestResponse{}, approvalerrors.ErrInvalidState
	}

	r.History = append(r.History, Action{
		ID:                uuid.NewString(),
		ApprovalRequestID: r.ID,
		ApproverID:        req.ApproverID,
		ApproverName:      req.ApproverName,
		Action:            ActionRejected,
		Timestamp:         time.Now().UTC(),
		Level:             r.CurrentLevel,
		Comments:          req.Reason,
	})

	r.Status = StatusRejected
	r.Reason = req.Reason
	s.pending.RemoveRequest(r.ID)

	s.publishDecided(ctx, r, req.ApproverID)

	s.logger.Info("approval request rejected",
		zap.String("approval_request_id", r.ID),
		zap.String("approver_id", req.ApproverID),
		zap.Int("level", r.CurrentLevel),
		zap.String("reason", req.Reason),
	)

	return toRequestResponse(r), nil
}

func (s *service) Delegate(ctx context.Context, requestID string, req DelegateRequest) (ApprovalRequestResponse, error) {
	r, ok := s.requests.Get(requestID)
	if !ok {
		return ApprovalRequestResponse{}, approvalerrors.ErrRequestNotFound
	}

	mu := s.lockRequest(requestID)
	defer mu.Unlock()

	level := r.currentLevelSpec()
	if level == nil {
		return ApprovalRequestResponse{}, approvalerrors.ErrApproverNotFound
	}

	var member *Approver
	for i := range level.Approvers {
		if level.Approvers[i].ID == req.FromApproverID {
			member = &level.Approvers[i]
			break
		}
	}
	if member == nil {
		return ApprovalRequestResponse{}, approvalerrors.ErrApproverNotFound
	}

	// Mutates this request's private level copy only; the template and
	// sibling requests keep their original approver entries.
	member.DelegateTo = req.ToApproverID

	r.History = append(r.History, Action{
		ID:                uuid.NewString(),
		ApprovalRequestID: r.ID,
		ApproverID:        member.ID,
		ApproverName:      fmt.Sprintf("%s (delegated to %s)", member.Name, req.ToApproverName),
		Action:            ActionDelegated,
		Timestamp:         time.Now().UTC(),
		Level:             r.CurrentLevel,
		Comments:          req.Reason,
	})

	s.pending.Remove(member.ID, r.ID)
	s.pending.Add(req.ToApproverID, r.ID)

	s.logger.Info("approval delegated",
		zap.String("approval_request_id", r.ID),
		zap.String("from_approver_id", req.FromApproverID),
		zap.String("to_approver_id", req.ToApproverID),
		zap.Int("level", r.CurrentLevel),
	)

	return toRequestResponse(r), nil
}

func (s *service) Escalate(ctx context.Context, requestID string) (ApprovalRequestResponse, error) {
	r, ok := s.requests.Get(requestID)
	if !ok {
		return ApprovalRequestResponse{}, approvalerrors.ErrRequestNotFound
	}

	mu := s.lockRequest(requestID)
	defer mu.Unlock()

	if err := s.escalateLocked(ctx, r); err != nil {
		return ApprovalRequestResponse{}, err
	}

	return toRequestResponse(r), nil
}

// escalateLocked performs the escalation transition. Caller holds the
// request lock. A level escalates at most once: after the transition the
// status is no longer pending, so a second call fails with ErrInvalidState.
func (s *service) escalateLocked(ctx context.Context, r *Request) error {
	if r.Status != StatusPending {
		return approvalerrors.ErrInvalidState
	}

	level := r.currentLevelSpec()
	if level == nil {
		return approvalerrors.ErrInvalidState
	}
	if level.EscalateTo == "" {
		return approvalerrors.ErrNoEscalationPath
	}

	hours := hoursSinceRequested(r, time.Now().UTC())

	r.History = append(r.History, Action{
		ID:                uuid.NewString(),
		ApprovalRequestID: r.ID,
		ApproverID:        level.EscalateTo,
		ApproverName:      "auto-escalation",
		Action:            ActionEscalated,
		Timestamp:         time.Now().UTC(),
		Level:             r.CurrentLevel,
		Comments:          fmt.Sprintf("escalated after %.1f hours at level %d", hours, r.CurrentLevel),
	})

	r.Status = StatusEscalated

	// Escalation is additive: the original approvers keep the request in
	// their pending view, the target gains it.
	s.pending.Add(level.EscalateTo, r.ID)

	s.publishEscalated(ctx, r, level, hours)

	s.logger.Info("approval request escalated",
		zap.String("approval_request_id", r.ID),
		zap.Int("level", r.CurrentLevel),
		zap.String("escalated_to", level.EscalateTo),
		zap.Float64("hours_elapsed", hours),
	)

	return nil
}

func (s *service) CheckEscalations(ctx context.Context) ([]ApprovalRequestResponse, error) {
	now := time.Now().UTC()
	escalated := make([]ApprovalRequestResponse, 0)

	// The scan reads no request fields until the request lock is held; the
	// store hands out the collection only and transitions may run in
	// parallel with the sweep.
	for _, r := range s.requests.All() {
		mu := s.lockRequest(r.ID)

		if r.Status != StatusPending {
			mu.Unlock()
			continue
		}

		level := r.currentLevelSpec()
		if level == nil || level.EscalationTimeHours <= 0 {
			mu.Unlock()
			continue
		}

		if hoursSinceRequested(r, now) < level.EscalationTimeHours {
			mu.Unlock()
			continue
		}

		if err := s.escalateLocked(ctx, r); err != nil {
			// A single stuck request must not abort the sweep.
			s.logger.Error("escalation sweep failed for request",
				zap.String("approval_request_id", r.ID),
				zap.Int("level", r.CurrentLevel),
				zap.Error(err),
			)
			mu.Unlock()
			continue
		}

		escalated = append(escalated, toRequestResponse(r))
		mu.Unlock()
	}

	if len(escalated) > 0 {
		s.logger.Info("escalation sweep completed", zap.Int("escalated", len(escalated)))
	}

	return escalated, nil
}

func (s *service) GetPendingApprovals(_ context.Context, approverID string) ([]ApprovalRequestResponse, error) {
	ids := s.pending.ListFor(approverID)

	out := make([]ApprovalRequestResponse, 0, len(ids))
	for _, id := range ids {
		r, ok := s.requests.Get(id)
		if !ok {
			continue
		}
		mu := s.lockRequest(id)
		out = append(out, toRequestResponse(r))
		mu.Unlock()
	}
	return out, nil
}

func (s *service) GetRequest(_ context.Context, requestID string) (ApprovalRequestResponse, error) {
	r, ok := s.requests.Get(requestID)
	if !ok {
		return ApprovalRequestResponse{}, approvalerrors.ErrRequestNotFound
	}

	mu := s.lockRequest(requestID)
	defer mu.Unlock()

	return toRequestResponse(r), nil
}

func (s *service) GetSessionApprovals(_ context.Context, sessionID string) ([]ApprovalRequestResponse, error) {
	rs := s.requests.BySession(sessionID)

	out := make([]ApprovalRequestResponse, 0, len(rs))
	for _, r := range rs {
		mu := s.lockRequest(r.ID)
		out = append(out, toRequestResponse(r))
		mu.Unlock()
	}
	return out, nil
}

func (s *service) ListTemplates(_ context.Context, department, taskType string) ([]TemplateResponse, error) {
	templates := s.templates.List(department, taskType)

	out := make([]TemplateResponse, 0, len(templates))
	for _, t := range templates {
		out = append(out, toTemplateResponse(t))
	}
	return out, nil
}
