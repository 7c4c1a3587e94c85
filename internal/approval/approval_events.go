package approval

import (
	"context"
	"encoding/json"
	"time"

	"go-offboard/internal/events"
	"go-offboard/internal/messaging/kafka"
	"go-offboard/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event emission is best-effort: the in-memory transition has already been
// committed when the outbox write happens, so a failed write is logged and
// the transition result stands.
func (s *service) publishOutbox(ctx context.Context, aggregateID, eventType, topic string, payload any) {
	if s.outbox == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("marshal outbox payload failed",
			zap.String("event_type", eventType),
			zap.String("aggregate_id", aggregateID),
			zap.Error(err),
		)
		return
	}

	event := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "approval_request",
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	}

	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error("outbox create failed",
			zap.String("event_type", eventType),
			zap.String("aggregate_id", aggregateID),
			zap.Error(err),
		)
	}
}

func (s *service) publishRequested(ctx context.Context, r *Request, level int, approverIDs []string) {
	s.publishOutbox(ctx, r.ID, "approval.requested", events.ApprovalRequestedTopic, events.ApprovalRequestedEvent{
		EventType:         "approval.requested",
		RequestID:         contextutil.GetRequestID(ctx),
		ApprovalRequestID: r.ID,
		SessionID:         r.SessionID,
		TaskID:            r.TaskID,
		TaskName:          r.TaskName,
		RequestedBy:       r.RequestedBy,
		Level:             level,
		ApproverIDs:       approverIDs,
		OccurredAt:        time.Now().UTC(),
	})
}

func (s *service) publishDecided(ctx context.Context, r *Request, decidedBy string) {
	s.publishOutbox(ctx, r.ID, "approval.decided", events.ApprovalDecidedTopic, events.ApprovalDecidedEvent{
		EventType:         "approval.decided",
		RequestID:         contextutil.GetRequestID(ctx),
		ApprovalRequestID: r.ID,
		SessionID:         r.SessionID,
		TaskID:            r.TaskID,
		TaskName:          r.TaskName,
		Status:            r.Status,
		Reason:            r.Reason,
		DecidedBy:         decidedBy,
		RequestedBy:       r.RequestedBy,
		OccurredAt:        time.Now().UTC(),
	})
}

func (s *service) publishEscalated(ctx context.Context, r *Request, level *Level, hours float64) {
	s.publishOutbox(ctx, r.ID, "approval.escalated", events.ApprovalEscalatedTopic, events.ApprovalEscalatedEvent{
		EventType:         "approval.escalated",
		RequestID:         contextutil.GetRequestID(ctx),
		ApprovalRequestID: r.ID,
		SessionID:         r.SessionID,
		TaskID:            r.TaskID,
		TaskName:          r.TaskName,
		Level:             level.Level,
		EscalatedTo:       level.EscalateTo,
		HoursElapsed:      hours,
		OccurredAt:        time.Now().UTC(),
	})
}
