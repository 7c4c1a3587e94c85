package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-offboard/internal/events"
	"go-offboard/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeApprovalEscalated notifies the escalation target that a stalled
// request has been handed to them.
func ConsumeApprovalEscalated(
	ctx context.Context,
	reader *kafkago.Reader,
	notifier notification.Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.approval_escalated")
	log.Info("approval escalated consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("approval escalated consumer stopped")
				return
			}
			log.Error("fetch approval escalated message failed", zap.Error(err))
			continue
		}

		var event events.ApprovalEscalatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode approval_escalated event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		err = notifier.Send(ctx, notification.Message{
			RecipientID: event.EscalatedTo,
			Subject:     "Approval escalated to you",
			Body: fmt.Sprintf(
				"Task %q (session %s) stalled at level %d for %.1f hours and needs your decision.",
				event.TaskName, event.SessionID, event.Level, event.HoursElapsed,
			),
		})
		if err != nil {
			log.Error("send escalation notification failed",
				zap.String("approval_request_id", event.ApprovalRequestID),
				zap.String("escalated_to", event.EscalatedTo),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit approval escalated message failed", zap.Error(err))
			continue
		}

		log.Info("escalation notification sent",
			zap.String("approval_request_id", event.ApprovalRequestID),
			zap.String("escalated_to", event.EscalatedTo),
		)
	}
}
