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

// ConsumeApprovalRequested notifies every approver eligible at the first
// level of a newly created approval request.
func ConsumeApprovalRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	notifier notification.Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.approval_requested")
	log.Info("approval requested consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("approval requested consumer stopped")
				return
			}
			log.Error("fetch approval requested message failed", zap.Error(err))
			continue
		}

		var event events.ApprovalRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode approval_requested event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		failed := false
		for _, approverID := range event.ApproverIDs {
			err := notifier.Send(ctx, notification.Message{
				RecipientID: approverID,
				Subject:     "Approval required",
				Body: fmt.Sprintf(
					"Task %q (session %s) is awaiting your approval at level %d.",
					event.TaskName, event.SessionID, event.Level,
				),
			})
			if err != nil {
				log.Error("send approval required notification failed",
					zap.String("approval_request_id", event.ApprovalRequestID),
					zap.String("approver_id", approverID),
					zap.Error(err),
				)
				failed = true
			}
		}
		if failed {
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit approval requested message failed", zap.Error(err))
			continue
		}

		log.Info("approval required notifications sent",
			zap.String("approval_request_id", event.ApprovalRequestID),
			zap.Int("approvers", len(event.ApproverIDs)),
		)
	}
}
