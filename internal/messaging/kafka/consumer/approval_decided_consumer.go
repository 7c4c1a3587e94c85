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

// ConsumeApprovalDecided notifies the requester once a request reaches a
// terminal status.
func ConsumeApprovalDecided(
	ctx context.Context,
	reader *kafkago.Reader,
	notifier notification.Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.approval_decided")
	log.Info("approval decided consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("approval decided consumer stopped")
				return
			}
			log.Error("fetch approval decided message failed", zap.Error(err))
			continue
		}

		var event events.ApprovalDecidedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode approval_decided event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		body := fmt.Sprintf("Task %q was %s.", event.TaskName, event.Status)
		if event.Reason != "" {
			body = fmt.Sprintf("%s Reason: %s", body, event.Reason)
		}

		err = notifier.Send(ctx, notification.Message{
			RecipientID: event.RequestedBy,
			Subject:     "Approval decision",
			Body:        body,
		})
		if err != nil {
			log.Error("send approval decision notification failed",
				zap.String("approval_request_id", event.ApprovalRequestID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit approval decided message failed", zap.Error(err))
			continue
		}

		log.Info("approval decision notification sent",
			zap.String("approval_request_id", event.ApprovalRequestID),
			zap.String("status", event.Status),
		)
	}
}
