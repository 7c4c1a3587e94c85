package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-offboard/internal/events"
	"go-offboard/internal/messaging/kafka/consumer"
	"go-offboard/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer fans approval lifecycle events out to approver notifications.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	newReader := func(topic, group string) *kafkago.Reader {
		return kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:        []string{kafkaBroker},
			Topic:          topic,
			GroupID:        group,
			CommitInterval: 0,
			StartOffset:    kafkago.FirstOffset,
		})
	}

	requestedReader := newReader(events.ApprovalRequestedTopic, "go-offboard-notify-requested")
	defer requestedReader.Close()
	decidedReader := newReader(events.ApprovalDecidedTopic, "go-offboard-notify-decided")
	defer decidedReader.Close()
	escalatedReader := newReader(events.ApprovalEscalatedTopic, "go-offboard-notify-escalated")
	defer escalatedReader.Close()

	notifier := notification.NewLogNotifier()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeApprovalRequested(ctx, requestedReader, notifier, logger)
	go consumer.ConsumeApprovalDecided(ctx, decidedReader, notifier, logger)
	go consumer.ConsumeApprovalEscalated(ctx, escalatedReader, notifier, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
