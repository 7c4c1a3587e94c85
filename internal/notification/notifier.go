package notification

import (
	"context"

	"go.uber.org/zap"
)

// Message is the delivery-agnostic shape handed to whatever channel is
// configured. Content and transport are outside this service's scope.
type Message struct {
	RecipientID string
	Subject     string
	Body        string
}

//go:generate mockgen -source=notifier.go -destination=mock/notifier_mock.go -package=mock
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier returns a Notifier that only records the message. Used as
// the default until a real channel (mail, chat) is plugged in.
func NewLogNotifier(logger ...*zap.Logger) Notifier {
	l := zap.L().Named("notification")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification")
	}
	return &logNotifier{logger: l}
}

func (n *logNotifier) Send(_ context.Context, msg Message) error {
	n.logger.Info("notification dispatched",
		zap.String("recipient_id", msg.RecipientID),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
