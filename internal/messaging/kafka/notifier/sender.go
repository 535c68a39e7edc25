package notifier

import (
	"context"

	"go.uber.org/zap"
)

// Recipient is where a notification goes. ExternalID is the messenger
// chat id when the member has linked one; placeholders only have a
// handle and are skipped by real senders.
type Recipient struct {
	UserID     string
	ExternalID string
	Handle     string
}

// Sender delivers a rendered notification. Delivery failures are the
// sender's problem to report; the consumer logs and moves on so one
// unreachable recipient never blocks the topic.
type Sender interface {
	Send(ctx context.Context, to Recipient, text string) error
}

// LogSender writes notifications to the log. It stands in for a real
// messenger transport in development and in tests.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger ...*zap.Logger) *LogSender {
	l := zap.L().Named("notifier.sender")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notifier.sender")
	}
	return &LogSender{logger: l}
}

func (s *LogSender) Send(_ context.Context, to Recipient, text string) error {
	s.logger.Info("notification",
		zap.String("user_id", to.UserID),
		zap.String("external_id", to.ExternalID),
		zap.String("handle", to.Handle),
		zap.String("text", text),
	)
	return nil
}
