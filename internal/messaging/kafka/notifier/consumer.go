package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/events"
)

type eventEnvelope struct {
	EventType string `json:"event_type"`
}

// ConsumeRequestLifecycle turns request lifecycle events into
// notifications. Send failures are logged and the message is committed
// anyway; notifications are best effort.
func ConsumeRequestLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	sender Sender,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.request_lifecycle")
	log.Info("request lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("request lifecycle consumer stopped")
				return
			}
			log.Error("fetch request lifecycle message failed", zap.Error(err))
			continue
		}

		var env eventEnvelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			log.Error("decode request lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		switch env.EventType {
		case events.EventRequestSubmitted:
			handleRequestSubmitted(ctx, msg.Value, sender, log)
		case events.EventRequestDecided:
			handleRequestDecided(ctx, msg.Value, sender, log)
		case events.EventRequestCancelled:
			handleRequestCancelled(ctx, msg.Value, sender, log)
		default:
			log.Warn("unknown request lifecycle event, skipping",
				zap.String("event_type", env.EventType))
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit request lifecycle message failed", zap.Error(err))
		}
	}
}

func handleRequestSubmitted(ctx context.Context, raw []byte, sender Sender, log *zap.Logger) {
	var event events.RequestSubmittedEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		log.Error("decode request_submitted event failed", zap.Error(err))
		return
	}

	text := fmt.Sprintf(
		"New leave request #%d from @%s: %s, %s to %s (%d days)",
		event.Number, event.UserHandle, event.LeaveTypeName,
		event.StartDate, event.EndDate, event.TotalDays,
	)
	if event.Comment != "" {
		text += "\nComment: " + event.Comment
	}

	for _, admin := range event.Admins {
		to := Recipient{UserID: admin.UserID, ExternalID: admin.ExternalID, Handle: admin.Handle}
		if err := sender.Send(ctx, to, text); err != nil {
			log.Error("notify admin about submitted request failed",
				zap.String("admin_id", admin.UserID),
				zap.Int64("number", event.Number),
				zap.Error(err),
			)
		}
	}
}

func handleRequestDecided(ctx context.Context, raw []byte, sender Sender, log *zap.Logger) {
	var event events.RequestDecidedEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		log.Error("decode request_decided event failed", zap.Error(err))
		return
	}

	text := fmt.Sprintf("Your leave request #%d was %s", event.Number, event.Status)
	if event.AdminComment != "" {
		text += "\nComment: " + event.AdminComment
	}

	if err := sender.Send(ctx, Recipient{UserID: event.UserID}, text); err != nil {
		log.Error("notify owner about decision failed",
			zap.String("user_id", event.UserID),
			zap.Int64("number", event.Number),
			zap.Error(err),
		)
	}
}

func handleRequestCancelled(ctx context.Context, raw []byte, sender Sender, log *zap.Logger) {
	var event events.RequestCancelledEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		log.Error("decode request_cancelled event failed", zap.Error(err))
		return
	}

	text := fmt.Sprintf("Leave request #%d was cancelled by its owner", event.Number)
	if err := sender.Send(ctx, Recipient{UserID: event.UserID}, text); err != nil {
		log.Error("notify about cancellation failed",
			zap.String("user_id", event.UserID),
			zap.Int64("number", event.Number),
			zap.Error(err),
		)
	}
}

// ConsumeMemberLifecycle notifies invited members and reports blocked
// invites.
func ConsumeMemberLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	sender Sender,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.member_lifecycle")
	log.Info("member lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("member lifecycle consumer stopped")
				return
			}
			log.Error("fetch member lifecycle message failed", zap.Error(err))
			continue
		}

		var env eventEnvelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			log.Error("decode member lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		switch env.EventType {
		case events.EventMemberInvited:
			handleMemberInvited(ctx, msg.Value, sender, log)
		case events.EventMemberInviteBlocked:
			handleMemberInviteBlocked(ctx, msg.Value, sender, log)
		default:
			log.Warn("unknown member lifecycle event, skipping",
				zap.String("event_type", env.EventType))
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit member lifecycle message failed", zap.Error(err))
		}
	}
}

func handleMemberInvited(ctx context.Context, raw []byte, sender Sender, log *zap.Logger) {
	var event events.MemberInvitedEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		log.Error("decode member_invited event failed", zap.Error(err))
		return
	}

	text := fmt.Sprintf("You were invited to %s as %s", event.TeamName, event.Role)
	to := Recipient{UserID: event.MemberID, ExternalID: event.ExternalID, Handle: event.Handle}
	if err := sender.Send(ctx, to, text); err != nil {
		log.Error("notify invited member failed",
			zap.String("handle", event.Handle),
			zap.Error(err),
		)
	}
}

func handleMemberInviteBlocked(ctx context.Context, raw []byte, sender Sender, log *zap.Logger) {
	var event events.MemberInviteBlockedEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		log.Error("decode member_invite_blocked event failed", zap.Error(err))
		return
	}

	text := fmt.Sprintf(
		"@%s is already in %s and has to leave it before joining %s",
		event.Handle, event.CurrentTeam, event.TeamName,
	)
	to := Recipient{ExternalID: event.ExternalID, Handle: event.Handle}
	if err := sender.Send(ctx, to, text); err != nil {
		log.Error("notify about blocked invite failed",
			zap.String("handle", event.Handle),
			zap.Error(err),
		)
	}
}
