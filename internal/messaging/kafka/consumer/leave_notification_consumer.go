package consumer

import (
	"context"
	"encoding/json"
	"go-leave/internal/events"
	"go-leave/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

func ConsumeLeaveNotifications(
	ctx context.Context,
	reader MessageReader,
	notifier notification.Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_notification")
	log.Info("leave notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave notification consumer stopped")
				return
			}
			log.Error("fetch leave notification failed", zap.Error(err))
			continue
		}

		handleMessage(ctx, reader, notifier, msg, log)
	}
}

// Undecodable messages are committed and dropped.
func handleMessage(
	ctx context.Context,
	reader MessageReader,
	notifier notification.Notifier,
	msg kafkago.Message,
	log *zap.Logger,
) {
	var event events.LeaveNotificationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode leave notification failed", zap.Error(err))
		_ = reader.CommitMessages(ctx, msg)
		return
	}

	if err := notification.Deliver(ctx, notifier, event); err != nil {
		log.Error("deliver leave notification failed",
			zap.String("event_type", event.EventType),
			zap.Int64("leave_id", event.LeaveID),
			zap.Error(err),
		)
		return
	}

	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit leave notification failed", zap.Error(err))
		return
	}

	log.Info("leave notification delivered",
		zap.String("event_type", event.EventType),
		zap.Int64("leave_id", event.LeaveID),
		zap.Int("recipients", len(event.Recipients)),
	)
}
