package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go-leave/internal/config"
	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka/consumer"
	"go-leave/internal/notification"
	"go-leave/internal/realtime"
	"go-leave/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer delivers leave notification events as mail. Live events are
// pushed through redis when configured; without it they have no audience here.
func RunConsumer(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	if cfg.Kafka.Broker == "" {
		return errors.New("kafka.broker is required")
	}

	hub := realtime.NewHub(logger)
	var live realtime.Publisher = hub
	if cfg.Redis.Addr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.Redis, cfg.Database.MaxRetries)
		if err != nil {
			return err
		}
		defer rdb.Close()
		live = realtime.NewRedisBroadcaster(rdb, hub, logger)
	}

	mailer := notification.NewMailer(cfg.Mail, logger)
	notifier := notification.NewService(mailer, live, cfg.Server.BaseURL, logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.LeaveNotificationTopic,
		GroupID:        cfg.Kafka.GroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.ConsumeLeaveNotifications(ctx, reader, notifier, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("consumer shutting down")
	cancel()
	<-done

	return nil
}
