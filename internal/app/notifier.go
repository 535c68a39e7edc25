package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/events"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/messaging/kafka/notifier"
)

// RunNotifier consumes both lifecycle topics and turns them into
// outbound messages. It needs no database; everything the sender needs
// rides in the event payload.
func RunNotifier() error {
	logger := zap.L().Named("app.notifier")

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	requestReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.RequestLifecycleTopic,
		GroupID:        "leave-notifier-requests",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer requestReader.Close()

	memberReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.MemberLifecycleTopic,
		GroupID:        "leave-notifier-members",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer memberReader.Close()

	sender := notifier.NewLogSender(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go notifier.ConsumeRequestLifecycle(ctx, requestReader, sender, logger)
	go notifier.ConsumeMemberLifecycle(ctx, memberReader, sender, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("notifier shutting down")
	cancel()

	return nil
}
