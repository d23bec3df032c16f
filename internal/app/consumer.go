package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"payclaim/internal/config"
	"payclaim/internal/events"
	"payclaim/internal/messaging/kafka/consumer"
	"payclaim/internal/shared/connection"
)

// RunConsumer listens for claim lifecycle events and keeps the cached
// payroll summaries honest.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")
	cfg := config.Load()

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.ClaimConfirmedTopic,
		GroupID:        "payclaim-payroll-cache",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeClaimLifecycle(ctx, reader, redisClient, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
