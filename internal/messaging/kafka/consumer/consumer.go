package consumer

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"payclaim/internal/events"
	"payclaim/internal/payroll"
)

// ConsumeClaimLifecycle reacts to confirmed claims: it drops the cached
// payroll summary for the affected period so the next dashboard load sees
// the new total. Cache deletion is idempotent, so redelivered events are
// harmless.
func ConsumeClaimLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.claim_lifecycle")
	log.Info("claim lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("claim lifecycle consumer stopped")
				return
			}
			log.Error("fetch claim lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.ClaimConfirmedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode claim_confirmed event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		cacheKey := payroll.SummaryCacheKey(event.Period)
		if err := rdb.Del(ctx, cacheKey).Err(); err != nil {
			log.Error("invalidate payroll summary cache failed",
				zap.String("period", event.Period),
				zap.String("key", cacheKey),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit claim lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("payroll summary cache invalidated from claim_confirmed event",
			zap.String("employee_number", event.EmployeeNumber),
			zap.String("period", event.Period),
			zap.String("request_id", event.RequestID),
		)
	}
}
