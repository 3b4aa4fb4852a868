package producer

import (
	"context"
	"time"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const outboxBatchSize = 50

// ProcessOutboxEvents polls the outbox table and drains it to Kafka until the
// context is cancelled. Failures are marked for retry, never dropped.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if err := drainPending(ctx, repo, writer, log); err != nil {
				log.Error("drain outbox failed", zap.Error(err))
			}
		}
	}
}

func drainPending(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	log *zap.Logger,
) error {
	events, err := repo.ListPending(ctx, outboxBatchSize)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	sent := 0
	for _, event := range events {
		if err := deliver(ctx, repo, writer, event); err != nil {
			log.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.Int("retry_count", event.RetryCount),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	log.Info("outbox batch drained",
		zap.Int("sent", sent),
		zap.Int("failed", len(events)-sent),
	)
	return nil
}

// deliver mengirim satu event dan menandainya. Gagal kirim dicatat sebagai
// failed dengan backoff; gagal MarkSent dibiarkan pending, jadi konsumen harus
// siap menerima duplikat (at-least-once).
func deliver(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	event kafka.OutboxEvent,
) error {
	if err := publishEvent(ctx, writer, event); err != nil {
		_ = repo.MarkFailed(ctx, event.ID, err.Error())
		return err
	}
	return repo.MarkSent(ctx, event.ID)
}
