package consumer

import (
	"context"
	"encoding/json"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/eventlog"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func ConsumeAdvanceLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	eventLogService eventlog.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.advance_lifecycle")
	log.Info("advance lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("advance lifecycle consumer stopped")
				return
			}
			log.Error("fetch advance lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.AdvanceSettledEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode advance lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		err = eventLogService.Record(ctx, eventlog.RecordRequest{
			EventType:     event.EventType,
			AggregateType: "advance",
			AggregateID:   event.AdvanceID,
			Payload:       msg.Value,
			OccurredAt:    event.OccurredAt,
		})
		if err != nil {
			log.Error("record advance lifecycle event failed",
				zap.String("advance_id", event.AdvanceID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit advance lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("advance lifecycle event recorded",
			zap.String("advance_id", event.AdvanceID),
			zap.String("event_type", event.EventType),
		)
	}
}
