package consumer

import (
	"context"
	"encoding/json"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/eventlog"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePayrollRunLifecycle mencatat setiap event lifecycle payroll run ke
// event log. Event yang gagal di-decode di-commit dan dilewati; yang gagal
// disimpan tidak di-commit supaya dicoba ulang.
func ConsumePayrollRunLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	eventLogService eventlog.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_lifecycle")
	log.Info("payroll lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll lifecycle consumer stopped")
				return
			}
			log.Error("fetch payroll lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.PayrollRunLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		actorID := event.ActorID
		err = eventLogService.Record(ctx, eventlog.RecordRequest{
			EventType:     event.EventType,
			AggregateType: "payroll_run",
			AggregateID:   event.RunID,
			ActorID:       &actorID,
			Payload:       msg.Value,
			OccurredAt:    event.OccurredAt,
		})
		if err != nil {
			log.Error("record payroll lifecycle event failed",
				zap.String("run_id", event.RunID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("payroll lifecycle event recorded",
			zap.String("run_id", event.RunID),
			zap.String("event_type", event.EventType),
		)
	}
}
