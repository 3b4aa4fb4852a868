package app

import (
	"context"
	"fmt"
	"os"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/eventlog"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/events"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func newReader(broker, topic, group string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{broker},
		Topic:          topic,
		GroupID:        group,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
}

// RunConsumer menjalankan dua consumer: lifecycle payroll run dan lifecycle
// advance. Keduanya menulis ke event log.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, sqlDB, err := openDatabase()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	eventLogService := eventlog.NewService(eventlog.NewRepository(gormDB))

	payrollReader := newReader(kafkaBroker, events.PayrollRunLifecycleTopic, "fleet-event-log-payroll")
	defer payrollReader.Close()

	advanceReader := newReader(kafkaBroker, events.AdvanceLifecycleTopic, "fleet-event-log-advance")
	defer advanceReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumePayrollRunLifecycle(ctx, payrollReader, eventLogService, logger)
	go consumer.ConsumeAdvanceLifecycle(ctx, advanceReader, eventLogService, logger)

	sig := waitForShutdown()
	logger.Info("consumer shutting down", zap.String("signal", sig.String()))
	cancel()

	return nil
}
