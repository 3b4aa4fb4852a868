package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/messaging/kafka"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/messaging/kafka/producer"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker menjalankan outbox worker: drain tabel outbox ke Kafka.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	_, sqlDB, err := openDatabase()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		kafka.NewOutboxRepository(sqlDB),
		kafkaWriter,
		logger,
		3*time.Second,
	)

	sig := waitForShutdown()
	logger.Info("worker shutting down", zap.String("signal", sig.String()))
	cancel()

	return nil
}
