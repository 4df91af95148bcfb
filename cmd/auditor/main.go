package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/djibril1212/EasyBooking/internal/bookings/auditor"
	"github.com/djibril1212/EasyBooking/internal/bookings/events"
	"github.com/djibril1212/EasyBooking/internal/bookings/repository"
	"github.com/djibril1212/EasyBooking/pkg/config"
	"github.com/djibril1212/EasyBooking/pkg/kafka"
	kafka_config "github.com/djibril1212/EasyBooking/pkg/kafka/config"
	kafka_middleware "github.com/djibril1212/EasyBooking/pkg/kafka/middleware"
)

const (
	ServiceName   = "auditor"
	consumerGroup = "booking-auditor"
)

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting booking auditor")

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	eventLog := repository.NewMongoEventLogRepository(cfg)
	worker := auditor.New(eventLog, cfg.Log)

	consumer, err := kafka.NewConsumer(kafkaCfg, events.Topic, consumerGroup, events.DLQTopic, worker.Handle)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	defer func() {
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka consumer", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	cfg.Client.GracefulShutdown(cfg.Log)
}
