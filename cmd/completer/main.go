package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/djibril1212/EasyBooking/internal/bookings/completer"
	"github.com/djibril1212/EasyBooking/internal/bookings/events"
	"github.com/djibril1212/EasyBooking/internal/bookings/repository"
	"github.com/djibril1212/EasyBooking/pkg/config"
	"github.com/djibril1212/EasyBooking/pkg/kafka"
	kafka_config "github.com/djibril1212/EasyBooking/pkg/kafka/config"
	kafka_middleware "github.com/djibril1212/EasyBooking/pkg/kafka/middleware"
)

const ServiceName = "completer"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting booking completer")

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, events.Topic, events.DLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}()

	bookingRepo := repository.NewMongoBookingRepository(cfg)
	publisher := events.NewPublisher(producer, ServiceName)
	worker := completer.New(bookingRepo, publisher, cfg.CompleterInterval, cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker.Start(ctx)

	cfg.Client.GracefulShutdown(cfg.Log)
}
