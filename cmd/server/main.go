package main

import (
	"github.com/djibril1212/EasyBooking/internal/bookings/engine"
	"github.com/djibril1212/EasyBooking/internal/bookings/events"
	bookinghandler "github.com/djibril1212/EasyBooking/internal/bookings/handler"
	bookingrepository "github.com/djibril1212/EasyBooking/internal/bookings/repository"
	bookingservice "github.com/djibril1212/EasyBooking/internal/bookings/service"
	roomhandler "github.com/djibril1212/EasyBooking/internal/rooms/handler"
	roomrepository "github.com/djibril1212/EasyBooking/internal/rooms/repository"
	roomservice "github.com/djibril1212/EasyBooking/internal/rooms/service"
	userhandler "github.com/djibril1212/EasyBooking/internal/users/handler"
	userrepository "github.com/djibril1212/EasyBooking/internal/users/repository"
	userservice "github.com/djibril1212/EasyBooking/internal/users/service"
	uservalidator "github.com/djibril1212/EasyBooking/internal/users/validator"
	"github.com/djibril1212/EasyBooking/pkg/app"
	"github.com/djibril1212/EasyBooking/pkg/auth"
	"github.com/djibril1212/EasyBooking/pkg/config"
	"github.com/djibril1212/EasyBooking/pkg/kafka"
	kafka_config "github.com/djibril1212/EasyBooking/pkg/kafka/config"
	kafka_middleware "github.com/djibril1212/EasyBooking/pkg/kafka/middleware"
)

const ServiceName = "server"

// Paths reachable without a bearer token.
var publicPaths = []string{
	"/api/v1/auth/register",
	"/api/v1/auth/login",
}

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting API server")

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

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTokenTTL)

	bookingHandler, roomHandler, userHandler := initHandlers(cfg, producer, issuer)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(issuer, publicPaths, userHandler, roomHandler, bookingHandler)
	serverApp.Run()

	cfg.Client.GracefulShutdown(cfg.Log)
}

func initHandlers(cfg *config.Config, producer *kafka.Producer, issuer *auth.TokenIssuer) (*bookinghandler.BookingHandler, *roomhandler.RoomHandler, *userhandler.UserHandler) {
	roomRepo := roomrepository.NewMongoRoomRepository(cfg)
	roomService := roomservice.NewRoomService(roomRepo, cfg)

	bookingRepo := bookingrepository.NewMongoBookingRepository(cfg)
	lockRepo := bookingrepository.NewMongoLockRepository(cfg)
	eventLog := bookingrepository.NewMongoEventLogRepository(cfg)
	publisher := events.NewPublisher(producer, ServiceName)
	eng := engine.New(engine.Config{
		MaxUpcomingPerUser:   cfg.MaxUpcomingPerUser,
		CancellationLeadTime: cfg.CancellationLeadTime,
		SlotOpenHour:         cfg.SlotOpenHour,
		SlotCloseHour:        cfg.SlotCloseHour,
	})
	bookingService := bookingservice.NewBookingService(bookingRepo, lockRepo, roomRepo, eventLog, eng, publisher, cfg)

	userRepo := userrepository.NewMongoUserRepository(cfg)
	userService := userservice.NewUserService(userRepo, uservalidator.NewUserValidator(cfg.Log), issuer, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return bookinghandler.NewBookingHandler(bookingService, cfg.Log),
		roomhandler.NewRoomHandler(roomService, bookingService, cfg.Log),
		userhandler.NewUserHandler(userService, cfg.Log)
}
