package main

import (
	"context"
	"fmt"
	"log"
	"time"

	mongoMigration "github.com/djibril1212/EasyBooking/internal/migrations/mongo"
	"github.com/djibril1212/EasyBooking/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.SetMongo()

	cfg.Log.Info("Starting Mongo migration job")
	defer cfg.Client.GracefulShutdown(cfg.Log)

	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	fmt.Println("Migration completed successfully.")
}
