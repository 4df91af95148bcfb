package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/djibril1212/EasyBooking/internal/migrations/mongo/validators"
	"github.com/djibril1212/EasyBooking/pkg/model"
)

var (
	BookingsIndexes = []mongo.IndexModel{
		// Conflict scan and availability view.
		{Keys: bson.D{
			{Key: "room_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "status", Value: 1},
			{Key: "start_time", Value: 1},
		}},
		// Quota check and per-user listing.
		{Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "status", Value: 1},
		}},
		// Completer sweep.
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "date", Value: 1},
			{Key: "end_time", Value: 1},
		}},
	}

	BookingLocksIndexes = []mongo.IndexModel{
		// TTL reaper for locks abandoned by crashed processes.
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	BookingEventsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "booking_id", Value: 1},
			{Key: "occurred_at", Value: 1},
		}},
	}

	RoomsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}

	UsersIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("Running Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"BookingLocks": {
			Indexes:   BookingLocksIndexes,
			Validator: validators.BookingLockValidator,
		},
		"BookingEvents": {
			Indexes:   BookingEventsIndexes,
			Validator: validators.BookingEventValidator,
		},
		"Rooms": {
			Indexes:   RoomsIndexes,
			Validator: validators.RoomValidator,
		},
		"Users": {
			Indexes:   UsersIndexes,
			Validator: validators.UserValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	if err := seedRooms(ctx, db); err != nil {
		return fmt.Errorf("failed to seed rooms: %w", err)
	}

	fmt.Println("All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("Collection %s already exists, updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("Ensured indexes for %s\n", name)
	return nil
}

// defaultRooms is the room catalog seeded on first run. IDs are fixed so
// re-running the migration never duplicates rooms.
var defaultRooms = []model.Room{
	{
		ID:          "5d2a9c1e-8f3b-4e6a-9c0d-1a2b3c4d5e6f",
		Name:        "Einstein",
		Capacity:    10,
		Equipments:  []string{"projector", "whiteboard"},
		Description: "Large meeting room",
	},
	{
		ID:          "6e3b0d2f-9a4c-4f7b-8d1e-2b3c4d5e6f70",
		Name:        "Newton",
		Capacity:    6,
		Equipments:  []string{"whiteboard"},
		Description: "Medium meeting room",
	},
	{
		ID:          "7f4c1e30-0b5d-4a8c-9e2f-3c4d5e6f7081",
		Name:        "Curie",
		Capacity:    4,
		Equipments:  []string{},
		Description: "Small meeting room",
	},
	{
		ID:          "805d2f41-1c6e-4b9d-af30-4d5e6f708192",
		Name:        "Tesla",
		Capacity:    20,
		Equipments:  []string{"projector", "sound system", "video conferencing"},
		Description: "Auditorium for presentations",
	},
}

func seedRooms(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection("Rooms")

	seeded := 0
	for _, room := range defaultRooms {
		room.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

		count, err := coll.CountDocuments(ctx, bson.M{"_id": room.ID})
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		if _, err := coll.InsertOne(ctx, room); err != nil {
			return err
		}
		seeded++
	}

	if seeded > 0 {
		fmt.Printf("Seeded %d default rooms\n", seeded)
	}
	return nil
}
