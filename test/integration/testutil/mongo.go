package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultDatabaseName = "EasyBooking"

	ConnectionTimeout = 10 * time.Second
)

// Collection names as created by the migration job.
const (
	BookingsCollection      = "Bookings"
	BookingLocksCollection  = "BookingLocks"
	BookingEventsCollection = "BookingEvents"
	RoomsCollection         = "Rooms"
	UsersCollection         = "Users"
)

// MongoHelper provides direct database access for test setup and assertions.
type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoHelper(t *testing.T, uri, dbName string) *MongoHelper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping mongo: %v", err)
	}

	return &MongoHelper{
		Client:   client,
		Database: client.Database(dbName),
	}
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("failed to disconnect from mongo: %v", err)
	}
}

// CleanDatabase removes all documents from mutable collections. Rooms are
// left intact since the migration job seeds them.
func (m *MongoHelper) CleanDatabase(t *testing.T) {
	t.Helper()

	for _, name := range []string{BookingsCollection, BookingLocksCollection, BookingEventsCollection, UsersCollection} {
		m.CleanCollection(t, name)
	}
}

func (m *MongoHelper) CleanCollection(t *testing.T, name string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	if _, err := m.Database.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
		t.Fatalf("failed to clean collection %s: %v", name, err)
	}
}

func (m *MongoHelper) CountDocuments(t *testing.T, collection string, filter bson.M) int64 {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	count, err := m.Database.Collection(collection).CountDocuments(ctx, filter)
	if err != nil {
		t.Fatalf("failed to count documents in %s: %v", collection, err)
	}
	return count
}

// FindOne decodes a single document matching filter into target.
func (m *MongoHelper) FindOne(t *testing.T, collection string, filter bson.M, target any) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	if err := m.Database.Collection(collection).FindOne(ctx, filter).Decode(target); err != nil {
		t.Fatalf("failed to find document in %s: %v", collection, err)
	}
}

func (m *MongoHelper) GetCollection(name string) *mongo.Collection {
	return m.Database.Collection(name)
}
