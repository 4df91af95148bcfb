package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/djibril1212/EasyBooking/pkg/config"
	"github.com/djibril1212/EasyBooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	EventCollectionName = "BookingEvents"
)

// EventLogRepository persists the append-only booking history written by
// the auditor. Inserts are idempotent on the event id, so redelivered
// Kafka messages do not duplicate rows.
type EventLogRepository interface {
	Append(ctx context.Context, ev *model.BookingEvent) error
	FindByBooking(ctx context.Context, bookingID string) ([]*model.BookingEvent, error)
}

type mongoEventLogRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoEventLogRepository(cfg *config.Config) EventLogRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoEventLogRepository{
		cfg:        cfg,
		collection: db.Collection(EventCollectionName),
	}
}

func (r *mongoEventLogRepository) Append(ctx context.Context, ev *model.BookingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	ev.RecordedAt = time.Now().UTC().Truncate(time.Millisecond)
	_, err := r.collection.InsertOne(ctx, ev)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Already recorded, redelivery is fine.
			return nil
		}
		return fmt.Errorf("failed to append booking event: %w", err)
	}
	return nil
}

func (r *mongoEventLogRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.BookingEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query booking events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*model.BookingEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode booking events: %w", err)
	}
	return events, nil
}
