package repository

import (
	"context"
	"fmt"
	"time"

	bookingerrors "github.com/djibril1212/EasyBooking/internal/bookings/errors"
	"github.com/djibril1212/EasyBooking/pkg/config"
	"github.com/djibril1212/EasyBooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	LockCollectionName = "BookingLocks"
)

// LockRepository implements a Mongo-backed advisory lock. Acquire inserts a
// document whose _id is the lock key; the unique index makes the insert fail
// while another holder exists. A TTL index on expires_at reaps locks left
// behind by crashed processes.
type LockRepository interface {
	Acquire(ctx context.Context, key string) error
	Release(ctx context.Context, key string) error
}

type mongoLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoLockRepository(cfg *config.Config) LockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

// LockKey builds the advisory lock key for a room and date. Every writer
// touching the same room-day contends on the same key.
func LockKey(roomID string, date string) string {
	return roomID + ":" + date
}

func (r *mongoLockRepository) Acquire(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	lock := model.BookingLock{
		ID:        key,
		ExpiresAt: now.Add(r.cfg.LockTTL),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", bookingerrors.ErrLockHeld, key)
		}
		return fmt.Errorf("failed to acquire booking lock: %w", err)
	}
	return nil
}

func (r *mongoLockRepository) Release(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to release booking lock: %w", err)
	}
	return nil
}
