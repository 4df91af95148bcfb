package model

import "time"

// BookingLock is an advisory lock document guarding one room/date/start
// slot while an admission check runs. The unique _id makes concurrent
// lock attempts fail with a duplicate key error; a TTL index on
// expires_at reaps locks abandoned by crashed processes.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
