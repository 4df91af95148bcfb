package model

import "time"

// BookingEvent is one row of the append-only booking history kept by
// the auditor. Documents are only ever inserted, never updated.
type BookingEvent struct {
	ID         string    `bson:"_id" json:"id"`
	BookingID  string    `bson:"booking_id" json:"booking_id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	RoomID     string    `bson:"room_id" json:"room_id"`
	EventType  string    `bson:"event_type" json:"event_type"`
	Date       string    `bson:"date" json:"date"`
	StartTime  string    `bson:"start_time" json:"start_time"`
	EndTime    string    `bson:"end_time" json:"end_time"`
	OccurredAt time.Time `bson:"occurred_at" json:"occurred_at"`
	RecordedAt time.Time `bson:"recorded_at" json:"recorded_at"`
}
