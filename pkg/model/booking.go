package model

import (
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusUpcoming  BookingStatus = "upcoming"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking is a reservation of one room for one time range on one day.
// Date and the wall-clock times are stored as zero-padded strings
// ("2006-01-02", "15:04") so lexicographic order equals chronological
// order, both in Go and in MongoDB range filters.
//
// Bookings are never deleted; they only transition status
// (upcoming -> cancelled via the API, upcoming -> completed via the
// completer worker).
type Booking struct {
	ID        string        `json:"id" bson:"_id" validate:"required,uuid"`
	UserID    string        `json:"user_id" bson:"user_id" validate:"required,uuid"`
	RoomID    string        `json:"room_id" bson:"room_id" validate:"required,uuid"`
	Date      string        `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	StartTime string        `json:"start_time" bson:"start_time" validate:"required,datetime=15:04"`
	EndTime   string        `json:"end_time" bson:"end_time" validate:"required,datetime=15:04"`
	Status    BookingStatus `json:"status" bson:"status" validate:"required,oneof=upcoming completed cancelled"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

// BookingRequest is what a caller proposes; the admission engine decides
// whether it becomes a Booking.
type BookingRequest struct {
	UserID    string `json:"-"`
	RoomID    string `json:"room_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// TimeSlot is one entry of the availability view for a room and date.
// Derived, never stored.
type TimeSlot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}
