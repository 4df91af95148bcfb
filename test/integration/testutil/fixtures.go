package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/djibril1212/EasyBooking/pkg/model"
)

// Tomorrow returns tomorrow's date in wire format. Bookings made for it
// always pass the past-date check regardless of when the suite runs.
func Tomorrow() string {
	return time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
}

func DaysFromNow(n int) string {
	return time.Now().UTC().AddDate(0, 0, n).Format("2006-01-02")
}

// RoomBuilder builds rooms for direct Mongo insertion.
type RoomBuilder struct {
	room model.Room
}

func NewRoomBuilder() *RoomBuilder {
	return &RoomBuilder{
		room: model.Room{
			ID:        uuid.New().String(),
			Name:      "Test Room",
			Capacity:  8,
			CreatedAt: time.Now().UTC(),
		},
	}
}

func (b *RoomBuilder) WithName(name string) *RoomBuilder {
	b.room.Name = name
	return b
}

func (b *RoomBuilder) WithCapacity(capacity int) *RoomBuilder {
	b.room.Capacity = capacity
	return b
}

func (b *RoomBuilder) WithEquipments(equipments ...string) *RoomBuilder {
	b.room.Equipments = equipments
	return b
}

func (b *RoomBuilder) Build() model.Room {
	return b.room
}

// Insert writes the room directly to Mongo and returns its ID.
func (b *RoomBuilder) Insert(t *testing.T, m *MongoHelper) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	if _, err := m.GetCollection(RoomsCollection).InsertOne(ctx, b.room); err != nil {
		t.Fatalf("failed to insert room fixture: %v", err)
	}
	return b.room.ID
}

// BookingPayload is the request body for POST /api/v1/bookings.
type BookingPayload struct {
	RoomID    string `json:"room_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// BookingBuilder builds booking request payloads.
type BookingBuilder struct {
	payload BookingPayload
}

func NewBookingBuilder(roomID string) *BookingBuilder {
	return &BookingBuilder{
		payload: BookingPayload{
			RoomID:    roomID,
			Date:      Tomorrow(),
			StartTime: "09:00",
			EndTime:   "10:00",
		},
	}
}

func (b *BookingBuilder) WithDate(date string) *BookingBuilder {
	b.payload.Date = date
	return b
}

func (b *BookingBuilder) WithTimes(start, end string) *BookingBuilder {
	b.payload.StartTime = start
	b.payload.EndTime = end
	return b
}

func (b *BookingBuilder) Build() BookingPayload {
	return b.payload
}

// RegisterUser registers a fresh user through the API and returns an
// authenticated client plus the user ID.
func RegisterUser(t *testing.T, client *Client, email string) (*Client, string) {
	t.Helper()

	resp := client.POST(t, "/api/v1/auth/register", map[string]string{
		"email":    email,
		"password": "Secret-123",
	})
	AssertStatusCode(t, resp, 201)

	var auth struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	resp.Data(t, &auth)

	if auth.Token == "" {
		t.Fatalf("registration returned no token. Body: %s", string(resp.Body))
	}
	return client.WithToken(auth.Token), auth.User.ID
}
