package events

import (
	"context"
	"time"

	"github.com/djibril1212/EasyBooking/pkg/kafka"
	"github.com/djibril1212/EasyBooking/pkg/model"
)

const (
	Topic    = "booking-lifecycle"
	DLQTopic = "booking-lifecycle-dlq"

	TypeCreated   = "booking.created"
	TypeCancelled = "booking.cancelled"
	TypeCompleted = "booking.completed"
)

// Payload is the wire shape of every booking lifecycle event. The event
// type travels in the message headers.
type Payload struct {
	BookingID  string    `json:"booking_id"`
	UserID     string    `json:"user_id"`
	RoomID     string    `json:"room_id"`
	Date       string    `json:"date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MessagePublisher is the slice of the Kafka producer the bookings side
// needs. *kafka.Producer satisfies it.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type Publisher struct {
	producer MessagePublisher
	source   string
}

func NewPublisher(producer MessagePublisher, source string) *Publisher {
	return &Publisher{producer: producer, source: source}
}

func (p *Publisher) publish(ctx context.Context, eventType string, b *model.Booking, occurredAt time.Time) error {
	payload := Payload{
		BookingID:  b.ID,
		UserID:     b.UserID,
		RoomID:     b.RoomID,
		Date:       b.Date,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		Status:     string(b.Status),
		OccurredAt: occurredAt,
	}

	// Keyed by room so all events for one room stay ordered.
	msg, err := kafka.NewMessage().
		WithKey(b.RoomID).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(p.source).
		Build()
	if err != nil {
		return err
	}

	return p.producer.Publish(ctx, msg)
}

func (p *Publisher) Created(ctx context.Context, b *model.Booking, occurredAt time.Time) error {
	return p.publish(ctx, TypeCreated, b, occurredAt)
}

func (p *Publisher) Cancelled(ctx context.Context, b *model.Booking, occurredAt time.Time) error {
	return p.publish(ctx, TypeCancelled, b, occurredAt)
}

func (p *Publisher) Completed(ctx context.Context, b *model.Booking, occurredAt time.Time) error {
	return p.publish(ctx, TypeCompleted, b, occurredAt)
}
