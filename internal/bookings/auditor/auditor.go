package auditor

import (
	"context"
	"fmt"

	"github.com/djibril1212/EasyBooking/internal/bookings/events"
	"github.com/djibril1212/EasyBooking/internal/bookings/repository"
	"github.com/djibril1212/EasyBooking/pkg/kafka"
	"github.com/djibril1212/EasyBooking/pkg/logger"
	"github.com/djibril1212/EasyBooking/pkg/model"
)

// Auditor consumes booking lifecycle events and appends them to the
// durable booking history. The event id doubles as the document id, so
// Kafka redeliveries collapse into a single row.
type Auditor struct {
	repo repository.EventLogRepository
	log  *logger.Logger
}

func New(repo repository.EventLogRepository, log *logger.Logger) *Auditor {
	return &Auditor{
		repo: repo,
		log:  log,
	}
}

// Handle is the consumer callback for one lifecycle message.
func (a *Auditor) Handle(ctx context.Context, msg kafka.Message) error {
	eventType := msg.GetEventType()
	switch eventType {
	case events.TypeCreated, events.TypeCancelled, events.TypeCompleted:
	default:
		// Unknown types are dropped rather than retried; a new producer
		// version must not wedge the consumer group.
		a.log.Warn("Skipping unknown booking event type",
			"event_type", eventType,
			"event_id", msg.GetEventID(),
		)
		return nil
	}

	var payload events.Payload
	if err := msg.DecodeValue(&payload); err != nil {
		return fmt.Errorf("%w: %v", kafka.ErrInvalidMessage, err)
	}
	if payload.BookingID == "" {
		return fmt.Errorf("%w: missing booking_id", kafka.ErrInvalidMessage)
	}

	ev := &model.BookingEvent{
		ID:         msg.GetEventID(),
		BookingID:  payload.BookingID,
		UserID:     payload.UserID,
		RoomID:     payload.RoomID,
		EventType:  eventType,
		Date:       payload.Date,
		StartTime:  payload.StartTime,
		EndTime:    payload.EndTime,
		OccurredAt: payload.OccurredAt,
	}

	if err := a.repo.Append(ctx, ev); err != nil {
		return fmt.Errorf("failed to record booking event: %w", err)
	}

	a.log.Debug("Recorded booking event",
		"event_id", ev.ID,
		"event_type", ev.EventType,
		"booking_id", ev.BookingID,
	)
	return nil
}
