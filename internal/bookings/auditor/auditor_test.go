package auditor

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/djibril1212/EasyBooking/internal/bookings/events"
	"github.com/djibril1212/EasyBooking/pkg/kafka"
	"github.com/djibril1212/EasyBooking/pkg/logger"
	"github.com/djibril1212/EasyBooking/pkg/model"
)

type mockEventLog struct {
	appended []*model.BookingEvent
	err      error
}

func (m *mockEventLog) Append(ctx context.Context, ev *model.BookingEvent) error {
	if m.err != nil {
		return m.err
	}
	m.appended = append(m.appended, ev)
	return nil
}

func (m *mockEventLog) FindByBooking(ctx context.Context, bookingID string) ([]*model.BookingEvent, error) {
	return m.appended, nil
}

func newTestAuditor(repo *mockEventLog) *Auditor {
	return New(repo, logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	}))
}

func lifecycleMessage(t *testing.T, eventType string, payload events.Payload) kafka.Message {
	t.Helper()
	value, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return kafka.Message{
		Key:   payload.RoomID,
		Value: value,
		Headers: map[string]string{
			kafka.HeaderEventID:   "ev-1",
			kafka.HeaderEventType: eventType,
		},
	}
}

func TestHandle_RecordsEvent(t *testing.T) {
	repo := &mockEventLog{}
	a := newTestAuditor(repo)

	occurred := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	msg := lifecycleMessage(t, events.TypeCreated, events.Payload{
		BookingID:  "b-1",
		UserID:     "u-1",
		RoomID:     "r-1",
		Date:       "2026-03-15",
		StartTime:  "09:00",
		EndTime:    "10:00",
		Status:     string(model.StatusUpcoming),
		OccurredAt: occurred,
	})

	if err := a.Handle(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.appended) != 1 {
		t.Fatalf("appended %d events, want 1", len(repo.appended))
	}
	ev := repo.appended[0]
	if ev.ID != "ev-1" {
		t.Errorf("event id = %q, want the message event id", ev.ID)
	}
	if ev.EventType != events.TypeCreated || ev.BookingID != "b-1" {
		t.Errorf("recorded event = %+v", ev)
	}
	if !ev.OccurredAt.Equal(occurred) {
		t.Errorf("occurred_at = %v, want %v", ev.OccurredAt, occurred)
	}
}

func TestHandle_SkipsUnknownEventType(t *testing.T) {
	repo := &mockEventLog{}
	a := newTestAuditor(repo)

	msg := lifecycleMessage(t, "booking.exploded", events.Payload{BookingID: "b-1"})
	if err := a.Handle(context.Background(), msg); err != nil {
		t.Fatalf("unknown event types must be dropped, not retried: %v", err)
	}
	if len(repo.appended) != 0 {
		t.Error("unknown event type must not be recorded")
	}
}

func TestHandle_RejectsGarbagePayload(t *testing.T) {
	a := newTestAuditor(&mockEventLog{})

	msg := kafka.Message{
		Value: []byte("{not json"),
		Headers: map[string]string{
			kafka.HeaderEventID:   "ev-1",
			kafka.HeaderEventType: events.TypeCreated,
		},
	}
	if err := a.Handle(context.Background(), msg); err == nil {
		t.Error("expected an error for an undecodable payload")
	}
}

func TestHandle_RejectsMissingBookingID(t *testing.T) {
	a := newTestAuditor(&mockEventLog{})

	msg := lifecycleMessage(t, events.TypeCancelled, events.Payload{})
	if err := a.Handle(context.Background(), msg); err == nil {
		t.Error("expected an error for a payload without booking_id")
	}
}
