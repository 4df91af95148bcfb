package engine

import (
	"testing"

	"github.com/djibril1212/EasyBooking/pkg/model"
)

func TestComputeAvailability_EmptyDay(t *testing.T) {
	e := newTestEngine()

	slots := e.ComputeAvailability(nil)

	if len(slots) != 12 {
		t.Fatalf("len(slots) = %d, want 12", len(slots))
	}
	if slots[0].Start != "08:00" || slots[0].End != "09:00" {
		t.Errorf("first slot = %s-%s, want 08:00-09:00", slots[0].Start, slots[0].End)
	}
	if slots[11].Start != "19:00" || slots[11].End != "20:00" {
		t.Errorf("last slot = %s-%s, want 19:00-20:00", slots[11].Start, slots[11].End)
	}
	for i, s := range slots {
		if !s.Available {
			t.Errorf("slot %d (%s) should be available on an empty day", i, s.Start)
		}
		if i > 0 && slots[i-1].End != s.Start {
			t.Errorf("slots %d and %d are not contiguous", i-1, i)
		}
	}
}

func TestComputeAvailability_SingleBooking(t *testing.T) {
	e := newTestEngine()

	existing := []model.Booking{upcoming("2026-03-15", "09:00", "10:00")}
	slots := e.ComputeAvailability(existing)

	for _, s := range slots {
		wantAvailable := s.Start != "09:00"
		if s.Available != wantAvailable {
			t.Errorf("slot %s available = %v, want %v", s.Start, s.Available, wantAvailable)
		}
	}
}

func TestComputeAvailability_SpanningBooking(t *testing.T) {
	e := newTestEngine()

	// A booking crossing slot boundaries blocks every slot it touches,
	// including the ones it only partially covers.
	existing := []model.Booking{upcoming("2026-03-15", "09:30", "11:30")}
	slots := e.ComputeAvailability(existing)

	blocked := map[string]bool{"09:00": true, "10:00": true, "11:00": true}
	for _, s := range slots {
		if s.Available == blocked[s.Start] {
			t.Errorf("slot %s available = %v, want %v", s.Start, s.Available, !blocked[s.Start])
		}
	}
}

func TestComputeAvailability_IgnoresNonUpcoming(t *testing.T) {
	e := newTestEngine()

	b := upcoming("2026-03-15", "09:00", "10:00")
	b.Status = model.StatusCancelled

	slots := e.ComputeAvailability([]model.Booking{b})
	for _, s := range slots {
		if !s.Available {
			t.Errorf("slot %s should be free when the only booking is cancelled", s.Start)
		}
	}
}

func TestComputeAvailability_CustomWindow(t *testing.T) {
	e := New(Config{SlotOpenHour: 10, SlotCloseHour: 14})

	slots := e.ComputeAvailability(nil)
	if len(slots) != 4 {
		t.Fatalf("len(slots) = %d, want 4", len(slots))
	}
	if slots[0].Start != "10:00" || slots[3].End != "14:00" {
		t.Errorf("window = %s..%s, want 10:00..14:00", slots[0].Start, slots[3].End)
	}
}
