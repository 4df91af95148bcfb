package engine

import (
	"testing"
	"time"

	"github.com/djibril1212/EasyBooking/pkg/model"
)

const (
	testRoomID  = "9f8b3a60-1f2d-4c5e-9a7b-0d1e2f3a4b5c"
	testUserID  = "c56a4180-65aa-42ec-a945-5fd21dec0538"
	otherUserID = "7d444840-9dc0-11d1-b245-5ffdce74fad2"
)

// fixedNow is 09:00 on 2026-03-10 in UTC; "today" in every test below.
var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return New(Config{})
}

func validRequest() model.BookingRequest {
	return model.BookingRequest{
		UserID:    testUserID,
		RoomID:    testRoomID,
		Date:      "2026-03-15",
		StartTime: "09:00",
		EndTime:   "10:00",
	}
}

func upcoming(date, start, end string) model.Booking {
	return model.Booking{
		ID:        "e5b61fcb-23ea-4d41-b218-16188e9ae275",
		UserID:    otherUserID,
		RoomID:    testRoomID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Status:    model.StatusUpcoming,
	}
}

func TestTryCreateBooking_Success(t *testing.T) {
	e := newTestEngine()
	req := validRequest()

	booking, err := e.TryCreateBooking(req, nil, 0, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.ID == "" {
		t.Error("expected a fresh booking id")
	}
	if booking.Status != model.StatusUpcoming {
		t.Errorf("status = %s, want %s", booking.Status, model.StatusUpcoming)
	}
	if booking.UserID != req.UserID || booking.RoomID != req.RoomID {
		t.Error("booking must carry the requester and room ids")
	}
	if booking.Date != req.Date || booking.StartTime != req.StartTime || booking.EndTime != req.EndTime {
		t.Error("booking must carry the requested date and time range")
	}
	if !booking.CreatedAt.Equal(fixedNow) {
		t.Errorf("created_at = %v, want %v", booking.CreatedAt, fixedNow)
	}
}

func TestTryCreateBooking_StructuralValidation(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name   string
		mutate func(*model.BookingRequest)
	}{
		{"empty user id", func(r *model.BookingRequest) { r.UserID = "" }},
		{"room id not a uuid", func(r *model.BookingRequest) { r.RoomID = "room-42" }},
		{"empty room id", func(r *model.BookingRequest) { r.RoomID = "" }},
		{"empty date", func(r *model.BookingRequest) { r.Date = "" }},
		{"malformed date", func(r *model.BookingRequest) { r.Date = "15/03/2026" }},
		{"empty start time", func(r *model.BookingRequest) { r.StartTime = "" }},
		{"malformed start time", func(r *model.BookingRequest) { r.StartTime = "9am" }},
		{"unpadded start time", func(r *model.BookingRequest) { r.StartTime = "9:00" }},
		{"malformed end time", func(r *model.BookingRequest) { r.EndTime = "25:00" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := e.TryCreateBooking(req, nil, 0, fixedNow)
			if KindOf(err) != KindInvalidInput {
				t.Errorf("kind = %q, want %q (err: %v)", KindOf(err), KindInvalidInput, err)
			}
		})
	}
}

func TestTryCreateBooking_TimeRangeOrdering(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name       string
		start, end string
	}{
		{"inverted range", "14:00", "10:00"},
		{"zero-length range", "10:00", "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.StartTime = tt.start
			req.EndTime = tt.end

			_, err := e.TryCreateBooking(req, nil, 0, fixedNow)
			if KindOf(err) != KindInvalidTimeRange {
				t.Errorf("kind = %q, want %q", KindOf(err), KindInvalidTimeRange)
			}
		})
	}
}

func TestTryCreateBooking_PastDate(t *testing.T) {
	e := newTestEngine()

	req := validRequest()
	req.Date = "2026-03-09" // yesterday relative to fixedNow

	_, err := e.TryCreateBooking(req, nil, 0, fixedNow)
	if KindOf(err) != KindPastDate {
		t.Errorf("kind = %q, want %q", KindOf(err), KindPastDate)
	}
}

func TestTryCreateBooking_SameDayAllowed(t *testing.T) {
	e := newTestEngine()

	req := validRequest()
	req.Date = "2026-03-10" // today

	if _, err := e.TryCreateBooking(req, nil, 0, fixedNow); err != nil {
		t.Errorf("same-day booking should be admissible, got: %v", err)
	}
}

func TestTryCreateBooking_QuotaExceeded(t *testing.T) {
	e := newTestEngine()
	req := validRequest()

	// The quota check precedes the conflict scan, so even a perfectly
	// free slot is rejected once the user holds 3 upcoming bookings.
	_, err := e.TryCreateBooking(req, nil, 3, fixedNow)
	if KindOf(err) != KindQuotaExceeded {
		t.Errorf("kind = %q, want %q", KindOf(err), KindQuotaExceeded)
	}

	if _, err := e.TryCreateBooking(req, nil, 2, fixedNow); err != nil {
		t.Errorf("2 upcoming bookings should leave room for a third, got: %v", err)
	}
}

func TestTryCreateBooking_ConflictScan(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name         string
		start, end   string
		wantConflict bool
	}{
		{"identical range", "09:00", "10:00", true},
		{"fully inside", "09:15", "09:45", true},
		{"overlaps start", "08:30", "09:30", true},
		{"overlaps end", "09:30", "10:30", true},
		{"covers existing", "08:00", "11:00", true},
		{"touches end boundary", "10:00", "11:00", false},
		{"touches start boundary", "08:00", "09:00", false},
		{"disjoint after", "11:00", "12:00", false},
		{"disjoint before", "07:00", "08:00", false},
	}

	existing := []model.Booking{upcoming("2026-03-15", "09:00", "10:00")}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.StartTime = tt.start
			req.EndTime = tt.end

			_, err := e.TryCreateBooking(req, existing, 0, fixedNow)
			if tt.wantConflict {
				if KindOf(err) != KindSlotConflict {
					t.Errorf("kind = %q, want %q", KindOf(err), KindSlotConflict)
				}
			} else if err != nil {
				t.Errorf("expected admission, got: %v", err)
			}
		})
	}
}

func TestTryCreateBooking_IgnoresOtherDatesAndStatuses(t *testing.T) {
	e := newTestEngine()
	req := validRequest()

	existing := []model.Booking{
		upcoming("2026-03-16", "09:00", "10:00"), // different date
		func() model.Booking {
			b := upcoming("2026-03-15", "09:00", "10:00")
			b.Status = model.StatusCancelled // cancelled bookings free the slot
			return b
		}(),
		func() model.Booking {
			b := upcoming("2026-03-15", "09:00", "10:00")
			b.Status = model.StatusCompleted
			return b
		}(),
	}

	if _, err := e.TryCreateBooking(req, existing, 0, fixedNow); err != nil {
		t.Errorf("only upcoming bookings on the same date should conflict, got: %v", err)
	}
}

func TestTryCreateBooking_ValidationOrder(t *testing.T) {
	e := newTestEngine()

	// A request failing several checks at once reports the earliest
	// one: structural beats ordering beats date beats quota.
	req := validRequest()
	req.RoomID = "not-a-uuid"
	req.StartTime = "14:00"
	req.EndTime = "10:00"
	req.Date = "2020-01-01"

	_, err := e.TryCreateBooking(req, nil, 5, fixedNow)
	if KindOf(err) != KindInvalidInput {
		t.Errorf("kind = %q, want %q (structural failure wins)", KindOf(err), KindInvalidInput)
	}

	req.RoomID = testRoomID
	_, err = e.TryCreateBooking(req, nil, 5, fixedNow)
	if KindOf(err) != KindInvalidTimeRange {
		t.Errorf("kind = %q, want %q (ordering beats past date)", KindOf(err), KindInvalidTimeRange)
	}

	req.StartTime, req.EndTime = "09:00", "10:00"
	_, err = e.TryCreateBooking(req, nil, 5, fixedNow)
	if KindOf(err) != KindPastDate {
		t.Errorf("kind = %q, want %q (past date beats quota)", KindOf(err), KindPastDate)
	}
}

func TestTryCreateBooking_AdmitThenConflict(t *testing.T) {
	e := newTestEngine()

	first := validRequest()
	admitted, err := e.TryCreateBooking(first, nil, 0, fixedNow)
	if err != nil {
		t.Fatalf("first booking should be admitted: %v", err)
	}

	second := validRequest()
	second.UserID = otherUserID
	second.StartTime = "09:30"
	second.EndTime = "10:30"

	_, err = e.TryCreateBooking(second, []model.Booking{*admitted}, 0, fixedNow)
	if KindOf(err) != KindSlotConflict {
		t.Errorf("kind = %q, want %q", KindOf(err), KindSlotConflict)
	}

	// Disjoint back-to-back slots are both admissible.
	third := validRequest()
	third.UserID = otherUserID
	third.StartTime = "10:00"
	third.EndTime = "11:00"

	if _, err := e.TryCreateBooking(third, []model.Booking{*admitted}, 0, fixedNow); err != nil {
		t.Errorf("back-to-back slot should be admissible, got: %v", err)
	}
}

func TestTryCancelBooking(t *testing.T) {
	e := newTestEngine()

	base := model.Booking{
		ID:        "e5b61fcb-23ea-4d41-b218-16188e9ae275",
		UserID:    testUserID,
		RoomID:    testRoomID,
		Date:      "2026-03-10",
		StartTime: "14:00", // 5h after fixedNow
		EndTime:   "15:00",
		Status:    model.StatusUpcoming,
	}

	t.Run("success far enough ahead", func(t *testing.T) {
		cancelled, err := e.TryCancelBooking(base, testUserID, fixedNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cancelled.Status != model.StatusCancelled {
			t.Errorf("status = %s, want %s", cancelled.Status, model.StatusCancelled)
		}
		if cancelled.ID != base.ID || cancelled.Date != base.Date || cancelled.StartTime != base.StartTime {
			t.Error("cancellation must not change any field besides status")
		}
	})

	t.Run("exactly at the lead time boundary", func(t *testing.T) {
		// Start is exactly 2h away: boundary is success-inclusive.
		b := base
		b.StartTime = "11:00"
		if _, err := e.TryCancelBooking(b, testUserID, fixedNow); err != nil {
			t.Errorf("cancellation at exactly 2h should succeed, got: %v", err)
		}
	})

	t.Run("inside the lead time", func(t *testing.T) {
		b := base
		b.StartTime = "10:59"
		_, err := e.TryCancelBooking(b, testUserID, fixedNow)
		if KindOf(err) != KindTooLateToCancel {
			t.Errorf("kind = %q, want %q", KindOf(err), KindTooLateToCancel)
		}
	})

	t.Run("booking already started", func(t *testing.T) {
		b := base
		b.StartTime = "08:00"
		_, err := e.TryCancelBooking(b, testUserID, fixedNow)
		if KindOf(err) != KindTooLateToCancel {
			t.Errorf("kind = %q, want %q", KindOf(err), KindTooLateToCancel)
		}
	})

	t.Run("foreign booking", func(t *testing.T) {
		_, err := e.TryCancelBooking(base, otherUserID, fixedNow)
		if KindOf(err) != KindForbidden {
			t.Errorf("kind = %q, want %q", KindOf(err), KindForbidden)
		}
	})

	t.Run("already cancelled", func(t *testing.T) {
		b := base
		b.Status = model.StatusCancelled
		_, err := e.TryCancelBooking(b, testUserID, fixedNow)
		if KindOf(err) != KindInvalidState {
			t.Errorf("kind = %q, want %q", KindOf(err), KindInvalidState)
		}
	})

	t.Run("already completed", func(t *testing.T) {
		b := base
		b.Status = model.StatusCompleted
		_, err := e.TryCancelBooking(b, testUserID, fixedNow)
		if KindOf(err) != KindInvalidState {
			t.Errorf("kind = %q, want %q", KindOf(err), KindInvalidState)
		}
	})

	t.Run("ownership beats state", func(t *testing.T) {
		b := base
		b.Status = model.StatusCompleted
		_, err := e.TryCancelBooking(b, otherUserID, fixedNow)
		if KindOf(err) != KindForbidden {
			t.Errorf("kind = %q, want %q", KindOf(err), KindForbidden)
		}
	})
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"identical", "09:00", "10:00", "09:00", "10:00", true},
		{"partial", "09:30", "10:30", "09:00", "10:00", true},
		{"contained", "09:15", "09:45", "09:00", "10:00", true},
		{"touching end", "10:00", "11:00", "09:00", "10:00", false},
		{"touching start", "08:00", "09:00", "09:00", "10:00", false},
		{"disjoint", "11:00", "12:00", "09:00", "10:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Errorf("Overlaps(%s,%s,%s,%s) = %v, want %v", tt.s1, tt.e1, tt.s2, tt.e2, got, tt.want)
			}
			// The predicate is symmetric.
			if got := Overlaps(tt.s2, tt.e2, tt.s1, tt.e1); got != tt.want {
				t.Errorf("Overlaps is not symmetric for %s", tt.name)
			}
		})
	}
}
