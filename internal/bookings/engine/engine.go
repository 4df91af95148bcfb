package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/djibril1212/EasyBooking/pkg/model"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// Engine is the booking admission engine: pure decision functions over
// a state snapshot the caller gathered. It performs no I/O and reads no
// ambient clock; "now" is always a parameter, so every decision is
// deterministic and unit-testable without a database.
//
// Under concurrent requests the conflict scan is advisory only; the
// persistence layer supplies the second line of defense (advisory slot
// lock plus transaction, see the bookings service).
type Engine struct {
	maxUpcomingPerUser   int
	cancellationLeadTime time.Duration
	slotOpenHour         int
	slotCloseHour        int
}

type Config struct {
	// MaxUpcomingPerUser caps a user's simultaneously upcoming
	// bookings. Zero means the default of 3.
	MaxUpcomingPerUser int
	// CancellationLeadTime is the minimum interval between "now" and a
	// booking's start for cancellation to be allowed. Zero means the
	// default of 2 hours.
	CancellationLeadTime time.Duration
	// SlotOpenHour/SlotCloseHour bound the availability catalog.
	// Zero values mean the default business day of 08:00-20:00.
	SlotOpenHour  int
	SlotCloseHour int
}

func New(cfg Config) *Engine {
	if cfg.MaxUpcomingPerUser <= 0 {
		cfg.MaxUpcomingPerUser = 3
	}
	if cfg.CancellationLeadTime <= 0 {
		cfg.CancellationLeadTime = 2 * time.Hour
	}
	if cfg.SlotCloseHour <= cfg.SlotOpenHour {
		cfg.SlotOpenHour = 8
		cfg.SlotCloseHour = 20
	}
	return &Engine{
		maxUpcomingPerUser:   cfg.MaxUpcomingPerUser,
		cancellationLeadTime: cfg.CancellationLeadTime,
		slotOpenHour:         cfg.SlotOpenHour,
		slotCloseHour:        cfg.SlotCloseHour,
	}
}

// TryCreateBooking validates the request against the supplied snapshot
// and, if everything holds, constructs the Booking to persist. The
// checks run in a fixed order and the first failure wins.
//
// existing must be the room's upcoming bookings on the request date;
// upcomingCount is the requester's current number of upcoming bookings.
func (e *Engine) TryCreateBooking(req model.BookingRequest, existing []model.Booking, upcomingCount int, now time.Time) (*model.Booking, error) {
	if req.UserID == "" {
		return nil, reject(KindInvalidInput, "user id is required")
	}
	if uuid.Validate(req.RoomID) != nil {
		return nil, reject(KindInvalidInput, "room id must be a valid UUID")
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return nil, reject(KindInvalidInput, "date must be in YYYY-MM-DD format")
	}
	if !validClock(req.StartTime) || !validClock(req.EndTime) {
		return nil, reject(KindInvalidInput, "start and end times must be in HH:MM format")
	}

	// Zero-padded HH:MM strings order lexicographically, so plain
	// string comparison is chronological comparison.
	if req.StartTime >= req.EndTime {
		return nil, reject(KindInvalidTimeRange, "end time must be after start time")
	}

	if req.Date < now.Format(dateLayout) {
		return nil, reject(KindPastDate, "cannot book a date in the past")
	}

	if upcomingCount >= e.maxUpcomingPerUser {
		return nil, reject(KindQuotaExceeded,
			fmt.Sprintf("you have reached the maximum of %d active bookings", e.maxUpcomingPerUser))
	}

	for _, b := range existing {
		if b.Status != model.StatusUpcoming || b.RoomID != req.RoomID || b.Date != req.Date {
			continue
		}
		if Overlaps(req.StartTime, req.EndTime, b.StartTime, b.EndTime) {
			return nil, reject(KindSlotConflict,
				fmt.Sprintf("this slot conflicts with an existing booking (%s - %s)", b.StartTime, b.EndTime))
		}
	}

	return &model.Booking{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		RoomID:    req.RoomID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    model.StatusUpcoming,
		CreatedAt: now,
	}, nil
}

// TryCancelBooking decides whether requesterID may cancel the booking
// at instant now, and returns the cancelled copy. The caller persists
// the transition; no other field changes.
func (e *Engine) TryCancelBooking(b model.Booking, requesterID string, now time.Time) (*model.Booking, error) {
	if b.UserID != requesterID {
		return nil, reject(KindForbidden, "this booking belongs to another user")
	}
	if b.Status != model.StatusUpcoming {
		return nil, reject(KindInvalidState, "this booking cannot be cancelled")
	}

	start, err := StartInstant(b, now.Location())
	if err != nil {
		return nil, reject(KindInvalidInput, "booking has a malformed date or start time")
	}
	if start.Sub(now) < e.cancellationLeadTime {
		return nil, reject(KindTooLateToCancel,
			fmt.Sprintf("cancellation is only possible up to %s before the slot", e.cancellationLeadTime))
	}

	cancelled := b
	cancelled.Status = model.StatusCancelled
	return &cancelled, nil
}

// Overlaps implements the half-open interval predicate shared by the
// admission check and availability view: [s1,e1) and [s2,e2) conflict
// iff s1 < e2 && e1 > s2. Touching endpoints do not conflict.
func Overlaps(start1, end1, start2, end2 string) bool {
	return start1 < end2 && end1 > start2
}

// StartInstant resolves a booking's date and start time into an instant
// in the given location.
func StartInstant(b model.Booking, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout+" "+clockLayout, b.Date+" "+b.StartTime, loc)
}

func validClock(s string) bool {
	if len(s) != len(clockLayout) {
		return false
	}
	_, err := time.Parse(clockLayout, s)
	return err == nil
}
