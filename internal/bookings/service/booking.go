package service

import (
	"context"
	"errors"
	"time"

	"github.com/djibril1212/EasyBooking/internal/bookings/engine"
	bookingerrors "github.com/djibril1212/EasyBooking/internal/bookings/errors"
	"github.com/djibril1212/EasyBooking/internal/bookings/repository"
	"github.com/djibril1212/EasyBooking/pkg/config"
	apperrors "github.com/djibril1212/EasyBooking/pkg/errors"
	"github.com/djibril1212/EasyBooking/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// RoomDirectory is the slice of the rooms repository the booking side
// needs: existence checks only.
type RoomDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// LifecyclePublisher emits booking lifecycle events after state changes
// commit. *events.Publisher satisfies it.
type LifecyclePublisher interface {
	Created(ctx context.Context, b *model.Booking, occurredAt time.Time) error
	Cancelled(ctx context.Context, b *model.Booking, occurredAt time.Time) error
}

// HistoryReader exposes the append-only lifecycle log the auditor
// writes. repository.EventLogRepository satisfies it.
type HistoryReader interface {
	FindByBooking(ctx context.Context, bookingID string) ([]*model.BookingEvent, error)
}

type BookingService interface {
	Create(ctx context.Context, req model.BookingRequest) (*model.Booking, error)
	Cancel(ctx context.Context, id string, requesterID string) (*model.Booking, error)
	GetByID(ctx context.Context, id string, requesterID string) (*model.Booking, error)
	History(ctx context.Context, id string, requesterID string) ([]*model.BookingEvent, error)
	ListForUser(ctx context.Context, userID string, limit int, offset int) ([]*model.Booking, error)
	Availability(ctx context.Context, roomID string, date string) ([]model.TimeSlot, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	locks     repository.LockRepository
	rooms     RoomDirectory
	history   HistoryReader
	engine    *engine.Engine
	publisher LifecyclePublisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	locks repository.LockRepository,
	rooms RoomDirectory,
	history HistoryReader,
	eng *engine.Engine,
	publisher LifecyclePublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		locks:     locks,
		rooms:     rooms,
		history:   history,
		engine:    eng,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// mapEngineError translates an admission verdict into the API error
// surface. Admission failures on state or input are 400s, slot contention
// is a 409, foreign bookings are a 403.
func mapEngineError(err error) error {
	var engErr *engine.Error
	if !errors.As(err, &engErr) {
		return apperrors.Internal("Booking admission failed", err)
	}

	switch engErr.Kind {
	case engine.KindInvalidInput:
		return apperrors.New(apperrors.CodeInvalidInput, engErr.Message, 400)
	case engine.KindInvalidTimeRange:
		return apperrors.New(apperrors.CodeInvalidTimeRange, engErr.Message, 400)
	case engine.KindPastDate:
		return apperrors.New(apperrors.CodePastDate, engErr.Message, 400)
	case engine.KindQuotaExceeded:
		return apperrors.New(apperrors.CodeQuotaExceeded, engErr.Message, 400)
	case engine.KindSlotConflict:
		return apperrors.New(apperrors.CodeSlotConflict, engErr.Message, 409)
	case engine.KindForbidden:
		return apperrors.New(apperrors.CodeForbidden, engErr.Message, 403)
	case engine.KindInvalidState:
		return apperrors.New(apperrors.CodeInvalidState, engErr.Message, 400)
	case engine.KindTooLateToCancel:
		return apperrors.New(apperrors.CodeTooLateToCancel, engErr.Message, 400)
	default:
		return apperrors.Internal("Booking admission failed", err)
	}
}

func (s *bookingService) Create(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
	// Pre-flight against an empty snapshot. This rejects structurally
	// invalid requests before we touch the room directory or the lock;
	// quota and conflicts cannot fire here.
	if _, err := s.engine.TryCreateBooking(req, nil, 0, s.now()); err != nil {
		return nil, mapEngineError(err)
	}

	exists, err := s.rooms.Exists(ctx, req.RoomID)
	if err != nil {
		s.cfg.Log.Error("Failed to check room existence",
			"room_id", req.RoomID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to verify room", err)
	}
	if !exists {
		return nil, apperrors.NotFoundWithID("Room", req.RoomID)
	}

	// Advisory lock on the room-day. Two requests racing for the same
	// room and date serialize here; the loser gets an immediate 409.
	key := repository.LockKey(req.RoomID, req.Date)
	if err := s.locks.Acquire(ctx, key); err != nil {
		if errors.Is(err, bookingerrors.ErrLockHeld) {
			return nil, apperrors.Conflict("Another booking for this room is in progress, please retry")
		}
		s.cfg.Log.Error("Failed to acquire booking lock", "key", key, "error", err)
		return nil, apperrors.Internal("Failed to acquire booking lock", err)
	}
	defer func() {
		if err := s.locks.Release(context.WithoutCancel(ctx), key); err != nil {
			s.cfg.Log.Warn("Failed to release booking lock, TTL will reap it",
				"key", key,
				"error", err,
			)
		}
	}()

	var created *model.Booking
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindForRoomDate(sessCtx, req.RoomID, req.Date)
		if err != nil {
			return apperrors.Internal("Failed to load room bookings", err)
		}

		upcoming, err := s.repo.CountUpcomingByUser(sessCtx, req.UserID)
		if err != nil {
			return apperrors.Internal("Failed to count upcoming bookings", err)
		}

		booking, err := s.engine.TryCreateBooking(req, existing, int(upcoming), s.now())
		if err != nil {
			return mapEngineError(err)
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to persist booking", err)
		}
		created = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking created",
		"id", created.ID,
		"user_id", created.UserID,
		"room_id", created.RoomID,
		"date", created.Date,
		"start_time", created.StartTime,
	)

	// The booking is committed; a publish failure must not undo it.
	if err := s.publisher.Created(ctx, created, s.now()); err != nil {
		s.cfg.Log.Error("Failed to publish booking created event",
			"id", created.ID,
			"error", err,
		)
	}

	return created, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string, requesterID string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	cancelled, err := s.engine.TryCancelBooking(*booking, requesterID, s.now())
	if err != nil {
		return nil, mapEngineError(err)
	}

	// The status filter in UpdateStatus makes concurrent cancellations
	// race-safe: only one transition out of upcoming can match.
	if err := s.repo.UpdateStatus(ctx, id, model.StatusUpcoming, model.StatusCancelled); err != nil {
		if errors.Is(err, bookingerrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeInvalidState, "Booking is no longer upcoming", 400)
		}
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}

	s.cfg.Log.Info("Booking cancelled", "id", id, "user_id", requesterID)

	if err := s.publisher.Cancelled(ctx, cancelled, s.now()); err != nil {
		s.cfg.Log.Error("Failed to publish booking cancelled event",
			"id", id,
			"error", err,
		)
	}

	return cancelled, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string, requesterID string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != requesterID {
		return nil, apperrors.Forbidden("Booking belongs to another user")
	}

	return booking, nil
}

// History returns the lifecycle events recorded for a booking, oldest
// first. The auditor writes asynchronously, so a freshly created booking
// may have an empty history for a moment.
func (s *bookingService) History(ctx context.Context, id string, requesterID string) ([]*model.BookingEvent, error) {
	booking, err := s.GetByID(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	events, err := s.history.FindByBooking(ctx, booking.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to load booking history",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve booking history", err)
	}
	return events, nil
}

func (s *bookingService) ListForUser(ctx context.Context, userID string, limit int, offset int) ([]*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, err := s.repo.Search(ctx, repository.SearchFilter{UserID: userID}, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings",
			"user_id", userID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) Availability(ctx context.Context, roomID string, date string) ([]model.TimeSlot, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	exists, err := s.rooms.Exists(ctx, roomID)
	if err != nil {
		s.cfg.Log.Error("Failed to check room existence",
			"room_id", roomID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to verify room", err)
	}
	if !exists {
		return nil, apperrors.NotFoundWithID("Room", roomID)
	}

	bookings, err := s.repo.FindForRoomDate(ctx, roomID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to load room bookings",
			"room_id", roomID,
			"date", date,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to compute availability", err)
	}

	return s.engine.ComputeAvailability(bookings), nil
}

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to get booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}
