package completer

import (
	"context"
	"errors"
	"time"

	bookingerrors "github.com/djibril1212/EasyBooking/internal/bookings/errors"
	"github.com/djibril1212/EasyBooking/internal/bookings/repository"
	"github.com/djibril1212/EasyBooking/pkg/logger"
	"github.com/djibril1212/EasyBooking/pkg/model"
)

// batchSize bounds one sweep so a long backlog cannot starve the ticker.
const batchSize = 500

type completionPublisher interface {
	Completed(ctx context.Context, b *model.Booking, occurredAt time.Time) error
}

// Completer periodically moves upcoming bookings whose end time has passed
// to the completed status. The status-filtered update makes a sweep safe to
// run from several replicas at once.
type Completer struct {
	repo      repository.BookingRepository
	publisher completionPublisher
	interval  time.Duration
	log       *logger.Logger
	now       func() time.Time
}

func New(
	repo repository.BookingRepository,
	publisher completionPublisher,
	interval time.Duration,
	log *logger.Logger,
) *Completer {
	return &Completer{
		repo:      repo,
		publisher: publisher,
		interval:  interval,
		log:       log,
		now:       time.Now,
	}
}

func (c *Completer) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.log.Info("Completer started", "interval", c.interval)

	// Sweep once at startup so a restart does not wait a full interval.
	c.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			c.log.Info("Completer stopped")
			return
		case <-ticker.C:
			c.Sweep(ctx)
		}
	}
}

// Sweep completes every upcoming booking that has already ended and
// returns the number of bookings transitioned.
func (c *Completer) Sweep(ctx context.Context) int {
	now := c.now()
	date := now.Format("2006-01-02")
	clock := now.Format("15:04")

	finished, err := c.repo.FindFinishedUpcoming(ctx, date, clock, batchSize)
	if err != nil {
		c.log.Error("Failed to query finished bookings", "error", err)
		return 0
	}

	completed := 0
	for _, b := range finished {
		err := c.repo.UpdateStatus(ctx, b.ID, model.StatusUpcoming, model.StatusCompleted)
		if err != nil {
			if errors.Is(err, bookingerrors.ErrNotFound) {
				// Another replica or a cancellation got there first.
				continue
			}
			c.log.Error("Failed to complete booking", "id", b.ID, "error", err)
			continue
		}
		completed++

		b.Status = model.StatusCompleted
		if err := c.publisher.Completed(ctx, b, now); err != nil {
			c.log.Error("Failed to publish booking completed event",
				"id", b.ID,
				"error", err,
			)
		}
	}

	if completed > 0 {
		c.log.Info("Completed finished bookings", "count", completed)
	}
	return completed
}
