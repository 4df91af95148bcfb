package completer

import (
	"context"
	"testing"
	"time"

	bookingerrors "github.com/djibril1212/EasyBooking/internal/bookings/errors"
	"github.com/djibril1212/EasyBooking/internal/bookings/repository"
	"github.com/djibril1212/EasyBooking/pkg/logger"
	"github.com/djibril1212/EasyBooking/pkg/model"

	mongotx "github.com/djibril1212/EasyBooking/pkg/db/mongo"
)

type mockRepo struct {
	findFinishedFunc func(ctx context.Context, date, clock string, limit int) ([]*model.Booking, error)
	updateStatusFunc func(ctx context.Context, id string, from, to model.BookingStatus) error
}

func (m *mockRepo) FindFinishedUpcoming(ctx context.Context, date, clock string, limit int) ([]*model.Booking, error) {
	if m.findFinishedFunc != nil {
		return m.findFinishedFunc(ctx, date, clock, limit)
	}
	return nil, nil
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, from, to)
	}
	return nil
}

func (m *mockRepo) Create(ctx context.Context, b *model.Booking) error { return nil }
func (m *mockRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, bookingerrors.ErrNotFound
}
func (m *mockRepo) Search(ctx context.Context, f repository.SearchFilter, limit, offset int) ([]*model.Booking, error) {
	return nil, nil
}
func (m *mockRepo) FindForRoomDate(ctx context.Context, roomID, date string) ([]model.Booking, error) {
	return nil, nil
}
func (m *mockRepo) CountUpcomingByUser(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}
func (m *mockRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return nil
}

type mockCompletionPublisher struct {
	completed []string
}

func (m *mockCompletionPublisher) Completed(ctx context.Context, b *model.Booking, occurredAt time.Time) error {
	m.completed = append(m.completed, b.ID)
	return nil
}

func newTestCompleter(repo *mockRepo, pub *mockCompletionPublisher) *Completer {
	c := New(repo, pub, time.Minute, logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	}))
	c.now = func() time.Time {
		return time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	}
	return c
}

func TestSweep_CompletesFinishedBookings(t *testing.T) {
	var gotDate, gotClock string
	transitions := map[string]model.BookingStatus{}

	repo := &mockRepo{
		findFinishedFunc: func(ctx context.Context, date, clock string, limit int) ([]*model.Booking, error) {
			gotDate, gotClock = date, clock
			return []*model.Booking{
				{ID: "b-1", Status: model.StatusUpcoming},
				{ID: "b-2", Status: model.StatusUpcoming},
			}, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, from, to model.BookingStatus) error {
			if from != model.StatusUpcoming {
				t.Errorf("from = %s, want %s", from, model.StatusUpcoming)
			}
			transitions[id] = to
			return nil
		},
	}
	pub := &mockCompletionPublisher{}
	c := newTestCompleter(repo, pub)

	if got := c.Sweep(context.Background()); got != 2 {
		t.Errorf("Sweep() = %d, want 2", got)
	}
	if gotDate != "2026-03-10" || gotClock != "14:30" {
		t.Errorf("query cutoff = (%s, %s), want (2026-03-10, 14:30)", gotDate, gotClock)
	}
	for _, id := range []string{"b-1", "b-2"} {
		if transitions[id] != model.StatusCompleted {
			t.Errorf("booking %s transitioned to %s, want %s", id, transitions[id], model.StatusCompleted)
		}
	}
	if len(pub.completed) != 2 {
		t.Errorf("published %d completed events, want 2", len(pub.completed))
	}
}

func TestSweep_SkipsLostRaces(t *testing.T) {
	repo := &mockRepo{
		findFinishedFunc: func(ctx context.Context, date, clock string, limit int) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "b-1", Status: model.StatusUpcoming},
				{ID: "b-2", Status: model.StatusUpcoming},
			}, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, from, to model.BookingStatus) error {
			if id == "b-1" {
				// Cancelled between query and update.
				return bookingerrors.ErrNotFound
			}
			return nil
		},
	}
	pub := &mockCompletionPublisher{}
	c := newTestCompleter(repo, pub)

	if got := c.Sweep(context.Background()); got != 1 {
		t.Errorf("Sweep() = %d, want 1", got)
	}
	if len(pub.completed) != 1 || pub.completed[0] != "b-2" {
		t.Errorf("completed events = %v, want [b-2]", pub.completed)
	}
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	c := newTestCompleter(&mockRepo{}, &mockCompletionPublisher{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("completer did not stop after context cancellation")
	}
}
