package bookings_test

import (
	"fmt"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/djibril1212/EasyBooking/test/integration/testutil"
)

// The suite needs the server, MongoDB, and Kafka running. Start them
// with docker compose, run the migration job, then:
//
//	RUN_INTEGRATION_TESTS=1 go test ./test/integration/...
func TestBookingLifecycle(t *testing.T) {
	testutil.RequireIntegration(t)

	env := testutil.NewTestEnv()
	mongo, anon := env.Setup(t)
	defer env.Cleanup(t, mongo)

	roomID := testutil.NewRoomBuilder().WithName("Integration Room").Insert(t, mongo)

	alice, aliceID := testutil.RegisterUser(t, anon, "alice@example.com")
	bob, _ := testutil.RegisterUser(t, anon, "bob@example.com")

	date := testutil.Tomorrow()

	var bookingID string

	t.Run("unauthenticated booking is rejected", func(t *testing.T) {
		resp := anon.POST(t, "/api/v1/bookings", testutil.NewBookingBuilder(roomID).Build())
		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})

	t.Run("create booking", func(t *testing.T) {
		payload := testutil.NewBookingBuilder(roomID).WithDate(date).WithTimes("09:00", "10:00").Build()
		resp := alice.POST(t, "/api/v1/bookings", payload)
		testutil.AssertStatusCode(t, resp, http.StatusCreated)

		var booking struct {
			ID     string `json:"id"`
			UserID string `json:"user_id"`
			Status string `json:"status"`
		}
		resp.Data(t, &booking)

		if booking.UserID != aliceID {
			t.Errorf("booking owner = %q, want %q", booking.UserID, aliceID)
		}
		if booking.Status != "upcoming" {
			t.Errorf("booking status = %q, want upcoming", booking.Status)
		}
		bookingID = booking.ID

		if got := mongo.CountDocuments(t, testutil.BookingsCollection, bson.M{"_id": booking.ID}); got != 1 {
			t.Errorf("persisted bookings = %d, want 1", got)
		}
	})

	t.Run("overlapping booking conflicts", func(t *testing.T) {
		payload := testutil.NewBookingBuilder(roomID).WithDate(date).WithTimes("09:30", "10:30").Build()
		resp := bob.POST(t, "/api/v1/bookings", payload)
		testutil.AssertStatusCode(t, resp, http.StatusConflict)
		testutil.AssertErrorCode(t, resp, "SLOT_CONFLICT")
	})

	t.Run("back to back booking is allowed", func(t *testing.T) {
		payload := testutil.NewBookingBuilder(roomID).WithDate(date).WithTimes("10:00", "11:00").Build()
		resp := bob.POST(t, "/api/v1/bookings", payload)
		testutil.AssertStatusCode(t, resp, http.StatusCreated)
	})

	t.Run("quota rejects a fourth upcoming booking", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			payload := testutil.NewBookingBuilder(roomID).
				WithDate(testutil.DaysFromNow(2+i)).
				WithTimes("09:00", "10:00").
				Build()
			resp := alice.POST(t, "/api/v1/bookings", payload)
			testutil.AssertStatusCode(t, resp, http.StatusCreated)
		}

		payload := testutil.NewBookingBuilder(roomID).
			WithDate(testutil.DaysFromNow(5)).
			WithTimes("09:00", "10:00").
			Build()
		resp := alice.POST(t, "/api/v1/bookings", payload)
		testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
		testutil.AssertErrorCode(t, resp, "QUOTA_EXCEEDED")
	})

	t.Run("availability reflects bookings", func(t *testing.T) {
		resp := alice.GET(t, fmt.Sprintf("/api/v1/rooms/id/%s/availability?date=%s", roomID, date))
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var slots []struct {
			Start     string `json:"start"`
			Available bool   `json:"available"`
		}
		resp.Data(t, &slots)

		if len(slots) != 12 {
			t.Fatalf("slots = %d, want 12", len(slots))
		}
		for _, slot := range slots {
			switch slot.Start {
			case "09:00", "10:00":
				if slot.Available {
					t.Errorf("slot %s should be booked", slot.Start)
				}
			default:
				if !slot.Available {
					t.Errorf("slot %s should be free", slot.Start)
				}
			}
		}
	})

	t.Run("foreign booking cannot be cancelled", func(t *testing.T) {
		resp := bob.DELETE(t, "/api/v1/bookings/id/"+bookingID)
		testutil.AssertStatusCode(t, resp, http.StatusForbidden)
	})

	t.Run("owner cancels booking", func(t *testing.T) {
		resp := alice.DELETE(t, "/api/v1/bookings/id/"+bookingID)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var booking struct {
			Status string `json:"status"`
		}
		resp.Data(t, &booking)
		if booking.Status != "cancelled" {
			t.Errorf("status = %q, want cancelled", booking.Status)
		}
	})

	t.Run("cancelled booking cannot be cancelled again", func(t *testing.T) {
		resp := alice.DELETE(t, "/api/v1/bookings/id/"+bookingID)
		testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
		testutil.AssertErrorCode(t, resp, "INVALID_STATE")
	})

	t.Run("cancelled slot frees up", func(t *testing.T) {
		payload := testutil.NewBookingBuilder(roomID).WithDate(date).WithTimes("09:00", "10:00").Build()
		resp := bob.POST(t, "/api/v1/bookings", payload)
		testutil.AssertStatusCode(t, resp, http.StatusCreated)
	})

	t.Run("list own bookings", func(t *testing.T) {
		resp := alice.GET(t, "/api/v1/bookings?limit=10&offset=0")
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var bookings []struct {
			UserID string `json:"user_id"`
		}
		resp.Data(t, &bookings)

		if len(bookings) != 3 {
			t.Errorf("bookings = %d, want 3", len(bookings))
		}
		for _, b := range bookings {
			if b.UserID != aliceID {
				t.Errorf("listing leaked booking of user %q", b.UserID)
			}
		}
	})

	t.Run("booking for unknown room is not found", func(t *testing.T) {
		payload := testutil.NewBookingBuilder("00000000-0000-0000-0000-000000000000").Build()
		resp := alice.POST(t, "/api/v1/bookings", payload)
		testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	})
}
