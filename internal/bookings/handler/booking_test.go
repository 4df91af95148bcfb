package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	apperrors "github.com/djibril1212/EasyBooking/pkg/errors"
	"github.com/djibril1212/EasyBooking/pkg/logger"
	"github.com/djibril1212/EasyBooking/pkg/middleware"
	"github.com/djibril1212/EasyBooking/pkg/model"
)

type mockBookingService struct {
	createFunc       func(ctx context.Context, req model.BookingRequest) (*model.Booking, error)
	cancelFunc       func(ctx context.Context, id, requesterID string) (*model.Booking, error)
	getByIDFunc      func(ctx context.Context, id, requesterID string) (*model.Booking, error)
	historyFunc      func(ctx context.Context, id, requesterID string) ([]*model.BookingEvent, error)
	listForUserFunc  func(ctx context.Context, userID string, limit, offset int) ([]*model.Booking, error)
	availabilityFunc func(ctx context.Context, roomID, date string) ([]model.TimeSlot, error)
}

func (m *mockBookingService) Create(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &model.Booking{ID: "created", UserID: req.UserID}, nil
}

func (m *mockBookingService) Cancel(ctx context.Context, id, requesterID string) (*model.Booking, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id, requesterID)
	}
	return &model.Booking{ID: id, Status: model.StatusCancelled}, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id, requesterID string) (*model.Booking, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id, requesterID)
	}
	return &model.Booking{ID: id}, nil
}

func (m *mockBookingService) History(ctx context.Context, id, requesterID string) ([]*model.BookingEvent, error) {
	if m.historyFunc != nil {
		return m.historyFunc(ctx, id, requesterID)
	}
	return []*model.BookingEvent{}, nil
}

func (m *mockBookingService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*model.Booking, error) {
	if m.listForUserFunc != nil {
		return m.listForUserFunc(ctx, userID, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingService) Availability(ctx context.Context, roomID, date string) ([]model.TimeSlot, error) {
	if m.availabilityFunc != nil {
		return m.availabilityFunc(ctx, roomID, date)
	}
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
}

func authedRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, "user-1")
	return r.WithContext(ctx)
}

func newRouter(svc *mockBookingService) *httprouter.Router {
	router := httprouter.New()
	NewBookingHandler(svc, testLogger()).RegisterRoutes(router)
	return router
}

func TestCreate_ReturnsCreated(t *testing.T) {
	var gotReq model.BookingRequest
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
			gotReq = req
			return &model.Booking{ID: "b-1", UserID: req.UserID, Status: model.StatusUpcoming}, nil
		},
	}
	router := newRouter(svc)

	body := `{"room_id":"r-1","date":"2026-03-15","start_time":"09:00","end_time":"10:00","user_id":"spoofed"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/api/v1/bookings", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusCreated, w.Body.String())
	}
	if gotReq.UserID != "user-1" {
		t.Errorf("user id = %q, the token identity must override the body", gotReq.UserID)
	}
	if gotReq.RoomID != "r-1" || gotReq.StartTime != "09:00" {
		t.Errorf("request not decoded: %+v", gotReq)
	}
}

func TestCreate_Unauthenticated(t *testing.T) {
	router := newRouter(&mockBookingService{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))
	router.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestCreate_BadBody(t *testing.T) {
	router := newRouter(&mockBookingService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/api/v1/bookings", "{not json"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCreate_ServiceErrorPropagates(t *testing.T) {
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
			return nil, apperrors.New(apperrors.CodeSlotConflict, "Time slot is already booked", 409)
		},
	}
	router := newRouter(svc)

	body := `{"room_id":"r-1","date":"2026-03-15","start_time":"09:00","end_time":"10:00"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/api/v1/bookings", body))

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusConflict)
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if resp.Code != apperrors.CodeSlotConflict {
		t.Errorf("code = %q, want %q", resp.Code, apperrors.CodeSlotConflict)
	}
}

func TestList_PassesPagination(t *testing.T) {
	var gotLimit, gotOffset int
	svc := &mockBookingService{
		listForUserFunc: func(ctx context.Context, userID string, limit, offset int) ([]*model.Booking, error) {
			gotLimit, gotOffset = limit, offset
			return []*model.Booking{{ID: "b-1", UserID: userID}}, nil
		},
	}
	router := newRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/bookings?limit=5&offset=10", ""))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotLimit != 5 || gotOffset != 10 {
		t.Errorf("pagination = (%d,%d), want (5,10)", gotLimit, gotOffset)
	}
}

func TestList_RejectsBadLimit(t *testing.T) {
	router := newRouter(&mockBookingService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/bookings?limit=abc", ""))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCancel_ReturnsBooking(t *testing.T) {
	svc := &mockBookingService{
		cancelFunc: func(ctx context.Context, id, requesterID string) (*model.Booking, error) {
			if requesterID != "user-1" {
				t.Errorf("requester = %q, want user-1", requesterID)
			}
			return &model.Booking{ID: id, Status: model.StatusCancelled}, nil
		},
	}
	router := newRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodDelete, "/api/v1/bookings/id/b-1", ""))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestHistory_ReturnsEvents(t *testing.T) {
	svc := &mockBookingService{
		historyFunc: func(ctx context.Context, id, requesterID string) ([]*model.BookingEvent, error) {
			if requesterID != "user-1" {
				t.Errorf("requesterID = %q, want user-1", requesterID)
			}
			return []*model.BookingEvent{
				{ID: "evt-1", BookingID: id, EventType: "booking.created"},
			}, nil
		},
	}
	router := newRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/bookings/id/b-1/history", ""))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Data []struct {
			EventType string `json:"event_type"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].EventType != "booking.created" {
		t.Errorf("unexpected history payload: %s", w.Body.String())
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := &mockBookingService{
		getByIDFunc: func(ctx context.Context, id, requesterID string) (*model.Booking, error) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		},
	}
	router := newRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/bookings/id/missing", ""))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
