package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/service/events"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Book(ctx context.Context, req domain.BookingRequest) (*domain.BookingResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingResult), args.Error(1)
}

type MockEventUseCase struct {
	mock.Mock
}

func (m *MockEventUseCase) Create(ctx context.Context, ownerID string, in events.CreateEventInput) (*domain.Event, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventUseCase) List(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventUseCase) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventUseCase) GetDetails(ctx context.Context, id string) (*domain.EventDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventDetails), args.Error(1)
}

func (m *MockEventUseCase) Profile(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockEventUseCase) TimeOptions() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func bookingContext(t *testing.T, userID, quantity string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	form := url.Values{"quantity": {quantity}}
	c.Request = httptest.NewRequest(http.MethodPost, "/events/event-1/bookings", strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Params = gin.Params{{Key: "id", Value: "event-1"}}
	if userID != "" {
		c.Set(userIDKey, userID)
	}
	return c, w
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	mockEvents := &MockEventUseCase{}
	handler := NewBookingHandler(mockService, mockEvents)

	c, w := bookingContext(t, "alice", "3")

	result := &domain.BookingResult{
		BookingID:        "b1",
		EventID:          "event-1",
		RemainingTickets: 7,
		TotalPriceCents:  7500,
		QuantityBooked:   3,
		Currency:         "BHD",
		BookedAt:         time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
	}
	details := &domain.EventDetails{
		Event:         domain.Event{ID: "event-1", Title: "Swan Lake", PriceCents: 2500, TicketQuantity: 7, InitialTicketQuantity: 10},
		OwnerUsername: "owner",
		Attendees:     []domain.AttendeeView{{Attendee: domain.Attendee{UserID: "alice", Quantity: 3, TotalPaidCents: 7500}, Username: "alice"}},
	}

	mockService.On("Book", c.Request.Context(), domain.BookingRequest{EventID: "event-1", UserID: "alice", Quantity: "3"}).Return(result, nil)
	mockEvents.On("GetDetails", c.Request.Context(), "event-1").Return(details, nil)

	handler.create(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "success", response.Status)
	assert.Equal(t, "You successfully booked 3 ticket(s) for 75.00 BHD", response.Message)
	assert.Equal(t, 7, response.RemainingTickets)
	assert.Equal(t, "75.00", response.TotalPrice)
	assert.Equal(t, 3, response.QuantityBooked)
	require.NotNil(t, response.Event)
	assert.Equal(t, 3, response.Event.SoldTickets)
	assert.Equal(t, "alice", response.Event.Attendees[0].Username)

	mockService.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestBookingHandler_create_Rejections(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		code     int
		location string
		message  string
	}{
		{"invalid quantity", domain.ErrInvalidQuantity, http.StatusUnprocessableEntity, "", "Please enter a valid number of tickets."},
		{"insufficient", &domain.InsufficientInventoryError{Remaining: 5}, http.StatusUnprocessableEntity, "", "Cannot Complete Booking Process. Not enough tickets available. Only 5 left."},
		{"anonymous", domain.ErrUnauthenticated, http.StatusSeeOther, "/auth/sign-in", ""},
		{"owner", domain.ErrForbidden, http.StatusSeeOther, "/events/event-1", ""},
		{"missing event", domain.ErrEventNotFound, http.StatusSeeOther, "/events", ""},
		{"storage failure", domain.Persistence("reserve tickets", errors.New("db down")), http.StatusInternalServerError, "", "Something went wrong. Please try again."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			mockEvents := &MockEventUseCase{}
			handler := NewBookingHandler(mockService, mockEvents)
			c, w := bookingContext(t, "alice", "10")

			mockService.On("Book", c.Request.Context(), mock.AnythingOfType("domain.BookingRequest")).Return(nil, tc.err)

			handler.create(c)
			c.Writer.WriteHeaderNow()

			assert.Equal(t, tc.code, w.Code)
			if tc.location != "" {
				assert.Equal(t, tc.location, w.Header().Get("Location"))
			}
			if tc.message != "" {
				var response messageResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, "error", response.Status)
				assert.Equal(t, tc.message, response.Message)
			}
			mockEvents.AssertNotCalled(t, "GetDetails", mock.Anything, mock.Anything)
		})
	}
}

func TestBookingHandler_create_PassesIdentityAndRawQuantity(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, nil)
	c, _ := bookingContext(t, "", " 2.5 ")

	mockService.On("Book", c.Request.Context(), domain.BookingRequest{EventID: "event-1", UserID: "", Quantity: " 2.5 "}).
		Return(nil, domain.ErrUnauthenticated).Once()

	handler.create(c)

	mockService.AssertExpectations(t)
}
