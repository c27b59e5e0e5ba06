package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/eventbooking/internal/clock"
	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) GetDetails(ctx context.Context, id string) (*domain.EventDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventDetails), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Event, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Event, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepository) Reserve(ctx context.Context, in domain.ReserveInput) (int, error) {
	args := m.Called(ctx, in)
	return args.Int(0), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) AppendBooking(ctx context.Context, userID string, booking domain.UserBooking) error {
	args := m.Called(ctx, userID, booking)
	return args.Error(0)
}

func (m *MockUserRepository) ToggleFavourite(ctx context.Context, userID, eventID string) (bool, error) {
	args := m.Called(ctx, userID, eventID)
	return args.Bool(0), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateEvents(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

var bookedAt = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func newEvent() *domain.Event {
	return &domain.Event{
		ID:                    "event-1",
		OwnerID:               "owner",
		Title:                 "Swan Lake",
		PriceCents:            2500,
		TicketQuantity:        10,
		InitialTicketQuantity: 10,
	}
}

func newUser(id string) *domain.User {
	return &domain.User{ID: id, Username: id, Email: id + "@example.com"}
}

func TestBookingService_Book_Success(t *testing.T) {
	events := &MockEventRepository{}
	users := &MockUserRepository{}
	cache := &MockCache{}
	producer := &MockProducer{}

	service := NewBookingService(events, users,
		WithCache(cache),
		WithProducer(producer, "bookings"),
		WithNotificationsTopic("notifications"),
		WithClock(clock.NewFixed(bookedAt)),
	)

	ctx := context.Background()
	events.On("GetByID", ctx, "event-1").Return(newEvent(), nil).Once()
	users.On("GetByID", ctx, "alice").Return(newUser("alice"), nil).Once()
	events.On("Reserve", ctx, domain.ReserveInput{EventID: "event-1", UserID: "alice", Quantity: 3, TotalPaidCents: 7500}).Return(7, nil).Once()
	users.On("AppendBooking", ctx, "alice", mock.MatchedBy(func(b domain.UserBooking) bool {
		return b.EventID == "event-1" && b.Quantity == 3 && b.TotalPaidCents == 7500 && b.BookedAt.Equal(bookedAt) && b.ID != ""
	})).Return(nil).Once()
	cache.On("InvalidateEvents", ctx).Return(nil).Once()
	producer.On("Publish", ctx, "bookings", "event-1", mock.MatchedBy(func(e kafka.BookingEvent) bool {
		return e.Type == kafka.EventTypeBookingCreated && e.Quantity == 3 && e.RemainingTickets == 7 && e.Email == "alice@example.com"
	})).Return(nil).Once()
	producer.On("Publish", ctx, "notifications", mock.Anything, mock.AnythingOfType("kafka.BookingEvent")).Return(nil).Once()

	result, err := service.Book(ctx, domain.BookingRequest{EventID: "event-1", UserID: "alice", Quantity: "3"})

	require.NoError(t, err)
	assert.Equal(t, 7, result.RemainingTickets)
	assert.Equal(t, int64(7500), result.TotalPriceCents)
	assert.Equal(t, 3, result.QuantityBooked)
	assert.Equal(t, "BHD", result.Currency)
	assert.Equal(t, bookedAt, result.BookedAt)

	events.AssertExpectations(t)
	users.AssertExpectations(t)
	cache.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestBookingService_Book_ValidationOrder(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		setup    func(events *MockEventRepository, users *MockUserRepository)
		req      domain.BookingRequest
		expected error
	}{
		{
			name: "missing event wins over missing identity",
			setup: func(events *MockEventRepository, users *MockUserRepository) {
				events.On("GetByID", ctx, "nope").Return(nil, domain.ErrEventNotFound)
			},
			req:      domain.BookingRequest{EventID: "nope", Quantity: "abc"},
			expected: domain.ErrEventNotFound,
		},
		{
			name: "anonymous requester",
			setup: func(events *MockEventRepository, users *MockUserRepository) {
				events.On("GetByID", ctx, "event-1").Return(newEvent(), nil)
			},
			req:      domain.BookingRequest{EventID: "event-1", Quantity: "1"},
			expected: domain.ErrUnauthenticated,
		},
		{
			name: "identity without a user record",
			setup: func(events *MockEventRepository, users *MockUserRepository) {
				events.On("GetByID", ctx, "event-1").Return(newEvent(), nil)
				users.On("GetByID", ctx, "ghost").Return(nil, domain.ErrUserNotFound)
			},
			req:      domain.BookingRequest{EventID: "event-1", UserID: "ghost", Quantity: "1"},
			expected: domain.ErrUnauthenticated,
		},
		{
			name: "owner wins over invalid quantity",
			setup: func(events *MockEventRepository, users *MockUserRepository) {
				events.On("GetByID", ctx, "event-1").Return(newEvent(), nil)
				users.On("GetByID", ctx, "owner").Return(newUser("owner"), nil)
			},
			req:      domain.BookingRequest{EventID: "event-1", UserID: "owner", Quantity: "-1"},
			expected: domain.ErrForbidden,
		},
		{
			name: "invalid quantity wins over insufficient inventory",
			setup: func(events *MockEventRepository, users *MockUserRepository) {
				events.On("GetByID", ctx, "event-1").Return(newEvent(), nil)
				users.On("GetByID", ctx, "alice").Return(newUser("alice"), nil)
			},
			req:      domain.BookingRequest{EventID: "event-1", UserID: "alice", Quantity: "0"},
			expected: domain.ErrInvalidQuantity,
		},
		{
			name: "more than remaining",
			setup: func(events *MockEventRepository, users *MockUserRepository) {
				events.On("GetByID", ctx, "event-1").Return(newEvent(), nil)
				users.On("GetByID", ctx, "alice").Return(newUser("alice"), nil)
			},
			req:      domain.BookingRequest{EventID: "event-1", UserID: "alice", Quantity: "11"},
			expected: domain.ErrInsufficientInventory,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			events := &MockEventRepository{}
			users := &MockUserRepository{}
			tc.setup(events, users)
			service := NewBookingService(events, users)

			result, err := service.Book(ctx, tc.req)

			assert.Nil(t, result)
			assert.ErrorIs(t, err, tc.expected)
			events.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
			users.AssertNotCalled(t, "AppendBooking", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestBookingService_Book_InsufficientAtWriteTime(t *testing.T) {
	events := &MockEventRepository{}
	users := &MockUserRepository{}
	service := NewBookingService(events, users)
	ctx := context.Background()

	events.On("GetByID", ctx, "event-1").Return(newEvent(), nil).Once()
	users.On("GetByID", ctx, "alice").Return(newUser("alice"), nil).Once()
	events.On("Reserve", ctx, mock.AnythingOfType("domain.ReserveInput")).Return(0, &domain.InsufficientInventoryError{Remaining: 1}).Once()

	result, err := service.Book(ctx, domain.BookingRequest{EventID: "event-1", UserID: "alice", Quantity: "3"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
	remaining, ok := domain.RemainingFrom(err)
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
	users.AssertNotCalled(t, "AppendBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_Book_PersistenceFailures(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("connection refused")

	t.Run("load event", func(t *testing.T) {
		events := &MockEventRepository{}
		events.On("GetByID", ctx, "event-1").Return(nil, dbErr)

		_, err := NewBookingService(events, &MockUserRepository{}).Book(ctx, domain.BookingRequest{EventID: "event-1", UserID: "alice", Quantity: "1"})
		assert.ErrorIs(t, err, domain.ErrPersistence)
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("reserve", func(t *testing.T) {
		events := &MockEventRepository{}
		users := &MockUserRepository{}
		events.On("GetByID", ctx, "event-1").Return(newEvent(), nil)
		users.On("GetByID", ctx, "alice").Return(newUser("alice"), nil)
		events.On("Reserve", ctx, mock.Anything).Return(0, dbErr)

		_, err := NewBookingService(events, users).Book(ctx, domain.BookingRequest{EventID: "event-1", UserID: "alice", Quantity: "1"})
		assert.ErrorIs(t, err, domain.ErrPersistence)
		users.AssertNotCalled(t, "AppendBooking", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("append booking is not reported as success", func(t *testing.T) {
		events := &MockEventRepository{}
		users := &MockUserRepository{}
		producer := &MockProducer{}
		events.On("GetByID", ctx, "event-1").Return(newEvent(), nil)
		users.On("GetByID", ctx, "alice").Return(newUser("alice"), nil)
		events.On("Reserve", ctx, mock.Anything).Return(9, nil)
		users.On("AppendBooking", ctx, "alice", mock.Anything).Return(dbErr)

		result, err := NewBookingService(events, users, WithProducer(producer, "bookings")).
			Book(ctx, domain.BookingRequest{EventID: "event-1", UserID: "alice", Quantity: "1"})
		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrPersistence)
		producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBookingService_Book_PublishFailureKeepsBooking(t *testing.T) {
	events := &MockEventRepository{}
	users := &MockUserRepository{}
	producer := &MockProducer{}
	ctx := context.Background()

	events.On("GetByID", ctx, "event-1").Return(newEvent(), nil)
	users.On("GetByID", ctx, "alice").Return(newUser("alice"), nil)
	events.On("Reserve", ctx, mock.Anything).Return(8, nil)
	users.On("AppendBooking", ctx, "alice", mock.Anything).Return(nil)
	producer.On("Publish", ctx, "bookings", "event-1", mock.Anything).Return(errors.New("broker down")).Once()

	result, err := NewBookingService(events, users, WithProducer(producer, "bookings")).
		Book(ctx, domain.BookingRequest{EventID: "event-1", UserID: "alice", Quantity: "2"})

	require.NoError(t, err)
	assert.Equal(t, 8, result.RemainingTickets)
	producer.AssertExpectations(t)
}

func TestPresent(t *testing.T) {
	res := &domain.BookingResult{QuantityBooked: 3, TotalPriceCents: 7500, Currency: "BHD", RemainingTickets: 7}

	resp, err := Present("event-1", res, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, resp.Status)
	assert.Equal(t, "You successfully booked 3 ticket(s) for 75.00 BHD", resp.Message)

	resp, err = Present("event-1", nil, &domain.InsufficientInventoryError{Remaining: 5})
	require.NoError(t, err)
	assert.Equal(t, OutcomeInsufficientInventory, resp.Outcome)
	assert.Equal(t, "Cannot Complete Booking Process. Not enough tickets available. Only 5 left.", resp.Message)

	resp, err = Present("event-1", nil, domain.ErrInvalidQuantity)
	require.NoError(t, err)
	assert.Equal(t, "Please enter a valid number of tickets.", resp.Message)

	resp, err = Present("event-1", nil, domain.ErrForbidden)
	require.NoError(t, err)
	assert.Equal(t, "/events/event-1", resp.Redirect)
	assert.Empty(t, resp.Message)

	resp, err = Present("event-1", nil, domain.ErrUnauthenticated)
	require.NoError(t, err)
	assert.Equal(t, "/auth/sign-in", resp.Redirect)

	resp, err = Present("event-1", nil, domain.ErrEventNotFound)
	require.NoError(t, err)
	assert.Equal(t, "/events", resp.Redirect)

	_, err = Present("event-1", nil, domain.Persistence("reserve tickets", errors.New("boom")))
	assert.ErrorIs(t, err, domain.ErrPersistence)
}
