package booking

import (
	"context"
	"errors"
	"log"

	"github.com/Domenick1991/eventbooking/internal/clock"
	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/kafka"
	"github.com/Domenick1991/eventbooking/internal/repository"
	"github.com/google/uuid"
)

const defaultCurrency = "BHD"

type BookingUseCase interface {
	Book(ctx context.Context, req domain.BookingRequest) (*domain.BookingResult, error)
}

type Cache interface {
	InvalidateEvents(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// BookingService is the only writer of ticket counters.
type BookingService struct {
	events             repository.EventRepository
	users              repository.UserRepository
	cache              Cache
	producer           Producer
	clock              clock.Clock
	bookingTopic       string
	notificationsTopic string
	currency           string
}

type BookingServiceOption func(*BookingService)

func WithCache(cache Cache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

// WithProducer enables booking events on topic.
func WithProducer(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = topic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithCurrency(currency string) BookingServiceOption {
	return func(s *BookingService) {
		if currency != "" {
			s.currency = currency
		}
	}
}

func WithClock(clk clock.Clock) BookingServiceOption {
	return func(s *BookingService) {
		if clk != nil {
			s.clock = clk
		}
	}
}

func NewBookingService(events repository.EventRepository, users repository.UserRepository, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		events:   events,
		users:    users,
		clock:    clock.NewSystem(),
		currency: defaultCurrency,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Book validates the request against the event, reserves the tickets with a
// conditional decrement, and appends to the user's booking log.
//
// Checks run in a fixed order and the first failure wins: event exists,
// requester authenticated, requester is not the owner, quantity is a positive
// integer, quantity fits the remaining inventory. The inventory check is
// repeated by the conditional write, so a concurrent booking that drains the
// event in between still yields InsufficientInventory.
func (s *BookingService) Book(ctx context.Context, req domain.BookingRequest) (*domain.BookingResult, error) {
	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, domain.Persistence("load event", err)
	}

	if req.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, domain.Persistence("load user", err)
	}

	if event.IsOwnedBy(user.ID) {
		return nil, domain.ErrForbidden
	}

	quantity, err := domain.ParseQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}
	if quantity > event.TicketQuantity {
		return nil, &domain.InsufficientInventoryError{Remaining: event.TicketQuantity}
	}

	total := event.PriceCents * int64(quantity)
	remaining, err := s.events.Reserve(ctx, domain.ReserveInput{
		EventID:        event.ID,
		UserID:         user.ID,
		Quantity:       quantity,
		TotalPaidCents: total,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientInventory), errors.Is(err, domain.ErrEventNotFound):
			return nil, err
		case errors.Is(err, domain.ErrUserNotFound):
			return nil, domain.ErrUnauthenticated
		}
		return nil, domain.Persistence("reserve tickets", err)
	}

	entry := domain.UserBooking{
		ID:             uuid.NewString(),
		EventID:        event.ID,
		Quantity:       quantity,
		TotalPaidCents: total,
		BookedAt:       s.clock.Now(),
	}
	if err := s.users.AppendBooking(ctx, user.ID, entry); err != nil {
		// The inventory is already decremented; the user's log now lags the attendee ledger.
		log.Printf("booking log out of sync event=%s user=%s quantity=%d: %v", event.ID, user.ID, quantity, err)
		return nil, domain.Persistence("append booking", err)
	}

	log.Printf("booking created event=%s user=%s quantity=%d remaining=%d", event.ID, user.ID, quantity, remaining)

	s.invalidateListing(ctx)
	if err := s.publish(ctx, event, user, entry, remaining); err != nil {
		log.Printf("WARNING: failed to publish booking event booking=%s: %v", entry.ID, err)
	}

	return &domain.BookingResult{
		BookingID:        entry.ID,
		EventID:          event.ID,
		RemainingTickets: remaining,
		TotalPriceCents:  total,
		QuantityBooked:   quantity,
		Currency:         s.currency,
		BookedAt:         entry.BookedAt,
	}, nil
}

func (s *BookingService) invalidateListing(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateEvents(ctx); err != nil {
		log.Printf("invalidate events cache: %v", err)
	}
}

func (s *BookingService) publish(ctx context.Context, event *domain.Event, user *domain.User, entry domain.UserBooking, remaining int) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	msg := kafka.BookingEvent{
		Type:             kafka.EventTypeBookingCreated,
		BookingID:        entry.ID,
		EventID:          event.ID,
		EventTitle:       event.Title,
		UserID:           user.ID,
		Username:         user.Username,
		Email:            user.Email,
		Quantity:         entry.Quantity,
		TotalPaidCents:   entry.TotalPaidCents,
		Currency:         s.currency,
		RemainingTickets: remaining,
		BookedAt:         entry.BookedAt,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, event.ID, msg); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, entry.ID, msg)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
