package events

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Domenick1991/eventbooking/internal/clock"
	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/repository"
	"github.com/google/uuid"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "3:04 PM"
)

type EventUseCase interface {
	Create(ctx context.Context, ownerID string, in CreateEventInput) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	GetDetails(ctx context.Context, id string) (*domain.EventDetails, error)
	Profile(ctx context.Context, userID string) (*domain.Profile, error)
	TimeOptions() []string
}

type EventCache interface {
	GetEvents(ctx context.Context) ([]domain.Event, error)
	SetEvents(ctx context.Context, events []domain.Event) error
	InvalidateEvents(ctx context.Context) error
}

// CreateEventInput is the event form as submitted. Price is a decimal string.
type CreateEventInput struct {
	Title              string `json:"title"`
	Type               string `json:"type"`
	EventDate          string `json:"event_date"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	Location           string `json:"location"`
	Price              string `json:"price"`
	Description        string `json:"description"`
	Performers         string `json:"performers"`
	BookingPhoneNumber string `json:"booking_phone_number"`
	BackgroundImage    string `json:"background_image"`
	TicketImage        string `json:"ticket_image"`
	TicketQuantity     int    `json:"ticket_quantity"`
}

type EventService struct {
	events repository.EventRepository
	users  repository.UserRepository
	cache  EventCache
	clock  clock.Clock
}

func NewEventService(events repository.EventRepository, users repository.UserRepository, cache EventCache, clk clock.Clock) *EventService {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &EventService{events: events, users: users, cache: cache, clock: clk}
}

func (s *EventService) Create(ctx context.Context, ownerID string, in CreateEventInput) (*domain.Event, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}

	now := s.clock.Now()
	event, err := buildEvent(in, now)
	if err != nil {
		return nil, err
	}
	event.ID = uuid.NewString()
	event.OwnerID = ownerID

	if err := s.events.Create(ctx, event); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, domain.Persistence("create event", err)
	}
	log.Printf("event created id=%s owner=%s tickets=%d", event.ID, ownerID, event.TicketQuantity)

	if s.cache != nil {
		if err := s.cache.InvalidateEvents(ctx); err != nil {
			log.Printf("invalidate events cache: %v", err)
		}
	}
	return event, nil
}

func buildEvent(in CreateEventInput, now time.Time) (*domain.Event, error) {
	required := []struct{ value, field string }{
		{in.Title, "Title"},
		{in.Location, "Location"},
		{in.Description, "Description"},
		{in.BookingPhoneNumber, "Booking phone number"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, invalid("%s is required.", r.field)
		}
	}

	eventType := domain.EventType(strings.TrimSpace(in.Type))
	if eventType != "" && !eventType.Valid() {
		return nil, invalid("Event type must be one of %s, %s, %s or %s.",
			domain.EventTypeVenue, domain.EventTypeBallet, domain.EventTypeRunway, domain.EventTypeArtGallery)
	}

	eventDate, err := time.Parse(DateLayout, strings.TrimSpace(in.EventDate))
	if err != nil {
		return nil, invalid("Event date must be a valid date.")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !eventDate.After(today) {
		return nil, invalid("Event date cannot be the same or an older date.")
	}

	start, err := time.Parse(TimeLayout, strings.TrimSpace(in.StartTime))
	if err != nil {
		return nil, invalid("Start time must look like 7:30 PM.")
	}
	end, err := time.Parse(TimeLayout, strings.TrimSpace(in.EndTime))
	if err != nil {
		return nil, invalid("End time must look like 7:30 PM.")
	}
	if !end.After(start) {
		return nil, invalid("End time must be later than start time.")
	}

	price, err := domain.ParsePrice(in.Price)
	if err != nil || price <= 0 {
		return nil, invalid("Price must be a positive amount.")
	}
	if in.TicketQuantity < 0 {
		return nil, invalid("Ticket quantity cannot be negative.")
	}

	return &domain.Event{
		Title:                 strings.TrimSpace(in.Title),
		Type:                  eventType,
		DatePosted:            now,
		EventDate:             eventDate,
		StartTime:             start.Format(TimeLayout),
		EndTime:               end.Format(TimeLayout),
		Location:              strings.TrimSpace(in.Location),
		PriceCents:            price,
		Description:           strings.TrimSpace(in.Description),
		Performers:            splitPerformers(in.Performers),
		BookingPhoneNumber:    strings.TrimSpace(in.BookingPhoneNumber),
		BackgroundImage:       strings.TrimSpace(in.BackgroundImage),
		TicketImage:           strings.TrimSpace(in.TicketImage),
		TicketQuantity:        in.TicketQuantity,
		InitialTicketQuantity: in.TicketQuantity,
	}, nil
}

func splitPerformers(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func invalid(format string, args ...interface{}) error {
	return &domain.ValidationError{Message: fmt.Sprintf(format, args...)}
}

// List serves the listing from cache when possible. Cache errors fall
// through to the repository.
func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	if s.cache != nil {
		cached, err := s.cache.GetEvents(ctx)
		if err != nil {
			log.Printf("read events cache: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	events, err := s.events.List(ctx)
	if err != nil {
		return nil, domain.Persistence("list events", err)
	}
	if s.cache != nil {
		if err := s.cache.SetEvents(ctx, events); err != nil {
			log.Printf("write events cache: %v", err)
		}
	}
	return events, nil
}

func (s *EventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, domain.Persistence("load event", err)
	}
	return event, nil
}

func (s *EventService) GetDetails(ctx context.Context, id string) (*domain.EventDetails, error) {
	details, err := s.events.GetDetails(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, domain.Persistence("load event details", err)
	}
	return details, nil
}

// Profile gathers what a user page shows: events the user posted, their
// favourites, and their booking log with event titles resolved.
func (s *EventService) Profile(ctx context.Context, userID string) (*domain.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Persistence("load user", err)
	}

	posted, err := s.events.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, domain.Persistence("list posted events", err)
	}

	var favourites []domain.Event
	if len(user.Favourites) > 0 {
		if favourites, err = s.events.ListByIDs(ctx, user.Favourites); err != nil {
			return nil, domain.Persistence("list favourite events", err)
		}
	}

	bookings, err := s.profileBookings(ctx, user.Bookings)
	if err != nil {
		return nil, err
	}

	return &domain.Profile{
		User:            *user,
		PostedEvents:    posted,
		FavouriteEvents: favourites,
		Bookings:        bookings,
	}, nil
}

func (s *EventService) profileBookings(ctx context.Context, entries []domain.UserBooking) ([]domain.ProfileBooking, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(entries))
	ids := make([]string, 0, len(entries))
	for _, b := range entries {
		if _, ok := seen[b.EventID]; !ok {
			seen[b.EventID] = struct{}{}
			ids = append(ids, b.EventID)
		}
	}
	booked, err := s.events.ListByIDs(ctx, ids)
	if err != nil {
		return nil, domain.Persistence("list booked events", err)
	}
	titles := make(map[string]string, len(booked))
	for _, e := range booked {
		titles[e.ID] = e.Title
	}

	out := make([]domain.ProfileBooking, 0, len(entries))
	for _, b := range entries {
		out = append(out, domain.ProfileBooking{UserBooking: b, EventTitle: titles[b.EventID]})
	}
	return out, nil
}

// TimeOptions lists the half-hour slots offered by the event form, from
// 12:00 AM to 11:30 PM.
func (s *EventService) TimeOptions() []string {
	options := make([]string, 0, 48)
	for _, period := range []string{"AM", "PM"} {
		for _, hour := range []int{12, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11} {
			for _, minute := range []string{"00", "30"} {
				options = append(options, fmt.Sprintf("%d:%s %s", hour, minute, period))
			}
		}
	}
	return options
}

var _ EventUseCase = (*EventService)(nil)
