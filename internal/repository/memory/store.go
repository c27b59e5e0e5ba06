// Package memory keeps events and users in process. It honours the same
// contract as the Postgres repositories, including the conditional
// inventory decrement, and is used for local runs without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/repository"
)

type Store struct {
	mu     sync.RWMutex
	events map[string]*domain.Event
	users  map[string]*domain.User
	order  []string
}

func NewStore() *Store {
	return &Store{
		events: make(map[string]*domain.Event),
		users:  make(map[string]*domain.User),
	}
}

// Events and Users expose the store through the repository interfaces.
func (s *Store) Events() repository.EventRepository { return eventRepo{s} }
func (s *Store) Users() repository.UserRepository   { return userRepo{s} }

type eventRepo struct{ s *Store }

func (r eventRepo) Create(_ context.Context, e *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[e.OwnerID]; !ok {
		return domain.ErrUserNotFound
	}
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	stored := e.Clone()
	r.s.events[e.ID] = &stored
	r.s.order = append(r.s.order, e.ID)
	return nil
}

func (r eventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	c := e.Clone()
	return &c, nil
}

func (r eventRepo) GetDetails(_ context.Context, id string) (*domain.EventDetails, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	details := &domain.EventDetails{Event: e.Clone()}
	if owner, ok := r.s.users[e.OwnerID]; ok {
		details.OwnerUsername = owner.Username
	}
	for _, a := range e.Attendees {
		v := domain.AttendeeView{Attendee: a}
		if u, ok := r.s.users[a.UserID]; ok {
			v.Username = u.Username
		}
		details.Attendees = append(details.Attendees, v)
	}
	return details, nil
}

func (r eventRepo) List(_ context.Context) ([]domain.Event, error) {
	return r.filter(func(*domain.Event) bool { return true }), nil
}

func (r eventRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Event, error) {
	return r.filter(func(e *domain.Event) bool { return e.OwnerID == ownerID }), nil
}

func (r eventRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Event, error) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	return r.filter(func(e *domain.Event) bool {
		_, ok := want[e.ID]
		return ok
	}), nil
}

func (r eventRepo) filter(keep func(*domain.Event) bool) []domain.Event {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Event, 0)
	for _, id := range r.s.order {
		if e := r.s.events[id]; keep(e) {
			out = append(out, e.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EventDate.Before(out[j].EventDate) })
	return out
}

// Reserve checks and decrements under the write lock, so the check cannot
// be invalidated by a concurrent reservation.
func (r eventRepo) Reserve(_ context.Context, in domain.ReserveInput) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.events[in.EventID]
	if !ok {
		return 0, domain.ErrEventNotFound
	}
	if _, ok := r.s.users[in.UserID]; !ok {
		return 0, domain.ErrUserNotFound
	}
	if e.TicketQuantity < in.Quantity {
		return 0, &domain.InsufficientInventoryError{Remaining: e.TicketQuantity}
	}
	e.TicketQuantity -= in.Quantity
	e.AddAttendee(in.UserID, in.Quantity, in.TotalPaidCents)
	e.UpdatedAt = time.Now().UTC()
	return e.TicketQuantity, nil
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	u.CreatedAt = time.Now().UTC()
	stored := u.Clone()
	r.s.users[u.ID] = &stored
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := u.Clone()
	return &c, nil
}

func (r userRepo) AppendBooking(_ context.Context, userID string, b domain.UserBooking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Bookings = append(u.Bookings, b)
	return nil
}

func (r userRepo) ToggleFavourite(_ context.Context, userID, eventID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return false, domain.ErrUserNotFound
	}
	if _, ok := r.s.events[eventID]; !ok {
		return false, domain.ErrEventNotFound
	}
	return u.ToggleFavourite(eventID), nil
}

var (
	_ repository.EventRepository = eventRepo{}
	_ repository.UserRepository  = userRepo{}
)
