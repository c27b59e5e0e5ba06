package domain

import (
	"fmt"
	"time"
)

type EventType string

const (
	EventTypeVenue      EventType = "Venue"
	EventTypeBallet     EventType = "Ballet"
	EventTypeRunway     EventType = "Runway"
	EventTypeArtGallery EventType = "Art Gallery"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypeVenue, EventTypeBallet, EventTypeRunway, EventTypeArtGallery:
		return true
	}
	return false
}

// Event owns the remaining-ticket counter and the attendee ledger.
// TicketQuantity only ever decreases, and only through a booking.
type Event struct {
	ID                    string
	OwnerID               string
	Title                 string
	Type                  EventType
	DatePosted            time.Time
	EventDate             time.Time
	StartTime             string
	EndTime               string
	Location              string
	PriceCents            int64
	Description           string
	Performers            []string
	BookingPhoneNumber    string
	BackgroundImage       string
	TicketImage           string
	TicketQuantity        int
	InitialTicketQuantity int
	Attendees             []Attendee
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Attendee is one entry of the event ledger. There is at most one entry per user.
type Attendee struct {
	UserID         string
	Quantity       int
	TotalPaidCents int64
}

// AttendeeView is an attendee with the user's display identity resolved.
type AttendeeView struct {
	Attendee
	Username string
}

// EventDetails is the read-side view of an event shown after a booking.
type EventDetails struct {
	Event
	OwnerUsername string
	Attendees     []AttendeeView
}

func (e *Event) IsOwnedBy(userID string) bool {
	return userID != "" && e.OwnerID == userID
}

// AddAttendee merges the booking into the user's existing ledger entry,
// or appends a new one.
func (e *Event) AddAttendee(userID string, quantity int, totalPaidCents int64) {
	for i := range e.Attendees {
		if e.Attendees[i].UserID == userID {
			e.Attendees[i].Quantity += quantity
			e.Attendees[i].TotalPaidCents += totalPaidCents
			return
		}
	}
	e.Attendees = append(e.Attendees, Attendee{
		UserID:         userID,
		Quantity:       quantity,
		TotalPaidCents: totalPaidCents,
	})
}

func (e *Event) FindAttendee(userID string) (Attendee, bool) {
	for _, a := range e.Attendees {
		if a.UserID == userID {
			return a, true
		}
	}
	return Attendee{}, false
}

func (e *Event) SoldTickets() int {
	sold := 0
	for _, a := range e.Attendees {
		sold += a.Quantity
	}
	return sold
}

// CheckConservation verifies that no tickets were created or lost outside booking.
func (e *Event) CheckConservation() error {
	if e.TicketQuantity < 0 {
		return fmt.Errorf("event %s: negative ticket quantity %d", e.ID, e.TicketQuantity)
	}
	if sold := e.SoldTickets(); sold+e.TicketQuantity != e.InitialTicketQuantity {
		return fmt.Errorf("event %s: sold %d + remaining %d != initial %d", e.ID, sold, e.TicketQuantity, e.InitialTicketQuantity)
	}
	return nil
}

// Clone returns a copy that shares no slices with e.
func (e Event) Clone() Event {
	e.Performers = append([]string(nil), e.Performers...)
	e.Attendees = append([]Attendee(nil), e.Attendees...)
	return e
}
