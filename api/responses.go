package api

import (
	"time"

	"github.com/Domenick1991/eventbooking/internal/domain"
)

type messageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type eventResponse struct {
	ID                    string   `json:"id"`
	OwnerID               string   `json:"owner_id"`
	Title                 string   `json:"title"`
	Type                  string   `json:"type,omitempty"`
	DatePosted            string   `json:"date_posted"`
	EventDate             string   `json:"event_date"`
	StartTime             string   `json:"start_time"`
	EndTime               string   `json:"end_time"`
	Location              string   `json:"location"`
	Price                 string   `json:"price"`
	PriceCents            int64    `json:"price_cents"`
	Description           string   `json:"description"`
	Performers            []string `json:"performers"`
	BookingPhoneNumber    string   `json:"booking_phone_number"`
	BackgroundImage       string   `json:"background_image,omitempty"`
	TicketImage           string   `json:"ticket_image,omitempty"`
	TicketQuantity        int      `json:"ticket_quantity"`
	InitialTicketQuantity int      `json:"initial_ticket_quantity"`
}

type attendeeResponse struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Quantity  int    `json:"quantity"`
	TotalPaid string `json:"total_paid"`
}

type eventDetailsResponse struct {
	eventResponse
	OwnerUsername string             `json:"owner_username"`
	SoldTickets   int                `json:"sold_tickets"`
	Attendees     []attendeeResponse `json:"attendees"`
}

type userResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type profileBookingResponse struct {
	ID         string `json:"id"`
	EventID    string `json:"event_id"`
	EventTitle string `json:"event_title"`
	Quantity   int    `json:"quantity"`
	TotalPaid  string `json:"total_paid"`
	BookedAt   string `json:"booked_at"`
}

type profileResponse struct {
	User            userResponse             `json:"user"`
	PostedEvents    []eventResponse          `json:"posted_events"`
	FavouriteEvents []eventResponse          `json:"favourite_events"`
	Bookings        []profileBookingResponse `json:"bookings"`
}

func toEventResponse(e domain.Event) eventResponse {
	performers := e.Performers
	if performers == nil {
		performers = []string{}
	}
	return eventResponse{
		ID:                    e.ID,
		OwnerID:               e.OwnerID,
		Title:                 e.Title,
		Type:                  string(e.Type),
		DatePosted:            e.DatePosted.Format(time.RFC3339),
		EventDate:             e.EventDate.Format("2006-01-02"),
		StartTime:             e.StartTime,
		EndTime:               e.EndTime,
		Location:              e.Location,
		Price:                 domain.FormatAmount(e.PriceCents),
		PriceCents:            e.PriceCents,
		Description:           e.Description,
		Performers:            performers,
		BookingPhoneNumber:    e.BookingPhoneNumber,
		BackgroundImage:       e.BackgroundImage,
		TicketImage:           e.TicketImage,
		TicketQuantity:        e.TicketQuantity,
		InitialTicketQuantity: e.InitialTicketQuantity,
	}
}

func toEventResponses(list []domain.Event) []eventResponse {
	out := make([]eventResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toEventResponse(e))
	}
	return out
}

func toEventDetailsResponse(d *domain.EventDetails) eventDetailsResponse {
	attendees := make([]attendeeResponse, 0, len(d.Attendees))
	sold := 0
	for _, a := range d.Attendees {
		sold += a.Quantity
		attendees = append(attendees, attendeeResponse{
			UserID:    a.UserID,
			Username:  a.Username,
			Quantity:  a.Quantity,
			TotalPaid: domain.FormatAmount(a.TotalPaidCents),
		})
	}
	return eventDetailsResponse{
		eventResponse: toEventResponse(d.Event),
		OwnerUsername: d.OwnerUsername,
		SoldTickets:   sold,
		Attendees:     attendees,
	}
}

func toProfileResponse(p *domain.Profile) profileResponse {
	bookings := make([]profileBookingResponse, 0, len(p.Bookings))
	for _, b := range p.Bookings {
		bookings = append(bookings, profileBookingResponse{
			ID:         b.ID,
			EventID:    b.EventID,
			EventTitle: b.EventTitle,
			Quantity:   b.Quantity,
			TotalPaid:  domain.FormatAmount(b.TotalPaidCents),
			BookedAt:   b.BookedAt.Format(time.RFC3339),
		})
	}
	return profileResponse{
		User: userResponse{
			ID:          p.User.ID,
			Username:    p.User.Username,
			Email:       p.User.Email,
			PhoneNumber: p.User.PhoneNumber,
		},
		PostedEvents:    toEventResponses(p.PostedEvents),
		FavouriteEvents: toEventResponses(p.FavouriteEvents),
		Bookings:        bookings,
	}
}
