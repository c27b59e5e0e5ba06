package api

import (
	"log"
	"net/http"
	"time"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/service/booking"
	"github.com/Domenick1991/eventbooking/internal/service/events"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
	details events.EventUseCase
}

type bookingResponse struct {
	Status           string                `json:"status"`
	Message          string                `json:"message"`
	BookingID        string                `json:"booking_id"`
	RemainingTickets int                   `json:"remaining_tickets"`
	TotalPrice       string                `json:"total_price"`
	Currency         string                `json:"currency"`
	QuantityBooked   int                   `json:"quantity_booked"`
	BookedAt         string                `json:"booked_at"`
	Event            *eventDetailsResponse `json:"event,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase, details events.EventUseCase) *BookingHandler {
	return &BookingHandler{service: service, details: details}
}

// Register mounts booking routes under the events group.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/:id/bookings", h.create)
}

func (h *BookingHandler) create(c *gin.Context) {
	eventID := c.Param("id")
	ctx := c.Request.Context()

	result, err := h.service.Book(ctx, domain.BookingRequest{
		EventID:  eventID,
		UserID:   userIDFrom(c),
		Quantity: c.PostForm("quantity"),
	})
	resp, err := booking.Present(eventID, result, err)
	if err != nil {
		log.Printf("book tickets event=%s: %v", eventID, err)
		c.JSON(http.StatusInternalServerError, messageResponse{Status: string(booking.StatusError), Message: domain.GenericFailureMessage})
		return
	}
	if resp.Redirect != "" {
		c.Redirect(http.StatusSeeOther, resp.Redirect)
		return
	}
	if resp.Status == booking.StatusError {
		c.JSON(http.StatusUnprocessableEntity, messageResponse{Status: string(resp.Status), Message: resp.Message})
		return
	}

	out := bookingResponse{
		Status:           string(resp.Status),
		Message:          resp.Message,
		BookingID:        resp.Result.BookingID,
		RemainingTickets: resp.Result.RemainingTickets,
		TotalPrice:       domain.FormatAmount(resp.Result.TotalPriceCents),
		Currency:         resp.Result.Currency,
		QuantityBooked:   resp.Result.QuantityBooked,
		BookedAt:         resp.Result.BookedAt.Format(time.RFC3339),
	}
	if h.details != nil {
		details, err := h.details.GetDetails(ctx, eventID)
		if err != nil {
			log.Printf("load event details after booking event=%s: %v", eventID, err)
		} else {
			view := toEventDetailsResponse(details)
			out.Event = &view
		}
	}
	c.JSON(http.StatusOK, out)
}
