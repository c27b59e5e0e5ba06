package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/service/booking"
	"github.com/Domenick1991/eventbooking/internal/service/events"
	"github.com/Domenick1991/eventbooking/internal/service/favourites"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service    events.EventUseCase
	favourites favourites.FavouriteUseCase
}

func NewEventHandler(service events.EventUseCase, favourites favourites.FavouriteUseCase) *EventHandler {
	return &EventHandler{service: service, favourites: favourites}
}

func (h *EventHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/new", h.form)
	router.POST("", h.create)
	router.GET("/:id", h.get)
	router.POST("/:id/favourite", h.toggleFavourite)
}

func (h *EventHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		internalError(c, "list events", err)
		return
	}
	c.JSON(http.StatusOK, toEventResponses(list))
}

func (h *EventHandler) form(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"times": h.service.TimeOptions(),
		"types": []domain.EventType{domain.EventTypeVenue, domain.EventTypeBallet, domain.EventTypeRunway, domain.EventTypeArtGallery},
	})
}

func (h *EventHandler) create(c *gin.Context) {
	userID := userIDFrom(c)
	if userID == "" {
		c.Redirect(http.StatusSeeOther, booking.SignInPath)
		return
	}

	var req events.CreateEventInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidEvent):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status":  string(booking.StatusError),
				"message": err.Error(),
				"times":   h.service.TimeOptions(),
			})
		case errors.Is(err, domain.ErrUnauthenticated):
			c.Redirect(http.StatusSeeOther, booking.SignInPath)
		default:
			internalError(c, "create event", err)
		}
		return
	}
	c.JSON(http.StatusCreated, toEventResponse(*event))
}

func (h *EventHandler) get(c *gin.Context) {
	details, err := h.service.GetDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		internalError(c, "get event", err)
		return
	}
	c.JSON(http.StatusOK, toEventDetailsResponse(details))
}

func (h *EventHandler) toggleFavourite(c *gin.Context) {
	favourited, err := h.favourites.Toggle(c.Request.Context(), userIDFrom(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthenticated):
			c.Redirect(http.StatusSeeOther, booking.SignInPath)
		case errors.Is(err, domain.ErrEventNotFound):
			c.Redirect(http.StatusSeeOther, booking.EventsPath)
		default:
			internalError(c, "toggle favourite", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"event_id": c.Param("id"), "favourited": favourited})
}

func internalError(c *gin.Context, op string, err error) {
	log.Printf("%s path=%s: %v", op, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, messageResponse{Status: string(booking.StatusError), Message: domain.GenericFailureMessage})
}
