package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/service/events"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service events.EventUseCase
}

func NewUserHandler(service events.EventUseCase) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Register(router *gin.RouterGroup) {
	router.GET("/:id", h.profile)
}

func (h *UserHandler) profile(c *gin.Context) {
	profile, err := h.service.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		internalError(c, "load profile", err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}
