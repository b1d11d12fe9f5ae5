package handler

import (
	"net/http"

	"go-gin-event-gallery/internal/service"

	"github.com/gin-gonic/gin"
)

type EventTypeHandler struct {
	service service.EventTypeService
}

func NewEventTypeHandler(service service.EventTypeService) *EventTypeHandler {
	return &EventTypeHandler{service: service}
}

func (h *EventTypeHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/event-types", h.List)
}

func (h *EventTypeHandler) List(c *gin.Context) {
	types, err := h.service.List(c.Request.Context())
	if err != nil {
		handleError(c, err, "ListEventTypes")
		return
	}
	respond(c, http.StatusOK, types, "Event types retrieved")
}
