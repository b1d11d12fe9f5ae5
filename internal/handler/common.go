package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	apperrors "go-gin-event-gallery/pkg/app_errors"
	"go-gin-event-gallery/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Response{Success: true, Data: data, Message: message})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Data: nil, Message: message})
}

// BindJSONObject decodes the body into a generic object, keeping numbers as json.Number.
func BindJSONObject(c *gin.Context) (map[string]any, error) {
	var raw map[string]any
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		fail(c, http.StatusBadRequest, "Invalid JSON body")
		return nil, err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// parseEventID reads the :id parameter. A value that is not an integer cannot name an event,
// so it is answered with 404.
func parseEventID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Event not found")
		return 0, false
	}
	return id, true
}

// handleError maps service errors onto status codes. Internal error text is logged, never returned.
func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	var ve *apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		log.Warn("Validation failed", zap.Strings("fields", ve.Fields))
		fail(c, http.StatusBadRequest, ve.Message)
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		fail(c, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		fail(c, http.StatusNotFound, "Event not found")
	default:
		log.Error("Unexpected error")
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}
