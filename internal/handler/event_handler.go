package handler

import (
	"fmt"
	"net/http"
	"strings"

	"go-gin-event-gallery/internal/model"
	"go-gin-event-gallery/internal/normalize"
	"go-gin-event-gallery/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	query  service.QueryService
	events service.EventService
}

func NewEventHandler(query service.QueryService, events service.EventService) *EventHandler {
	return &EventHandler{query: query, events: events}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/events", h.List)
	r.GET("/events/:id", h.Get)
	r.POST("/events", h.Create)
	r.PUT("/events/:id", h.Update)
	r.DELETE("/events/:id", h.Delete)
}

// ListFilters echoes the filters that were applied to a listing.
type ListFilters struct {
	Keyword     *string `json:"keyword"`
	EventTypeID *int    `json:"event_type_id"`
}

type ListEventsResponse struct {
	Events  []map[string]any `json:"events"`
	Total   int              `json:"total"`
	Filters ListFilters      `json:"filters"`
}

type UpdateEventResponse struct {
	Event         map[string]any `json:"event"`
	UpdatedFields []string       `json:"updated_fields"`
}

type DeleteEventResponse struct {
	DeletedEventID int `json:"deleted_event_id"`
}

// List accepts q and the event type id under any of its query spellings. A type id that is not an
// integer is ignored.
func (h *EventHandler) List(c *gin.Context) {
	var filter model.EventFilter
	var filters ListFilters

	if q := strings.ToLower(c.Query("q")); q != "" {
		filter.Keyword = q
		filters.Keyword = &q
	}
	if v, ok := normalize.Query(c.GetQuery)[normalize.EventTypeID]; ok {
		if id, ok, err := normalize.ParseTypeID(v); err == nil && ok && id != 0 {
			filter.TypeID = &id
			filters.EventTypeID = &id
		}
	}

	events, err := h.query.ListEventsWithImages(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err, "ListEvents")
		return
	}

	respond(c, http.StatusOK, ListEventsResponse{
		Events:  normalize.EventRecords(events),
		Total:   len(events),
		Filters: filters,
	}, fmt.Sprintf("Found %d events", len(events)))
}

func (h *EventHandler) Get(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	event, err := h.query.GetEventWithImages(c.Request.Context(), id)
	if err != nil {
		handleError(c, err, "GetEvent")
		return
	}

	respond(c, http.StatusOK, normalize.EventRecord(event), "Event retrieved")
}

func (h *EventHandler) Create(c *gin.Context) {
	raw, err := BindJSONObject(c)
	if err != nil {
		return
	}

	in, _, err := normalize.EventInput(raw)
	if err != nil {
		handleError(c, err, "CreateEvent")
		return
	}

	created, err := h.events.Create(c.Request.Context(), in)
	if err != nil {
		handleError(c, err, "CreateEvent")
		return
	}

	respond(c, http.StatusCreated, normalize.EventRecord(created), "Event created")
}

func (h *EventHandler) Update(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	raw, err := BindJSONObject(c)
	if err != nil {
		return
	}

	in, applied, err := normalize.EventInput(raw)
	if err != nil {
		handleError(c, err, "UpdateEvent")
		return
	}

	updated, err := h.events.Update(c.Request.Context(), id, in)
	if err != nil {
		handleError(c, err, "UpdateEvent")
		return
	}

	if applied == nil {
		applied = []string{}
	}
	message := "Event updated"
	if len(applied) > 0 {
		message += ": " + strings.Join(applied, ", ")
	}
	respond(c, http.StatusOK, UpdateEventResponse{
		Event:         normalize.EventRecord(updated),
		UpdatedFields: applied,
	}, message)
}

func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	if err := h.events.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err, "DeleteEvent")
		return
	}

	respond(c, http.StatusOK, DeleteEventResponse{DeletedEventID: id}, "Event deleted")
}
