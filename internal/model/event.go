package model

import (
	"time"
)

// Event is one row of the events table. TypeID is stored as type_id and leaves the API as event_type_id.
type Event struct {
	ID          int        `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	TypeID      int        `json:"type_id" db:"type_id"`
	StartDate   string     `json:"start_date" db:"start_date"`
	Location    string     `json:"location" db:"location"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at" db:"updated_at"`
}

type EventWithImages struct {
	Event
	Images []*Image `json:"images"`
}

// EventFilter narrows List. Zero values disable a filter.
type EventFilter struct {
	Keyword string
	TypeID  *int
}

// EventInput carries the attributes of a create or update request after normalization.
// A nil field was absent or empty in the request.
type EventInput struct {
	Title       *string
	Description *string
	TypeID      *int
	StartDate   *string
	Location    *string
}

func (in EventInput) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.TypeID == nil && in.StartDate == nil && in.Location == nil
}

type UpdateEventParams struct {
	Title       *string
	Description *string
	TypeID      *int
	StartDate   *string
	Location    *string
}

func (p UpdateEventParams) IsEmpty() bool {
	return EventInput(p).IsEmpty()
}
