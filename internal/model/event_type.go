package model

type EventType struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// DefaultEventTypes are seeded into an empty event_types table.
var DefaultEventTypes = []EventType{
	{ID: 1, Name: "Hội thảo", Description: "Sự kiện thảo luận chuyên đề"},
	{ID: 2, Name: "Workshop", Description: "Buổi học thực hành"},
	{ID: 3, Name: "Seminar", Description: "Buổi thuyết trình chuyên môn"},
	{ID: 4, Name: "Conference", Description: "Hội nghị lớn"},
}
