package models

import "time"

type SessionType string

const (
	SessionTypeOneOnOne SessionType = "One:One"
	SessionTypeRecorded SessionType = "Recorded"
)

// Session is one day of the course catalog. DayNumber and Title are
// both unique across the catalog; DayNumber is the ordering key.
type Session struct {
	ID            string      `json:"id"`
	DayNumber     int         `json:"dayNumber"`
	Title         string      `json:"title"`
	Type          SessionType `json:"type"`
	ContextPoints []string    `json:"contextPoints"`
	MediaURL      string      `json:"mediaUrl,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}
