// Package model holds the JSON resources exchanged with the nightlife API.
package model

import "time"

type Venue struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address,omitempty"`
	Category     string  `json:"category,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Rating       float64 `json:"average_rating"`
	CheckinCount int     `json:"checkin_count"`
}

// VibeLevel summarises how busy a venue is right now.
type VibeLevel string

const (
	VibeQuiet  VibeLevel = "quiet"
	VibeLively VibeLevel = "lively"
	VibePacked VibeLevel = "packed"
)

type Vibe struct {
	VenueID   int64     `json:"venue"`
	Level     VibeLevel `json:"level"`
	Checkins  int       `json:"recent_checkins"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CheckIn struct {
	ID        int64     `json:"id"`
	VenueID   int64     `json:"venue"`
	UserID    int64     `json:"user"`
	Comment   string    `json:"comment,omitempty"`
	Vibe      VibeLevel `json:"vibe,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Rating struct {
	ID        int64     `json:"id"`
	VenueID   int64     `json:"venue"`
	UserID    int64     `json:"user"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Page is the paginated list envelope. Next and Previous are absolute URLs or
// empty.
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
	Results  []T    `json:"results"`
}
