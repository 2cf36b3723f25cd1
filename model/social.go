package model

import "time"

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestDeclined FriendRequestStatus = "declined"
)

type FriendRequest struct {
	ID        int64               `json:"id"`
	FromUser  int64               `json:"from_user"`
	ToUser    int64               `json:"to_user"`
	Status    FriendRequestStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

// Ping invites a friend to meet up, optionally at a venue.
type Ping struct {
	ID        int64     `json:"id"`
	FromUser  int64     `json:"from_user"`
	ToUser    int64     `json:"to_user"`
	VenueID   int64     `json:"venue,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Notification struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
