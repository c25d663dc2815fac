package model

import "time"

// Event is a calendar entry synced for a user.
type Event struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"allDay"`
	Link        string    `json:"link,omitempty"`
}

// Invitation asks another user to join an event as a teammate.
type Invitation struct {
	ID           string    `json:"id"`
	EventID      string    `json:"eventId"`
	InviterEmail string    `json:"inviterEmail"`
	InviteeEmail string    `json:"inviteeEmail"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
