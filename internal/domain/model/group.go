package model

import "time"

// Status is the lifecycle state shared by connections and invitations.
type Status string

// Known statuses.
const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined:
		return true
	}
	return false
}

// Group is a chat room formed by matched users.
type Group struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CreatorEmail string    `json:"creatorEmail"`
	Members      []string  `json:"members"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasMember reports whether email belongs to the group.
func (g Group) HasMember(email string) bool {
	for _, m := range g.Members {
		if m == email {
			return true
		}
	}
	return false
}

// Message is a chat line posted to a group.
type Message struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"groupId"`
	Email     string    `json:"email"`
	Content   string    `json:"content"`
	ClientID  string    `json:"clientId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Connection is a pairwise link request between two users.
type Connection struct {
	User1Email string    `json:"user1Email"`
	User2Email string    `json:"user2Email"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
