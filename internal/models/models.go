// internal/models/models.go
package models

import "time"

// Chat is a two-party conversation document. Read-only to the pipeline.
type Chat struct {
	ID    string   `json:"id"`
	Users []string `json:"users"`
}

// OtherUser returns the participant that is not userID, or "" when the chat
// has no such participant.
func (c *Chat) OtherUser(userID string) string {
	for _, u := range c.Users {
		if u != userID {
			return u
		}
	}
	return ""
}

// UserProfile is the slice of the user document the pipeline reads.
// An empty PushToken is a normal state, not an error.
type UserProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PushToken string `json:"pushToken,omitempty"`
}

// NotificationContent is the channel-agnostic output of the composer.
// Immutable once built; shared by the in-app write and the push payload.
type NotificationContent struct {
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Type     string            `json:"type"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Notification is one row in a recipient's in-app inbox. Append-only from
// the pipeline's point of view; isRead is flipped by the client later.
type Notification struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Type      string            `json:"type"`
	IsRead    bool              `json:"isRead"`
	CreatedAt time.Time         `json:"createdAt"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Notification types
const (
	TypeMessage = "message"
	TypeLike    = "like"
	TypeMatch   = "match"
)
