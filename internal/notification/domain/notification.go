package domain

import "time"

// Notification is one inbox record. The collection is append-only: nothing
// in the broadcast flow mutates a record after creation. The read flag is
// persisted as false and only ever changed by the client's local view state.
type Notification struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"index;not null"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	SenderName   string    `json:"sender_name"`
	MessageTitle string    `json:"message_title,omitempty"`
	Read         bool      `json:"read"`
	CreatedAt    time.Time `json:"created_at"`
}

// UnreadCounter tracks how many notifications a user has not viewed yet.
// One row per user, created lazily on first registration or increment.
type UnreadCounter struct {
	UserID      string    `json:"user_id" gorm:"primaryKey"`
	UnreadCount int       `json:"unread_count"`
	LastUpdated time.Time `json:"last_updated"`
}
