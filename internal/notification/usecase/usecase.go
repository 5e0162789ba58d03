package usecase

import (
	"context"
	"errors"

	authdomain "notibox-backend/internal/auth/domain"
	"notibox-backend/internal/notification/domain"
)

var (
	ErrNotAdmin     = errors.New("only administrators can send messages")
	ErrEmptyMessage = errors.New("title and body must not be empty")
	ErrNoRecipients = errors.New("no users found to send notifications to")
	ErrAllFailed    = errors.New("failed to send message to any users")
)

// RecipientResult is the per-recipient outcome of one broadcast.
type RecipientResult struct {
	UserID    string
	Delivered bool
}

// BroadcastResult aggregates a finished fan-out.
type BroadcastResult struct {
	Sent       int
	Failed     int
	Recipients []RecipientResult
}

// EventPublisher pushes live updates to a user's open connections.
// *sse.Manager satisfies it.
type EventPublisher interface {
	SendToUser(userID, event string, data interface{})
}

// NotificationUsecase defines the interface for inbox and broadcast logic
type NotificationUsecase interface {
	// Broadcast fans one message out to every registered user except the
	// sender. Delivery is best-effort per recipient: no retries, no
	// ordering, no rollback of partial results.
	Broadcast(ctx context.Context, sender *authdomain.User, title, body string) (*BroadcastResult, error)

	// List returns the caller's inbox, newest first.
	List(userID string) ([]domain.Notification, error)

	// Unread returns the caller's unread counter, creating it at zero if
	// it never existed.
	Unread(userID string) (*domain.UnreadCounter, error)

	// MarkViewed resets the caller's unread counter to zero. Inbox records
	// are left untouched; the read flag lives in client view state only.
	MarkViewed(userID string) error

	// EnsureCounter creates the unread counter at zero if absent. Called
	// when a push token is registered.
	EnsureCounter(userID string)
}
