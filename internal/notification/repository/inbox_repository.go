package repository

import (
	"time"

	"notibox-backend/internal/notification/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InboxRepository defines the interface for the per-user notification inbox
type InboxRepository interface {
	// Append adds a record to the user's inbox. Records are never updated
	// or deleted by the server afterwards.
	Append(notification *domain.Notification) error

	// ListByUserID returns a user's inbox, newest first.
	ListByUserID(userID string) ([]domain.Notification, error)
}

// inboxRepository implements InboxRepository interface
type inboxRepository struct {
	db *gorm.DB
}

// NewInboxRepository creates a new instance of inboxRepository
func NewInboxRepository(db *gorm.DB) InboxRepository {
	return &inboxRepository{
		db: db,
	}
}

func (r *inboxRepository) Append(notification *domain.Notification) error {
	notification.ID = uuid.New().String()
	notification.CreatedAt = time.Now()
	return r.db.Create(notification).Error
}

func (r *inboxRepository) ListByUserID(userID string) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}
