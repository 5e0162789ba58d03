package repository

import (
	"errors"
	"time"

	"notibox-backend/internal/notification/domain"

	"gorm.io/gorm"
)

// CounterRepository defines the interface for unread counter operations
type CounterRepository interface {
	// Get returns the user's counter, or nil if it was never created.
	Get(userID string) (*domain.UnreadCounter, error)

	// Ensure creates the counter at zero if it does not exist yet.
	Ensure(userID string) error

	// Increment adds n to the counter, creating it at n if absent.
	Increment(userID string, n int) error

	// Reset sets the counter to zero regardless of its prior value.
	Reset(userID string) error
}

// counterRepository implements CounterRepository interface
type counterRepository struct {
	db *gorm.DB
}

// NewCounterRepository creates a new instance of counterRepository
func NewCounterRepository(db *gorm.DB) CounterRepository {
	return &counterRepository{
		db: db,
	}
}

func (r *counterRepository) Get(userID string) (*domain.UnreadCounter, error) {
	var counter domain.UnreadCounter
	err := r.db.Where("user_id = ?", userID).First(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &counter, nil
}

func (r *counterRepository) Ensure(userID string) error {
	counter, err := r.Get(userID)
	if err != nil {
		return err
	}
	if counter != nil {
		return nil
	}
	return r.db.Create(&domain.UnreadCounter{
		UserID:      userID,
		UnreadCount: 0,
		LastUpdated: time.Now(),
	}).Error
}

// Increment is a plain read-modify-write: two concurrent increments on the
// same counter may lose an update (last write wins). A stale badge count is
// accepted here, so no transaction or optimistic check is used.
func (r *counterRepository) Increment(userID string, n int) error {
	counter, err := r.Get(userID)
	if err != nil {
		return err
	}
	if counter == nil {
		return r.db.Create(&domain.UnreadCounter{
			UserID:      userID,
			UnreadCount: n,
			LastUpdated: time.Now(),
		}).Error
	}
	counter.UnreadCount += n
	counter.LastUpdated = time.Now()
	return r.db.Save(counter).Error
}

func (r *counterRepository) Reset(userID string) error {
	counter, err := r.Get(userID)
	if err != nil {
		return err
	}
	if counter == nil {
		return r.db.Create(&domain.UnreadCounter{
			UserID:      userID,
			UnreadCount: 0,
			LastUpdated: time.Now(),
		}).Error
	}
	counter.UnreadCount = 0
	counter.LastUpdated = time.Now()
	return r.db.Save(counter).Error
}
