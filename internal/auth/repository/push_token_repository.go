package repository

import (
	"time"

	authdomain "notibox-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PushTokenRepository defines the interface for push token operations
type PushTokenRepository interface {
	SaveToken(userID, token, platform, deviceName, deviceType string) error
	GetAll() ([]authdomain.PushToken, error)
	GetByUserID(userID string) (*authdomain.PushToken, error)
	DeleteByUserID(userID string) error
}

// pushTokenRepository implements PushTokenRepository interface
type pushTokenRepository struct {
	db *gorm.DB
}

// NewPushTokenRepository creates a new instance of pushTokenRepository
func NewPushTokenRepository(db *gorm.DB) PushTokenRepository {
	return &pushTokenRepository{
		db: db,
	}
}

// SaveToken saves or updates the push token for a user. One record per user:
// INSERT ... ON CONFLICT (user_id) DO UPDATE keeps the registry merged.
func (r *pushTokenRepository) SaveToken(userID, token, platform, deviceName, deviceType string) error {
	pushToken := &authdomain.PushToken{
		ID:         uuid.New().String(),
		UserID:     userID,
		Token:      token,
		Platform:   platform,
		DeviceName: deviceName,
		DeviceType: deviceType,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "platform", "device_name", "device_type", "updated_at"}),
	}).Create(pushToken).Error
}

// GetAll returns every registered push token.
func (r *pushTokenRepository) GetAll() ([]authdomain.PushToken, error) {
	var tokens []authdomain.PushToken
	err := r.db.Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// GetByUserID returns the push token of a user, or nil if none registered.
func (r *pushTokenRepository) GetByUserID(userID string) (*authdomain.PushToken, error) {
	var token authdomain.PushToken
	err := r.db.Where("user_id = ?", userID).First(&token).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

// DeleteByUserID removes the push token of a user.
func (r *pushTokenRepository) DeleteByUserID(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&authdomain.PushToken{}).Error
}
