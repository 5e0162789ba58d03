package domain

import "time"

// PushToken holds the push destination of a user's current device. Each user
// keeps exactly one record; re-registering overwrites it in place.
type PushToken struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"uniqueIndex;not null"`
	Token      string    `json:"-" gorm:"not null"` // Don't expose token in JSON
	Platform   string    `json:"platform"`          // "ios", "android" or "web"
	DeviceName string    `json:"device_name"`
	DeviceType string    `json:"device_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
