package domain

import "time"

// DeviceToken is a push registration. The token itself is the key within a user.
type DeviceToken struct {
	UserID    string    `gorm:"column:user_id;type:text;primaryKey" json:"userId"`
	Token     string    `gorm:"column:token;type:text;primaryKey" json:"token"`
	Platform  string    `gorm:"column:platform;type:text" json:"platform,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
}

func (DeviceToken) TableName() string { return "user_device_tokens" }
