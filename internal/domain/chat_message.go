package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChatRoleUser = "user"
	ChatRoleBot  = "bot"
)

type ChatMessage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID string    `gorm:"column:session_id;type:text;not null;index:idx_chat_session_seq,priority:1" json:"sessionId"`
	UserID    string    `gorm:"column:user_id;type:text;not null;index" json:"userId"`
	Seq       int64     `gorm:"column:seq;not null;index:idx_chat_session_seq,priority:2" json:"seq"`
	Role      string    `gorm:"column:role;type:text;not null" json:"role"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
