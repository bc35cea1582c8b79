package models

import "time"

// ChatMessage representa uma mensagem dentro de uma conversa de suporte.
type ChatMessage struct {
	ID             int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ConversationID int64      `gorm:"not null;index" json:"conversation_id"`
	SenderID       int64      `gorm:"not null;index" json:"sender_id"`
	Message        string     `gorm:"type:text;not null" json:"message" form:"message"`
	Read           bool       `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt      *time.Time `json:"created_at"`
}
