package models

import "time"

// Conversation representa um chat de suporte aberto a partir de um feedback.
type Conversation struct {
	ID         int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	FeedbackID int64      `gorm:"not null;unique_index" json:"feedback_id"`
	UserID     int64      `gorm:"not null;index" json:"user_id"`
	AdminID    int64      `gorm:"not null" json:"admin_id"`
	CreatedAt  *time.Time `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}
