package models

import "time"

/************************************************
/**** MARK: FEEDBACK STATUS ****/
/************************************************/
const FEEDBACK_STATUS_NEW = "new"
const FEEDBACK_STATUS_READ = "read"
const FEEDBACK_STATUS_ANSWERED = "answered"
const FEEDBACK_STATUS_RESOLVED = "resolved"

// Feedback representa uma mensagem enviada pelo formulário de contato.
type Feedback struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name      string     `gorm:"not null" json:"name" form:"name"`
	Email     string     `gorm:"not null" json:"email" form:"email"`
	Phone     string     `gorm:"default:''" json:"phone" form:"phone"`
	Subject   string     `gorm:"not null;default:'outros'" json:"subject" form:"subject"`
	Message   string     `gorm:"type:text;not null" json:"message" form:"message"`
	Status    string     `gorm:"not null;default:'new';index" json:"status"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func IsValidFeedbackStatus(status string) bool {
	switch status {
	case FEEDBACK_STATUS_NEW, FEEDBACK_STATUS_READ, FEEDBACK_STATUS_ANSWERED, FEEDBACK_STATUS_RESOLVED:
		return true
	}
	return false
}
