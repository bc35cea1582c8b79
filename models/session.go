package models

import "time"

// Session representa uma sessão de login persistida.
// O ID é um UUID aleatório entregue ao cliente via cookie httpOnly.
type Session struct {
	ID        string     `gorm:"primary_key" json:"id"`
	UserID    int64      `gorm:"not null;index" json:"user_id"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at"`
	CreatedAt *time.Time `json:"created_at"`
}

func (s Session) IsExpired(now time.Time) bool {
	if s.ExpiresAt == nil {
		return false
	}
	return now.After(*s.ExpiresAt)
}
