package models

import (
	"cupomzone/tools"
	"time"
)

/************************************************
/**** MARK: USER ROLES ****/
/************************************************/
const USER_ROLE_USER = "user"
const USER_ROLE_ADMIN = "admin"

// User representa um usuario no sistema
type User struct {
	ID       int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name     string `gorm:"not null" json:"name" form:"name"`
	Email    string `gorm:"not null;unique" json:"email" form:"email"`
	Password string `gorm:"not null" json:"-" form:"password"`
	Role     string `gorm:"not null;default:'user'" json:"role" form:"role"`
	// data URL base64 ou link externo, por isso text
	AvatarURL        string     `gorm:"column:avatar_url;type:text" json:"avatar_url" form:"avatar_url"`
	StripeCustomerID string     `gorm:"column:stripe_customer_id;default:''" json:"-"`
	CreatedAt        *time.Time `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}

func (user User) IsAdmin() bool {
	return user.Role == USER_ROLE_ADMIN
}

func (user User) MissingFields() string {
	if user.Name == "" {
		return "name"
	} else if user.Email == "" {
		return "email"
	} else if user.Password == "" {
		return "password"
	} else if tools.CheckPassword(user.Password) != "" {
		return tools.CheckPassword(user.Password)
	}
	return ""
}
