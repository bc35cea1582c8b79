package models

import "time"

// Categorias aceitas para cupons.
var COUPON_CATEGORIES = []string{"moda", "tecnologia", "alimentos", "viagem", "beleza", "casa", "esportes", "outros"}

// Coupon representa um cupom de desconto do catálogo.
// Cupons premium têm o código mascarado para quem não tem acesso premium.
type Coupon struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Title       string     `gorm:"not null" json:"title" form:"title"`
	Description string     `gorm:"type:text" json:"description" form:"description"`
	Code        string     `gorm:"not null;unique_index" json:"code" form:"code"`
	Discount    string     `gorm:"not null" json:"discount" form:"discount"`
	Store       string     `gorm:"not null" json:"store" form:"store"`
	Category    string     `gorm:"not null;index" json:"category" form:"category"`
	ExpiresAt   *time.Time `json:"expires_at" form:"expires_at"`
	IsPremium   bool       `gorm:"not null;default:false;index" json:"is_premium" form:"is_premium"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func IsValidCategory(category string) bool {
	for _, c := range COUPON_CATEGORIES {
		if c == category {
			return true
		}
	}
	return false
}
