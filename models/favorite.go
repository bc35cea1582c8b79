package models

import "time"

// Favorite representa o vínculo "usuário favoritou cupom".
// Regra: o par (user_id, coupon_id) é único.
type Favorite struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID    int64      `gorm:"not null;unique_index:idx_user_coupon" json:"user_id"`
	CouponID  int64      `gorm:"not null;unique_index:idx_user_coupon" json:"coupon_id"`
	CreatedAt *time.Time `json:"created_at"`
}
