package models

import "time"

// SubscriptionStatus é uma enumeração fechada de estados da assinatura.
type SubscriptionStatus string

const (
	SUBSCRIPTION_STATUS_PENDING   SubscriptionStatus = "pending"
	SUBSCRIPTION_STATUS_ACTIVE    SubscriptionStatus = "active"
	SUBSCRIPTION_STATUS_CANCELLED SubscriptionStatus = "cancelled"
	SUBSCRIPTION_STATUS_EXPIRED   SubscriptionStatus = "expired"
)

// Subscription representa a assinatura de um usuário.
// Invariante: no máximo uma assinatura com status active ou pending por
// usuário; criar uma nova cancela a anterior.
type Subscription struct {
	ID                   int64              `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID               int64              `gorm:"not null;index" json:"user_id"`
	PlanID               int64              `gorm:"not null;index" json:"plan_id"`
	Status               SubscriptionStatus `gorm:"not null;default:'pending';index" json:"status"`
	CurrentPeriodStart   *time.Time         `json:"current_period_start"`
	CurrentPeriodEnd     *time.Time         `json:"current_period_end"`
	CancelAtPeriodEnd    bool               `gorm:"not null;default:false" json:"cancel_at_period_end"`
	CancelledAt          *time.Time         `json:"cancelled_at"`
	StripeSubscriptionID string             `gorm:"column:stripe_subscription_id;default:''" json:"-"`
	CreatedAt            *time.Time         `json:"created_at"`
	UpdatedAt            *time.Time         `json:"updated_at"`

	Plan *Plan `gorm:"-" json:"plan,omitempty"`
}

func (s Subscription) IsActive() bool {
	return s.Status == SUBSCRIPTION_STATUS_ACTIVE
}
