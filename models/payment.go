package models

import "time"

// PaymentStatus é uma enumeração fechada de estados do pagamento.
type PaymentStatus string

const (
	PAYMENT_STATUS_PENDING   PaymentStatus = "pending"
	PAYMENT_STATUS_COMPLETED PaymentStatus = "completed"
	PAYMENT_STATUS_FAILED    PaymentStatus = "failed"
	PAYMENT_STATUS_REFUNDED  PaymentStatus = "refunded"
)

// PaymentMethod é uma enumeração fechada de métodos de pagamento.
type PaymentMethod string

const (
	PAYMENT_METHOD_CREDIT_CARD PaymentMethod = "credit_card"
	PAYMENT_METHOD_PIX         PaymentMethod = "pix"
	PAYMENT_METHOD_BOLETO      PaymentMethod = "boleto"
)

// Payment representa uma tentativa de cobrança de uma assinatura.
// O webhook do provedor é o único escritor que move pending -> completed.
type Payment struct {
	ID                    int64         `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	SubscriptionID        int64         `gorm:"not null;index" json:"subscription_id"`
	UserID                int64         `gorm:"not null;index" json:"user_id"`
	AmountCents           int64         `gorm:"not null;default:0" json:"amount_cents"`
	Method                PaymentMethod `gorm:"not null" json:"method"`
	Status                PaymentStatus `gorm:"not null;default:'pending';index" json:"status"`
	StripePaymentIntentID string        `gorm:"column:stripe_payment_intent_id;default:'';index" json:"-"`
	PaidAt                *time.Time    `json:"paid_at"`
	CreatedAt             *time.Time    `json:"created_at"`
	UpdatedAt             *time.Time    `json:"updated_at"`
}
