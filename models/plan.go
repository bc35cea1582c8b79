package models

import (
	"encoding/json"
	"time"
)

/************************************************
/**** MARK: BILLING PERIODS ****/
/************************************************/
const BILLING_PERIOD_MONTHLY = "monthly"
const BILLING_PERIOD_YEARLY = "yearly"

// Plan representa um plano de assinatura do catálogo.
// Planos são dados de seed administrativos, nunca mutáveis pelo usuário.
type Plan struct {
	ID          int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Slug        string `gorm:"not null;unique_index" json:"slug" form:"slug"`
	Name        string `gorm:"not null;unique" json:"name" form:"name"`
	Description string `gorm:"type:text" json:"description" form:"description"`
	PriceCents  int64  `gorm:"not null;default:0" json:"price_cents" form:"price_cents"`

	// BillingPeriod: monthly|yearly
	BillingPeriod string `gorm:"not null;default:'monthly'" json:"billing_period" form:"billing_period"`

	// Features guarda a lista ordenada de recursos como JSON.
	Features string `gorm:"type:text" json:"-"`

	// MaxFavorites nulo significa ilimitado.
	MaxFavorites *int64 `json:"max_favorites" form:"max_favorites"`

	PremiumCouponAccess bool       `gorm:"not null;default:false" json:"premium_coupon_access" form:"premium_coupon_access"`
	PrioritySupport     bool       `gorm:"not null;default:false" json:"priority_support" form:"priority_support"`
	IsActive            bool       `gorm:"not null;default:true" json:"is_active" form:"is_active"`
	CreatedAt           *time.Time `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at"`
}

func (p Plan) IsFree() bool {
	return p.PriceCents == 0
}

// FeatureList decodifica a coluna Features.
func (p Plan) FeatureList() []string {
	if p.Features == "" {
		return nil
	}
	var features []string
	if err := json.Unmarshal([]byte(p.Features), &features); err != nil {
		return nil
	}
	return features
}

func (p *Plan) SetFeatures(features []string) {
	b, err := json.Marshal(features)
	if err != nil {
		p.Features = "[]"
		return
	}
	p.Features = string(b)
}

// PeriodEnd calcula o fim do período de cobrança a partir do início.
func (p Plan) PeriodEnd(start time.Time) time.Time {
	if p.BillingPeriod == BILLING_PERIOD_YEARLY {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}
