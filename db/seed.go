package db

import (
	"cupomzone/models"

	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

// SeedPlans garante o catálogo de planos (free/medium/pro) quando a tabela
// está vazia. Planos são dados administrativos, não mutáveis pelo usuário.
func SeedPlans(database *gorm.DB) error {
	var count int64
	if err := database.Model(&models.Plan{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	five := int64(5)
	twenty := int64(20)

	plans := []models.Plan{
		{
			Slug:          "free",
			Name:          "Gratuito",
			Description:   "Cupons públicos e até 5 favoritos",
			PriceCents:    0,
			BillingPeriod: models.BILLING_PERIOD_MONTHLY,
			MaxFavorites:  &five,
			IsActive:      true,
		},
		{
			Slug:                "medium",
			Name:                "Médio",
			Description:         "Cupons premium e até 20 favoritos",
			PriceCents:          1990,
			BillingPeriod:       models.BILLING_PERIOD_MONTHLY,
			MaxFavorites:        &twenty,
			PremiumCouponAccess: true,
			IsActive:            true,
		},
		{
			Slug:                "pro",
			Name:                "Pro",
			Description:         "Cupons premium, favoritos ilimitados e suporte prioritário",
			PriceCents:          3990,
			BillingPeriod:       models.BILLING_PERIOD_MONTHLY,
			MaxFavorites:        nil,
			PremiumCouponAccess: true,
			PrioritySupport:     true,
			IsActive:            true,
		},
	}

	plans[0].SetFeatures([]string{"Cupons públicos", "Até 5 favoritos"})
	plans[1].SetFeatures([]string{"Cupons premium", "Até 20 favoritos", "Sem anúncios"})
	plans[2].SetFeatures([]string{"Cupons premium", "Favoritos ilimitados", "Suporte prioritário"})

	for i := range plans {
		if err := database.Create(&plans[i]).Error; err != nil {
			return err
		}
	}

	logrus.Infof("Catálogo de planos criado (%d planos)", len(plans))
	return nil
}
