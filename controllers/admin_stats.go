package controllers

import (
	"net/http"

	dbpkg "cupomzone/db"
	"cupomzone/models"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/stats
// Visão geral do painel: contagens e receita acumulada.
func GetAdminStats(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var users, coupons, premiumCoupons, activeSubscriptions, newFeedbacks int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := db.Model(&models.Coupon{}).Count(&coupons).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := db.Model(&models.Coupon{}).Where("is_premium = ?", true).Count(&premiumCoupons).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := db.Model(&models.Subscription{}).
		Where("status = ?", models.SUBSCRIPTION_STATUS_ACTIVE).Count(&activeSubscriptions).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := db.Model(&models.Feedback{}).
		Where("status = ?", models.FEEDBACK_STATUS_NEW).Count(&newFeedbacks).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	var revenue struct {
		Total int64
	}
	if err := db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount_cents), 0) AS total").
		Where("status = ?", models.PAYMENT_STATUS_COMPLETED).
		Scan(&revenue).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"users":                users,
		"coupons":              coupons,
		"premium_coupons":      premiumCoupons,
		"active_subscriptions": activeSubscriptions,
		"new_feedbacks":        newFeedbacks,
		"revenue_cents":        revenue.Total,
	})
}
