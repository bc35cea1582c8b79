package controllers

import (
	"net/http"
	"time"

	dbpkg "cupomzone/db"
	"cupomzone/models"

	"github.com/gin-gonic/gin"
)

// AdminSubscriptionView junta assinatura, usuário e plano para o painel.
type AdminSubscriptionView struct {
	ID                int64                     `json:"id"`
	Status            models.SubscriptionStatus `json:"status"`
	UserID            int64                     `json:"user_id"`
	UserName          string                    `json:"user_name"`
	UserEmail         string                    `json:"user_email"`
	PlanSlug          string                    `json:"plan_slug"`
	PlanName          string                    `json:"plan_name"`
	PriceCents        int64                     `json:"price_cents"`
	CancelAtPeriodEnd bool                      `json:"cancel_at_period_end"`
	CurrentPeriodEnd  *time.Time                `json:"current_period_end"`
	CreatedAt         *time.Time                `json:"created_at"`
}

// GET /api/admin/subscriptions
func GetAdminSubscriptions(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	query := db.Table("subscriptions").
		Select(`subscriptions.id, subscriptions.status, subscriptions.cancel_at_period_end,
			subscriptions.current_period_end, subscriptions.created_at,
			users.id AS user_id, users.name AS user_name, users.email AS user_email,
			plans.slug AS plan_slug, plans.name AS plan_name, plans.price_cents`).
		Joins("JOIN users ON users.id = subscriptions.user_id").
		Joins("JOIN plans ON plans.id = subscriptions.plan_id")

	if status := c.Query("status"); status != "" {
		query = query.Where("subscriptions.status = ?", status)
	}

	page, size := Pagination(c)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	subscriptions := []AdminSubscriptionView{}
	if err := query.Order("subscriptions.created_at desc").
		Offset((page - 1) * size).Limit(size).
		Scan(&subscriptions).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"subscriptions": subscriptions,
		"total":         total,
		"page":          page,
		"page_size":     size,
	})
}
