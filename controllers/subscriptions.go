package controllers

import (
	"errors"
	"net/http"

	dbpkg "cupomzone/db"
	"cupomzone/models"
	"cupomzone/subscription"

	"github.com/gin-gonic/gin"
)

type CreateSubscriptionRequest struct {
	PlanSlug             string `json:"plan_slug" form:"plan_slug"`
	PaymentMethod        string `json:"payment_method" form:"payment_method"`
	PaymentIntentID      string `json:"payment_intent_id" form:"payment_intent_id"`
	StripeCustomerID     string `json:"stripe_customer_id" form:"stripe_customer_id"`
	StripeSubscriptionID string `json:"stripe_subscription_id" form:"stripe_subscription_id"`
}

type ChangePlanRequest struct {
	NewPlanSlug string `json:"new_plan_slug" form:"new_plan_slug"`
}

type CancelSubscriptionRequest struct {
	Immediate bool `json:"immediate" form:"immediate"`
}

func subscriptionErrorStatus(err error) int {
	if errors.Is(err, subscription.ErrPlanNotFound) || errors.Is(err, subscription.ErrSubscriptionNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// GET /api/subscriptions
// Planos disponíveis e, quando logado, a assinatura do usuário.
func GetSubscriptions(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	manager := subscription.NewManager(db)

	plans, err := manager.GetAllPlans()
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	user, logged := GetUserLogged(c)
	if !logged {
		RespondSuccess(c, gin.H{"plans": plans, "subscription": nil})
		return
	}

	sub, err := manager.GetUserSubscription(user.ID)
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			RespondSuccess(c, gin.H{"plans": plans, "subscription": nil})
			return
		}
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"plans": plans, "subscription": sub})
}

// POST /api/subscriptions/create
func CreateSubscription(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "não autorizado", http.StatusUnauthorized)
		return
	}

	var req CreateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.PlanSlug == "" {
		RespondError(c, "plan_slug é obrigatório", http.StatusBadRequest)
		return
	}

	method := models.PaymentMethod(req.PaymentMethod)
	switch method {
	case models.PAYMENT_METHOD_CREDIT_CARD, models.PAYMENT_METHOD_PIX, models.PAYMENT_METHOD_BOLETO:
	case "":
		// sem método explícito: cartão quando veio um payment intent, senão pix
		method = models.PAYMENT_METHOD_PIX
		if req.PaymentIntentID != "" {
			method = models.PAYMENT_METHOD_CREDIT_CARD
		}
	default:
		RespondError(c, "payment_method inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	manager := subscription.NewManager(db)
	subscriptionID, paymentID, err := manager.CreateSubscription(user.ID, req.PlanSlug, method)
	if err != nil {
		RespondError(c, err.Error(), subscriptionErrorStatus(err))
		return
	}

	if err := manager.SetStripeReferences(user.ID, subscriptionID, paymentID,
		req.StripeCustomerID, req.StripeSubscriptionID, req.PaymentIntentID); err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"success":         true,
		"subscription_id": subscriptionID,
		"payment_id":      paymentID,
		"message":         "Assinatura criada com sucesso",
	})
}

// POST /api/subscriptions/change-plan
func ChangePlan(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "não autorizado", http.StatusUnauthorized)
		return
	}

	var req ChangePlanRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.NewPlanSlug == "" {
		RespondError(c, "new_plan_slug é obrigatório", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	if err := subscription.NewManager(db).ChangePlan(user.ID, req.NewPlanSlug); err != nil {
		RespondError(c, err.Error(), subscriptionErrorStatus(err))
		return
	}

	RespondSuccess(c, gin.H{"success": true, "message": "Plano alterado com sucesso"})
}

// POST /api/subscriptions/cancel
func CancelSubscription(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "não autorizado", http.StatusUnauthorized)
		return
	}

	var req CancelSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	if err := subscription.NewManager(db).CancelSubscription(user.ID, req.Immediate); err != nil {
		RespondError(c, err.Error(), subscriptionErrorStatus(err))
		return
	}

	message := "Assinatura será cancelada ao fim do período"
	if req.Immediate {
		message = "Assinatura cancelada imediatamente"
	}
	RespondSuccess(c, gin.H{"success": true, "message": message})
}
