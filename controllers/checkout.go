package controllers

import (
	"net/http"

	dbpkg "cupomzone/db"
	"cupomzone/models"
	"cupomzone/payments"
	"cupomzone/subscription"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v76"
)

type PaymentIntentRequest struct {
	PlanSlug      string `json:"plan_slug" form:"plan_slug"`
	PaymentMethod string `json:"payment_method" form:"payment_method"`
}

// POST /api/checkout/payment-intent
// Cria um payment intent no Stripe para o plano escolhido. Planos gratuitos
// não passam pelo checkout.
func CreatePaymentIntent(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "não autorizado", http.StatusUnauthorized)
		return
	}

	var req PaymentIntentRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.PlanSlug == "" {
		RespondError(c, "plan_slug é obrigatório", http.StatusBadRequest)
		return
	}

	client := payments.Instance(c)
	if client == nil {
		RespondError(c, "pagamentos não configurados", http.StatusServiceUnavailable)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	plan, err := subscription.NewManager(db).GetPlanBySlug(req.PlanSlug)
	if err != nil {
		RespondError(c, err.Error(), subscriptionErrorStatus(err))
		return
	}
	if plan.IsFree() {
		RespondError(c, "plano gratuito não requer pagamento", http.StatusBadRequest)
		return
	}

	customer, err := client.GetOrCreateCustomer(user.ID, user.Email, user.Name)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadGateway)
		return
	}
	if user.StripeCustomerID != customer.ID {
		if err := db.Model(&models.User{}).Where("id = ?", user.ID).
			Update("stripe_customer_id", customer.ID).Error; err != nil {
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	var intent *stripe.PaymentIntent
	switch models.PaymentMethod(req.PaymentMethod) {
	case models.PAYMENT_METHOD_PIX:
		intent, err = client.CreatePixPaymentIntent(plan.PriceCents)
	case models.PAYMENT_METHOD_CREDIT_CARD, "":
		intent, err = client.CreateCardPaymentIntent(plan.PriceCents)
	default:
		RespondError(c, "payment_method inválido", http.StatusBadRequest)
		return
	}
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadGateway)
		return
	}

	RespondSuccess(c, gin.H{
		"payment_intent_id":  intent.ID,
		"client_secret":      intent.ClientSecret,
		"stripe_customer_id": customer.ID,
		"amount_cents":       plan.PriceCents,
	})
}
