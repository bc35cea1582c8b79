package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	dbpkg "cupomzone/db"
	"cupomzone/payments"
	"cupomzone/subscription"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	stripe "github.com/stripe/stripe-go/v76"
)

// POST /api/webhooks/stripe
// Único caminho que promove pagamentos pendentes a concluídos: a assinatura só
// ativa depois que o Stripe confirma o pagamento.
func StripeWebhook(c *gin.Context) {
	client := payments.Instance(c)
	if client == nil {
		RespondError(c, "pagamentos não configurados", http.StatusServiceUnavailable)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	event, err := client.ConstructWebhookEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		log.WithError(err).Warn("webhook stripe com assinatura inválida")
		RespondError(c, "assinatura inválida", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	manager := subscription.NewManager(db)

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		if event.Type == "payment_intent.succeeded" {
			err = manager.CompletePaymentByIntent(intent.ID)
		} else {
			err = manager.FailPaymentByIntent(intent.ID)
		}
		if err != nil {
			log.WithError(err).WithField("intent", intent.ID).Error("falha ao processar webhook de pagamento")
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
		log.WithFields(log.Fields{"event": event.Type, "intent": intent.ID}).Info("webhook stripe processado")

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		if err := manager.CancelByStripeSubscription(sub.ID); err != nil {
			log.WithError(err).WithField("subscription", sub.ID).Error("falha ao cancelar assinatura via webhook")
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
		log.WithField("subscription", sub.ID).Info("assinatura cancelada via webhook")

	default:
		// eventos não tratados são reconhecidos para o Stripe não reenviar
	}

	RespondSuccess(c, gin.H{"received": true})
}
