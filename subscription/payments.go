package subscription

import (
	"time"

	"cupomzone/models"

	"github.com/jinzhu/gorm"
)

// UpdatePaymentStatus registra o resultado de uma cobrança. Um pagamento
// completo também ativa a assinatura correspondente.
func (m *Manager) UpdatePaymentStatus(paymentID int64, status models.PaymentStatus, providerRef string) error {
	var payment models.Payment
	if err := m.db.First(&payment, paymentID).Error; err != nil {
		return err
	}

	tx := m.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	updates := map[string]interface{}{"status": status}
	if providerRef != "" {
		updates["stripe_payment_intent_id"] = providerRef
	}
	if status == models.PAYMENT_STATUS_COMPLETED {
		updates["paid_at"] = time.Now()
	}
	if err := tx.Model(&models.Payment{}).Where("id = ?", payment.ID).Updates(updates).Error; err != nil {
		tx.Rollback()
		return err
	}

	if status == models.PAYMENT_STATUS_COMPLETED {
		// só assinaturas pendentes ativam: uma confirmação atrasada para uma
		// assinatura já superada não pode ressuscitá-la
		if err := tx.Model(&models.Subscription{}).
			Where("id = ? AND status = ?", payment.SubscriptionID, models.SUBSCRIPTION_STATUS_PENDING).
			Update("status", models.SUBSCRIPTION_STATUS_ACTIVE).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}

// SetStripeReferences amarra os identificadores do Stripe criados no checkout.
func (m *Manager) SetStripeReferences(userID, subscriptionID, paymentID int64, customerID, stripeSubscriptionID, paymentIntentID string) error {
	if customerID != "" {
		if err := m.db.Model(&models.User{}).Where("id = ?", userID).
			Update("stripe_customer_id", customerID).Error; err != nil {
			return err
		}
	}
	if stripeSubscriptionID != "" {
		if err := m.db.Model(&models.Subscription{}).Where("id = ?", subscriptionID).
			Update("stripe_subscription_id", stripeSubscriptionID).Error; err != nil {
			return err
		}
	}
	if paymentIntentID != "" {
		if err := m.db.Model(&models.Payment{}).Where("id = ?", paymentID).
			Update("stripe_payment_intent_id", paymentIntentID).Error; err != nil {
			return err
		}
	}
	return nil
}

// CompletePaymentByIntent é chamado pelo webhook quando o provedor confirma
// a cobrança. É o único caminho que move pending -> active fora do checkout.
func (m *Manager) CompletePaymentByIntent(paymentIntentID string) error {
	var payment models.Payment
	err := m.db.Where("stripe_payment_intent_id = ?", paymentIntentID).First(&payment).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			// Intent desconhecido: evento de outro sistema ou replay antigo.
			return nil
		}
		return err
	}
	return m.UpdatePaymentStatus(payment.ID, models.PAYMENT_STATUS_COMPLETED, "")
}

// FailPaymentByIntent marca a cobrança como falha. A assinatura permanece
// pendente aguardando nova tentativa.
func (m *Manager) FailPaymentByIntent(paymentIntentID string) error {
	var payment models.Payment
	err := m.db.Where("stripe_payment_intent_id = ?", paymentIntentID).First(&payment).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil
		}
		return err
	}
	return m.UpdatePaymentStatus(payment.ID, models.PAYMENT_STATUS_FAILED, "")
}

// CancelByStripeSubscription reflete um cancelamento originado no provedor.
func (m *Manager) CancelByStripeSubscription(stripeSubscriptionID string) error {
	now := time.Now()
	return m.db.Model(&models.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		Updates(map[string]interface{}{
			"status":       models.SUBSCRIPTION_STATUS_CANCELLED,
			"cancelled_at": now,
		}).Error
}

// ExpireLapsed fecha assinaturas ativas com período vencido: as marcadas com
// cancel_at_period_end viram cancelled, as demais viram expired. Retorna
// quantas linhas mudaram.
func (m *Manager) ExpireLapsed(now time.Time) (int64, error) {
	cancelled := m.db.Model(&models.Subscription{}).
		Where("status = ? AND cancel_at_period_end = ? AND current_period_end < ?",
			models.SUBSCRIPTION_STATUS_ACTIVE, true, now).
		Update("status", models.SUBSCRIPTION_STATUS_CANCELLED)
	if cancelled.Error != nil {
		return 0, cancelled.Error
	}

	expired := m.db.Model(&models.Subscription{}).
		Where("status = ? AND cancel_at_period_end = ? AND current_period_end < ?",
			models.SUBSCRIPTION_STATUS_ACTIVE, false, now).
		Update("status", models.SUBSCRIPTION_STATUS_EXPIRED)
	if expired.Error != nil {
		return 0, expired.Error
	}

	return cancelled.RowsAffected + expired.RowsAffected, nil
}
