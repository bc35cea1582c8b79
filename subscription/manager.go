package subscription

import (
	"errors"
	"fmt"
	"time"

	"cupomzone/models"

	"github.com/jinzhu/gorm"
)

var (
	ErrPlanNotFound         = errors.New("plano não encontrado")
	ErrSubscriptionNotFound = errors.New("assinatura não encontrada")
)

// Manager concentra as regras de assinatura: invariante de assinatura única,
// cálculo do período de cobrança e liberação de benefícios do plano.
type Manager struct {
	db *gorm.DB
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// GetPlanBySlug retorna um plano ativo pelo slug.
func (m *Manager) GetPlanBySlug(slug string) (*models.Plan, error) {
	var plan models.Plan
	if err := m.db.Where("slug = ? AND is_active = ?", slug, true).First(&plan).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetAllPlans lista os planos ativos em ordem de preço.
func (m *Manager) GetAllPlans() ([]models.Plan, error) {
	var plans []models.Plan
	if err := m.db.Where("is_active = ?", true).Order("price_cents asc").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// GetUserSubscription retorna a assinatura mais recente do usuário
// (pendente, ativa ou cancelada), com o plano carregado.
func (m *Manager) GetUserSubscription(userID int64) (*models.Subscription, error) {
	var sub models.Subscription
	err := m.db.
		Where("user_id = ? AND status IN (?)", userID, []models.SubscriptionStatus{
			models.SUBSCRIPTION_STATUS_PENDING,
			models.SUBSCRIPTION_STATUS_ACTIVE,
			models.SUBSCRIPTION_STATUS_CANCELLED,
		}).
		Order("created_at desc, id desc").
		First(&sub).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	var plan models.Plan
	if err := m.db.First(&plan, sub.PlanID).Error; err == nil {
		sub.Plan = &plan
	}
	return &sub, nil
}

// CreateSubscription cria uma assinatura para o plano indicado, cancelando a
// assinatura ativa anterior se existir. Planos gratuitos nascem ativos com
// pagamento completo; os demais ficam pendentes até a confirmação do provedor.
// Todas as escritas acontecem numa única transação.
func (m *Manager) CreateSubscription(userID int64, planSlug string, method models.PaymentMethod) (subscriptionID, paymentID int64, err error) {
	plan, err := m.GetPlanBySlug(planSlug)
	if err != nil {
		return 0, 0, err
	}

	now := time.Now()
	periodEnd := plan.PeriodEnd(now)

	tx := m.db.Begin()
	if tx.Error != nil {
		return 0, 0, tx.Error
	}

	// Cancela assinaturas ativas ou pendentes anteriores (superadas pela
	// nova). Isso garante no máximo uma assinatura vigente por usuário.
	var priors []models.Subscription
	if err := tx.Where("user_id = ? AND status IN (?)", userID, []models.SubscriptionStatus{
		models.SUBSCRIPTION_STATUS_ACTIVE,
		models.SUBSCRIPTION_STATUS_PENDING,
	}).Find(&priors).Error; err != nil {
		tx.Rollback()
		return 0, 0, err
	}
	for _, prior := range priors {
		updates := map[string]interface{}{
			"status":       models.SUBSCRIPTION_STATUS_CANCELLED,
			"cancelled_at": now,
		}
		if err := tx.Model(&models.Subscription{}).Where("id = ?", prior.ID).Updates(updates).Error; err != nil {
			tx.Rollback()
			return 0, 0, err
		}
		priorPlanID := prior.PlanID
		history := models.SubscriptionHistory{
			SubscriptionID: prior.ID,
			UserID:         userID,
			PreviousPlanID: &priorPlanID,
			NewPlanID:      priorPlanID,
			Action:         models.HISTORY_ACTION_CANCELLED,
			Note:           "Assinatura superada por nova assinatura",
		}
		if err := tx.Create(&history).Error; err != nil {
			tx.Rollback()
			return 0, 0, err
		}
	}

	status := models.SUBSCRIPTION_STATUS_PENDING
	paymentStatus := models.PAYMENT_STATUS_PENDING
	var paidAt *time.Time
	if plan.IsFree() {
		status = models.SUBSCRIPTION_STATUS_ACTIVE
		paymentStatus = models.PAYMENT_STATUS_COMPLETED
		paidAt = &now
	}

	sub := models.Subscription{
		UserID:             userID,
		PlanID:             plan.ID,
		Status:             status,
		CurrentPeriodStart: &now,
		CurrentPeriodEnd:   &periodEnd,
	}
	if err := tx.Create(&sub).Error; err != nil {
		tx.Rollback()
		return 0, 0, err
	}

	payment := models.Payment{
		SubscriptionID: sub.ID,
		UserID:         userID,
		AmountCents:    plan.PriceCents,
		Method:         method,
		Status:         paymentStatus,
		PaidAt:         paidAt,
	}
	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		return 0, 0, err
	}

	history := models.SubscriptionHistory{
		SubscriptionID: sub.ID,
		UserID:         userID,
		NewPlanID:      plan.ID,
		Action:         models.HISTORY_ACTION_CREATED,
		Note:           fmt.Sprintf("Assinatura criada para o plano %s", plan.Name),
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return 0, 0, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return 0, 0, err
	}

	return sub.ID, payment.ID, nil
}

// ChangePlan troca o plano da assinatura corrente sem reiniciar o período de
// cobrança. Preço maior é upgrade; igual ou menor é downgrade. O ajuste de
// cobrança fica a cargo do provedor de pagamento.
func (m *Manager) ChangePlan(userID int64, newPlanSlug string) error {
	sub, err := m.GetUserSubscription(userID)
	if err != nil {
		return err
	}

	newPlan, err := m.GetPlanBySlug(newPlanSlug)
	if err != nil {
		return err
	}

	var currentPrice int64
	if sub.Plan != nil {
		currentPrice = sub.Plan.PriceCents
	}

	action := models.HISTORY_ACTION_DOWNGRADED
	if newPlan.PriceCents > currentPrice {
		action = models.HISTORY_ACTION_UPGRADED
	}

	tx := m.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Model(&models.Subscription{}).Where("id = ?", sub.ID).Update("plan_id", newPlan.ID).Error; err != nil {
		tx.Rollback()
		return err
	}

	previousName := "desconhecido"
	if sub.Plan != nil {
		previousName = sub.Plan.Name
	}
	previousPlanID := sub.PlanID
	history := models.SubscriptionHistory{
		SubscriptionID: sub.ID,
		UserID:         userID,
		PreviousPlanID: &previousPlanID,
		NewPlanID:      newPlan.ID,
		Action:         action,
		Note:           fmt.Sprintf("Plano alterado de %s para %s", previousName, newPlan.Name),
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// CancelSubscription cancela a assinatura corrente. Com immediate, o status
// vira cancelled na hora; sem, apenas marca o cancelamento para o fim do
// período. Em ambos os casos cancelled_at registra o momento do pedido.
func (m *Manager) CancelSubscription(userID int64, immediate bool) error {
	sub, err := m.GetUserSubscription(userID)
	if err != nil {
		return err
	}

	now := time.Now()
	var updates map[string]interface{}
	note := "Cancelamento ao fim do período"
	if immediate {
		updates = map[string]interface{}{
			"status":               models.SUBSCRIPTION_STATUS_CANCELLED,
			"cancelled_at":         now,
			"cancel_at_period_end": false,
		}
		note = "Cancelamento imediato"
	} else {
		updates = map[string]interface{}{
			"cancel_at_period_end": true,
			"cancelled_at":         now,
		}
	}

	tx := m.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Model(&models.Subscription{}).Where("id = ?", sub.ID).Updates(updates).Error; err != nil {
		tx.Rollback()
		return err
	}

	previousPlanID := sub.PlanID
	history := models.SubscriptionHistory{
		SubscriptionID: sub.ID,
		UserID:         userID,
		PreviousPlanID: &previousPlanID,
		NewPlanID:      sub.PlanID,
		Action:         models.HISTORY_ACTION_CANCELLED,
		Note:           note,
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// HasAccessToPremiumCoupons é verdadeiro apenas com assinatura ativa cujo
// plano libera cupons premium. Cancelada com período vigente não conta.
func (m *Manager) HasAccessToPremiumCoupons(userID int64) (bool, error) {
	sub, err := m.GetUserSubscription(userID)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			return false, nil
		}
		return false, err
	}
	return sub.IsActive() && sub.Plan != nil && sub.Plan.PremiumCouponAccess, nil
}

// CanAddFavorite verifica o teto de favoritos do plano. Sem assinatura ativa
// não pode; max_favorites nulo é ilimitado; senão vale contagem < limite.
func (m *Manager) CanAddFavorite(userID int64) (bool, error) {
	sub, err := m.GetUserSubscription(userID)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			return false, nil
		}
		return false, err
	}
	if !sub.IsActive() || sub.Plan == nil {
		return false, nil
	}
	if sub.Plan.MaxFavorites == nil {
		return true, nil
	}

	var count int64
	if err := m.db.Model(&models.Favorite{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count < *sub.Plan.MaxFavorites, nil
}
